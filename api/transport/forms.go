package transport

import "github.com/valyala/fasthttp"

// Form payloads posted by the HTML views. Values arrive URL-encoded; absent
// fields decode to the empty string and are validated downstream.

type RegisterForm struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func ParseRegisterForm(args *fasthttp.Args) RegisterForm {
	return RegisterForm{
		FirstName: string(args.Peek("first_name")),
		LastName:  string(args.Peek("last_name")),
		Email:     string(args.Peek("email")),
		Password:  string(args.Peek("password")),
	}
}

type LoginForm struct {
	Email    string
	Password string
}

func ParseLoginForm(args *fasthttp.Args) LoginForm {
	return LoginForm{
		Email:    string(args.Peek("email")),
		Password: string(args.Peek("password")),
	}
}

type TaskForm struct {
	Title       string
	Description string
}

func ParseTaskForm(args *fasthttp.Args) TaskForm {
	return TaskForm{
		Title:       string(args.Peek("title")),
		Description: string(args.Peek("description")),
	}
}
