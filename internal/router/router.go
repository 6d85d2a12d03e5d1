package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/listkeep/backend/api/handler"
	"github.com/listkeep/backend/internal/middleware"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

// New builds the route table. sessionLoader runs on every route so templates
// always know the current user; RequireUser additionally gates the task
// mutations and the completed view.
func New(handlers Handlers, sessionLoader func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	open := sessionLoader
	gated := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return sessionLoader(middleware.RequireUser(h))
	}

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.GET("/auth/register", open(handlers.Auth.RegisterPage))
	r.POST("/auth/register", open(handlers.Auth.Register))
	r.GET("/auth/login", open(handlers.Auth.LoginPage))
	r.POST("/auth/login", open(handlers.Auth.Login))
	r.GET("/auth/logout", open(handlers.Auth.Logout))

	// Task routes; the index degrades to a landing page for guests.
	r.GET("/", open(handlers.Task.Index))
	r.GET("/completed", gated(handlers.Task.Completed))
	r.POST("/create", gated(handlers.Task.Create))
	r.GET("/{id}/update", gated(handlers.Task.EditPage))
	r.POST("/{id}/update", gated(handlers.Task.Update))
	r.POST("/{id}/dismiss", gated(handlers.Task.Dismiss))
	r.POST("/{id}/delete", gated(handlers.Task.Delete))

	return r
}
