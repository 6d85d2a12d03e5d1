package handler

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/listkeep/backend/domain"
	"github.com/listkeep/backend/repository"
	authUC "github.com/listkeep/backend/usecase/auth"
	taskUC "github.com/listkeep/backend/usecase/task"
	"github.com/listkeep/backend/web"
)

type memUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	m.seq++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", m.seq)
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

type memSessionRepo struct {
	sessions map[string]*domain.Session
}

func (m *memSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	if s, ok := m.sessions[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (m *memSessionRepo) Save(_ context.Context, session *domain.Session) error {
	clone := *session
	m.sessions[session.ID] = &clone
	return nil
}

func (m *memSessionRepo) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

type memTaskRepo struct {
	tasks map[string]*domain.Task
	seq   int
}

func (m *memTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	if t, ok := m.tasks[id]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, domain.ErrTaskNotFound
}

func (m *memTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range m.tasks {
		if t.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (m *memTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	m.seq++
	if task.ID == "" {
		task.ID = fmt.Sprintf("task-%d", m.seq)
	}
	task.CreatedAt = time.Now()
	clone := *task
	m.tasks[task.ID] = &clone
	return task, nil
}

func (m *memTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if _, ok := m.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	clone := *task
	m.tasks[task.ID] = &clone
	return nil
}

func (m *memTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func newTestRenderer(t *testing.T) *web.Renderer {
	t.Helper()
	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	return renderer
}

func newAuthTestHandler(t *testing.T) (*AuthHandler, *memUserRepo, *memSessionRepo) {
	t.Helper()
	users := &memUserRepo{users: make(map[string]*domain.User)}
	sessions := &memSessionRepo{sessions: make(map[string]*domain.Session)}
	uc := authUC.New(users, sessions, time.Hour, nil)
	return NewAuthHandler(uc, nil, newTestRenderer(t), nil, "session_id", false), users, sessions
}

func newTaskTestHandler(t *testing.T) (*TaskHandler, *memTaskRepo) {
	t.Helper()
	tasks := &memTaskRepo{tasks: make(map[string]*domain.Task)}
	uc := taskUC.New(tasks, nil)
	return NewTaskHandler(uc, nil, newTestRenderer(t), nil), tasks
}

func postFormCtx(path, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI(path)
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.Header.SetContentType("application/x-www-form-urlencoded")
	ctx.Request.SetBodyString(body)
	return &ctx
}

func responseCookie(ctx *fasthttp.RequestCtx, name string) (string, bool) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(name)
	if !ctx.Response.Header.Cookie(cookie) {
		return "", false
	}
	return string(cookie.Value()), true
}

func TestRegisterSuccessSetsCookieAndRedirects(t *testing.T) {
	h, users, sessions := newAuthTestHandler(t)

	ctx := postFormCtx("/auth/register", "first_name=Jane&last_name=Doe&email=jd%40example.com&password=s3cret")
	h.Register(ctx)

	if got := ctx.Response.StatusCode(); got != fasthttp.StatusFound {
		t.Fatalf("status = %d, want %d", got, fasthttp.StatusFound)
	}
	if loc := string(ctx.Response.Header.Peek("Location")); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
	sessionID, ok := responseCookie(ctx, "session_id")
	if !ok || sessionID == "" {
		t.Fatal("session cookie missing")
	}
	session, ok := sessions.sessions[sessionID]
	if !ok {
		t.Fatal("cookie references no stored session")
	}
	if _, ok := users.users[session.UserID]; !ok {
		t.Error("session bound to unknown user")
	}
}

func TestRegisterValidationRerendersForm(t *testing.T) {
	h, users, _ := newAuthTestHandler(t)

	ctx := postFormCtx("/auth/register", "first_name=&last_name=Doe&email=jd%40example.com&password=pw")
	h.Register(ctx)

	if got := ctx.Response.StatusCode(); got != fasthttp.StatusOK {
		t.Fatalf("status = %d, want %d", got, fasthttp.StatusOK)
	}
	body := string(ctx.Response.Body())
	if !strings.Contains(body, "First Name is required.") {
		t.Error("validation message missing from re-rendered form")
	}
	if len(users.users) != 0 {
		t.Errorf("expected no user rows, got %d", len(users.users))
	}
}

func TestLoginFailureIsGeneric(t *testing.T) {
	h, _, _ := newAuthTestHandler(t)

	ctx := postFormCtx("/auth/login", "email=nobody%40example.com&password=pw")
	h.Login(ctx)

	if got := ctx.Response.StatusCode(); got != fasthttp.StatusOK {
		t.Fatalf("status = %d, want %d", got, fasthttp.StatusOK)
	}
	if !strings.Contains(string(ctx.Response.Body()), "Incorrect email or password") {
		t.Error("generic login message missing")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	h, _, sessions := newAuthTestHandler(t)
	sessions.sessions["sid"] = &domain.Session{ID: "sid", UserID: "u", ExpiresAt: time.Now().Add(time.Hour)}

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/auth/logout")
	ctx.Request.Header.SetCookie("session_id", "sid")
	h.Logout(&ctx)

	if _, ok := sessions.sessions["sid"]; ok {
		t.Error("session survived logout")
	}
	if loc := string(ctx.Response.Header.Peek("Location")); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestIndexRendersLandingForGuests(t *testing.T) {
	h, _ := newTaskTestHandler(t)

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/")
	h.Index(&ctx)

	if got := ctx.Response.StatusCode(); got != fasthttp.StatusOK {
		t.Fatalf("status = %d, want %d", got, fasthttp.StatusOK)
	}
	if !strings.Contains(string(ctx.Response.Body()), "Log in or register") {
		t.Error("guest landing page not rendered")
	}
}

func TestCreateMissingTitleFlashesAndRedirects(t *testing.T) {
	h, tasks := newTaskTestHandler(t)

	ctx := postFormCtx("/create", "title=&description=whatever")
	ctx.SetUserValue("current_user", &domain.User{ID: "alice"})
	h.Create(ctx)

	if got := ctx.Response.StatusCode(); got != fasthttp.StatusFound {
		t.Fatalf("status = %d, want %d", got, fasthttp.StatusFound)
	}
	if _, ok := responseCookie(ctx, flashCookie); !ok {
		t.Error("flash cookie missing after validation failure")
	}
	if len(tasks.tasks) != 0 {
		t.Errorf("expected no task rows, got %d", len(tasks.tasks))
	}
}

func TestDismissForeignTaskRenders403(t *testing.T) {
	h, tasks := newTaskTestHandler(t)
	tasks.tasks["t1"] = &domain.Task{ID: "t1", AuthorID: "alice", Title: "secret"}

	ctx := postFormCtx("/t1/dismiss", "")
	ctx.SetUserValue("current_user", &domain.User{ID: "bob"})
	ctx.SetUserValue("id", "t1")
	h.Dismiss(ctx)

	if got := ctx.Response.StatusCode(); got != fasthttp.StatusForbidden {
		t.Fatalf("status = %d, want %d", got, fasthttp.StatusForbidden)
	}
	if tasks.tasks["t1"].Completed {
		t.Error("forbidden dismiss still flipped the flag")
	}
}

func TestDeleteUnknownTaskRenders404(t *testing.T) {
	h, _ := newTaskTestHandler(t)

	ctx := postFormCtx("/missing/delete", "")
	ctx.SetUserValue("current_user", &domain.User{ID: "alice"})
	ctx.SetUserValue("id", "missing")
	h.Delete(ctx)

	if got := ctx.Response.StatusCode(); got != fasthttp.StatusNotFound {
		t.Fatalf("status = %d, want %d", got, fasthttp.StatusNotFound)
	}
}

func TestDismissRedirectsToReferer(t *testing.T) {
	h, tasks := newTaskTestHandler(t)
	tasks.tasks["t1"] = &domain.Task{ID: "t1", AuthorID: "alice", Title: "chore", Completed: true}

	ctx := postFormCtx("/t1/dismiss", "")
	ctx.Request.Header.SetReferer("/completed")
	ctx.SetUserValue("current_user", &domain.User{ID: "alice"})
	ctx.SetUserValue("id", "t1")
	h.Dismiss(ctx)

	if got := ctx.Response.StatusCode(); got != fasthttp.StatusFound {
		t.Fatalf("status = %d, want %d", got, fasthttp.StatusFound)
	}
	if loc := string(ctx.Response.Header.Peek("Location")); loc != "/completed" {
		t.Errorf("Location = %q, want /completed", loc)
	}
	if tasks.tasks["t1"].Completed {
		t.Error("dismiss did not reopen the completed task")
	}
}
