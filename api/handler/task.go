package handler

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/listkeep/backend/api/transport"
	"github.com/listkeep/backend/domain"
	"github.com/listkeep/backend/internal/middleware"
	"github.com/listkeep/backend/pkg/httpcontext"
	taskUC "github.com/listkeep/backend/usecase/task"
	"github.com/listkeep/backend/web"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, renderer *web.Renderer, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, renderer, logger),
		uc:          uc,
	}
}

// Index shows the incomplete tasks of the current user, or the guest landing
// page when nobody is logged in.
func (h *TaskHandler) Index(ctx *fasthttp.RequestCtx) {
	user := middleware.UserFrom(ctx)
	if user == nil {
		h.render(ctx, fasthttp.StatusOK, web.PageLanding, web.Data{})
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	incomplete := false
	tasks, err := h.uc.List(stdCtx, user, &incomplete)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	h.render(ctx, fasthttp.StatusOK, web.PageTasks, web.Data{Tasks: tasks})
}

// Completed shows the user's completed tasks.
func (h *TaskHandler) Completed(ctx *fasthttp.RequestCtx) {
	user := middleware.UserFrom(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	completed := true
	tasks, err := h.uc.List(stdCtx, user, &completed)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	h.render(ctx, fasthttp.StatusOK, web.PageCompleted, web.Data{Tasks: tasks})
}

// Create inserts a new task and returns to the index either way; a missing
// title only leaves a message behind.
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	user := middleware.UserFrom(ctx)
	form := transport.ParseTaskForm(ctx.PostArgs())

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.Create(stdCtx, user, form.Title, form.Description); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeInvalid) {
			h.setFlash(ctx, err.Error())
			h.redirect(ctx, "/")
			return
		}
		h.renderError(ctx, err)
		return
	}
	h.redirect(ctx, "/")
}

// EditPage renders the edit form for an owned task.
func (h *TaskHandler) EditPage(ctx *fasthttp.RequestCtx) {
	user := middleware.UserFrom(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(stdCtx, taskID(ctx), user, true)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	h.render(ctx, fasthttp.StatusOK, web.PageEdit, web.Data{Task: task})
}

// Update overwrites title and description of an owned task.
func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	user := middleware.UserFrom(ctx)
	form := transport.ParseTaskForm(ctx.PostArgs())

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.Update(stdCtx, taskID(ctx), user, form.Title, form.Description); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeInvalid) {
			h.setFlash(ctx, err.Error())
			h.redirect(ctx, "/")
			return
		}
		h.renderError(ctx, err)
		return
	}
	h.redirect(ctx, "/")
}

// Dismiss flips the completion flag and returns to the view the request came
// from, so it works from both lists.
func (h *TaskHandler) Dismiss(ctx *fasthttp.RequestCtx) {
	user := middleware.UserFrom(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.ToggleCompletion(stdCtx, taskID(ctx), user); err != nil {
		h.renderError(ctx, err)
		return
	}
	h.redirectBack(ctx)
}

// Delete removes an owned task permanently.
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	user := middleware.UserFrom(ctx)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, taskID(ctx), user); err != nil {
		h.renderError(ctx, err)
		return
	}
	h.redirect(ctx, "/")
}
