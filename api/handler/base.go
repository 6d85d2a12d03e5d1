package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/listkeep/backend/api/transport"
	"github.com/listkeep/backend/domain"
	"github.com/listkeep/backend/internal/middleware"
	"github.com/listkeep/backend/pkg/httpcontext"
	"github.com/listkeep/backend/web"
)

// flashCookie carries a one-shot message across a redirect. It is read and
// expired on the next page render.
const flashCookie = "flash"

type baseHandler struct {
	adapter  *httpcontext.Adapter
	renderer *web.Renderer
	logger   *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, renderer *web.Renderer, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, renderer: renderer, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

// render writes an HTML page. The current user is attached automatically and
// a pending flash cookie is consumed unless the caller already set a message.
func (h baseHandler) render(ctx *fasthttp.RequestCtx, status int, page string, data web.Data) {
	if data.User == nil {
		data.User = middleware.UserFrom(ctx)
	}
	if data.Flash == "" {
		data.Flash = h.popFlash(ctx)
	}

	ctx.Response.Header.SetContentType("text/html; charset=utf-8")
	ctx.SetStatusCode(status)
	if err := h.renderer.Render(ctx, page, data); err != nil {
		h.logger.Error("template render failed", zap.String("page", page), zap.Error(err))
		ctx.Error("internal server error", http.StatusInternalServerError)
	}
}

func (h baseHandler) redirect(ctx *fasthttp.RequestCtx, location string) {
	ctx.Redirect(location, fasthttp.StatusFound)
}

// redirectBack sends the browser to the referring view, falling back to the
// index when the Referer header is absent.
func (h baseHandler) redirectBack(ctx *fasthttp.RequestCtx) {
	referer := string(ctx.Request.Header.Referer())
	if referer == "" {
		referer = "/"
	}
	ctx.Redirect(referer, fasthttp.StatusFound)
}

// renderError maps a domain error onto an error page. Validation and auth
// errors never reach here; their handlers recover locally with a flash.
func (h baseHandler) renderError(ctx *fasthttp.RequestCtx, err error) {
	status, message := mapError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
		message = "Something went wrong."
	}
	h.render(ctx, status, web.PageError, web.Data{Status: status, Message: message})
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, err.Error()
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, "You do not have access to this task."
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, err.Error()
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// setFlash stores a message shown on the next rendered page.
func (h baseHandler) setFlash(ctx *fasthttp.RequestCtx, message string) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(flashCookie)
	cookie.SetValue(base64.URLEncoding.EncodeToString([]byte(message)))
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	ctx.Response.Header.SetCookie(cookie)
}

func (h baseHandler) popFlash(ctx *fasthttp.RequestCtx) string {
	raw := ctx.Request.Header.Cookie(flashCookie)
	if len(raw) == 0 {
		return ""
	}

	expired := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(expired)
	expired.SetKey(flashCookie)
	expired.SetPath("/")
	expired.SetExpire(fasthttp.CookieExpireDelete)
	ctx.Response.Header.SetCookie(expired)

	decoded, err := base64.URLEncoding.DecodeString(string(raw))
	if err != nil {
		return ""
	}
	return string(decoded)
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

// taskID extracts the {id} route parameter.
func taskID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}
