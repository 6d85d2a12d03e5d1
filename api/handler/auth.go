package handler

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/listkeep/backend/api/transport"
	"github.com/listkeep/backend/domain"
	"github.com/listkeep/backend/pkg/httpcontext"
	authUC "github.com/listkeep/backend/usecase/auth"
	"github.com/listkeep/backend/web"
)

type AuthHandler struct {
	baseHandler
	uc           *authUC.UseCase
	cookieName   string
	secureCookie bool
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, renderer *web.Renderer, logger *zap.Logger, cookieName string, secureCookie bool) *AuthHandler {
	if cookieName == "" {
		cookieName = "session_id"
	}
	return &AuthHandler{
		baseHandler:  newBaseHandler(adapter, renderer, logger),
		uc:           uc,
		cookieName:   cookieName,
		secureCookie: secureCookie,
	}
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(ctx *fasthttp.RequestCtx) {
	h.render(ctx, fasthttp.StatusOK, web.PageRegister, web.Data{})
}

// Register processes the registration form. Validation and duplicate-email
// failures re-render the form with a message; success logs the new account in
// and redirects to the index.
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	form := transport.ParseRegisterForm(ctx.PostArgs())

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	_, session, err := h.uc.Register(stdCtx, form.FirstName, form.LastName, form.Email, form.Password)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeInvalid) || domain.IsDomainError(err, domain.ErrCodeConflict) {
			h.render(ctx, fasthttp.StatusOK, web.PageRegister, web.Data{Flash: err.Error()})
			return
		}
		h.renderError(ctx, err)
		return
	}

	h.setSessionCookie(ctx, session)
	h.redirect(ctx, "/")
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(ctx *fasthttp.RequestCtx) {
	h.render(ctx, fasthttp.StatusOK, web.PageLogin, web.Data{})
}

// Login processes the login form. Both unknown emails and wrong passwords
// surface the same message.
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	form := transport.ParseLoginForm(ctx.PostArgs())

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	_, session, err := h.uc.Login(stdCtx, form.Email, form.Password)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
			h.render(ctx, fasthttp.StatusOK, web.PageLogin, web.Data{Flash: err.Error()})
			return
		}
		h.renderError(ctx, err)
		return
	}

	h.setSessionCookie(ctx, session)
	h.redirect(ctx, "/")
}

// Logout clears the session unconditionally and redirects home.
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	sessionID := string(ctx.Request.Header.Cookie(h.cookieName))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, sessionID); err != nil {
		h.renderError(ctx, err)
		return
	}

	h.clearSessionCookie(ctx)
	h.redirect(ctx, "/")
}

func (h *AuthHandler) setSessionCookie(ctx *fasthttp.RequestCtx, session *domain.Session) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(h.cookieName)
	cookie.SetValue(session.ID)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetSecure(h.secureCookie)
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	cookie.SetExpire(session.ExpiresAt)
	ctx.Response.Header.SetCookie(cookie)
}

func (h *AuthHandler) clearSessionCookie(ctx *fasthttp.RequestCtx) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(h.cookieName)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetExpire(fasthttp.CookieExpireDelete)
	ctx.Response.Header.SetCookie(cookie)
}
