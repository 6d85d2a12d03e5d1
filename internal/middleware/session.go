package middleware

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/listkeep/backend/domain"
	authUC "github.com/listkeep/backend/usecase/auth"
)

const userKey = "current_user"

// SessionLoader resolves the current user from the session cookie before any
// handler runs. A missing or expired session leaves the request anonymous;
// only a storage fault aborts it.
func SessionLoader(uc *authUC.UseCase, cookieName string, timeout time.Duration, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			sessionID := string(ctx.Request.Header.Cookie(cookieName))

			stdCtx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			user, err := uc.CurrentUser(stdCtx, sessionID)
			if err != nil {
				logger.Error("session lookup failed", zap.Error(err))
				ctx.Error("internal server error", fasthttp.StatusInternalServerError)
				return
			}
			if user != nil {
				ctx.SetUserValue(userKey, user)
			}

			next(ctx)
		}
	}
}

// RequireUser short-circuits anonymous requests to the login page.
func RequireUser(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if UserFrom(ctx) == nil {
			ctx.Redirect("/auth/login", fasthttp.StatusFound)
			return
		}
		next(ctx)
	}
}

// UserFrom returns the user attached by SessionLoader, or nil when anonymous.
func UserFrom(ctx *fasthttp.RequestCtx) *domain.User {
	user, _ := ctx.UserValue(userKey).(*domain.User)
	return user
}
