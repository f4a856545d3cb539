package auth

import (
	"context"
	"net/http"
	"time"

	"user-management/internal/database"
	"user-management/internal/middleware"
	"user-management/internal/service"
	"user-management/internal/store"
	"user-management/internal/worker"

	"github.com/labstack/echo/v4"
)

// Seams for tests.
var (
	authenticateUser = service.AuthenticateUser
	issueSession     = service.IssueSession
	endSession       = service.EndSession
	hashPassword     = service.HashPassword
	createUser       = store.CreateUser
	updateLastLogin  = store.UpdateUserLastLogin
)

const lastLoginTimeout = 5 * time.Second

// stampLastLogin records the login time off the request path. A failed stamp
// never fails the login itself.
func stampLastLogin(wp worker.Pool, db database.DB, userID int) {
	wp.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), lastLoginTimeout)
		defer cancel()
		_ = updateLastLogin(ctx, db, userID)
	})
}

func setSessionCookie(c echo.Context, token string, expiresAt time.Time, remember bool) {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	// without remember the cookie stays browser-session-scoped
	if remember {
		cookie.Expires = expiresAt
	}
	c.SetCookie(cookie)
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
