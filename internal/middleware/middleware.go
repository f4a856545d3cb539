package middleware

import (
	"errors"
	"net/http"
	"strings"

	"user-management/internal/cache"
	"user-management/internal/database"
	"user-management/internal/model"
	"user-management/internal/service"

	"github.com/labstack/echo/v4"
)

// ContextUserKey holds the resolved *model.User for the current request.
const ContextUserKey = "user"

// SessionCookieName is the cookie the login handlers set and the middleware
// reads back.
const SessionCookieName = "session_token"

// SessionToken extracts the session token from the request: the session
// cookie first, then an Authorization bearer header.
func SessionToken(c echo.Context) (string, bool) {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func resolveUser(c echo.Context, db database.DB, rdb cache.Cache) (*model.User, error) {
	token, ok := SessionToken(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
	}
	user, err := service.ResolveSession(c.Request().Context(), rdb, db, token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSession) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed")
	}
	return user, nil
}

// RequireAuth resolves the session on every request and stores the current
// user record in the context. The user is re-read from the store each time,
// so role or active-state changes apply immediately.
func RequireAuth(db database.DB, rdb cache.Cache) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := resolveUser(c, db, rdb)
			if err != nil {
				return err
			}
			if !service.Authorize(user, service.CapabilitySelf) {
				return echo.NewHTTPError(http.StatusForbidden, "account has been deactivated")
			}
			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

// RequireAdmin is RequireAuth plus the admin capability.
func RequireAdmin(db database.DB, rdb cache.Cache) echo.MiddlewareFunc {
	auth := RequireAuth(db, rdb)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return auth(func(c echo.Context) error {
			user := c.Get(ContextUserKey).(*model.User)
			if !service.Authorize(user, service.CapabilityAdmin) {
				return echo.NewHTTPError(http.StatusForbidden, "admin privileges required")
			}
			return next(c)
		})
	}
}
