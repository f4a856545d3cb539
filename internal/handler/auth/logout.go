package auth

import (
	"errors"
	"net/http"

	"user-management/internal/api"
	"user-management/internal/cache"
	"user-management/internal/middleware"
	"user-management/internal/service"

	"github.com/labstack/echo/v4"
)

// LogoutHandler ends the current session; the token stops resolving.
// @Summary     Log out
// @Description End the current session and clear the session cookie
// @Tags        auth
// @Produce     json
// @Success     204 "No Content"
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/logout [post]
func LogoutHandler(rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := middleware.SessionToken(c)
		if ok {
			if err := endSession(c.Request().Context(), rdb, token); err != nil && !errors.Is(err, service.ErrInvalidSession) {
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to end session"})
			}
		}
		clearSessionCookie(c)
		return c.NoContent(http.StatusNoContent)
	}
}
