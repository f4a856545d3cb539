package auth

import (
	"errors"
	"net/http"
	"strings"

	"user-management/internal/api"
	"user-management/internal/cache"
	"user-management/internal/database"
	"user-management/internal/service"
	"user-management/internal/worker"

	"github.com/labstack/echo/v4"
)

// LoginHandler verifies email+password and opens a session.
// @Summary     Log in
// @Description Verify credentials and issue a session token (also set as a cookie)
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       email    formData string true  "Account email"
// @Param       password formData string true  "Account password"
// @Param       remember formData boolean false "Keep the session for 30 days"
// @Success     200      {object} api.SessionResponse
// @Failure     400      {object} api.ErrorResponse
// @Failure     401      {object} api.ErrorResponse "invalid credentials"
// @Failure     403      {object} api.ErrorResponse "account deactivated"
// @Failure     500      {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB, rdb cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		req.Email = strings.ToLower(req.Email)

		user, err := authenticateUser(c.Request().Context(), db, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCredentials):
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: service.ErrInvalidCredentials.Error()})
			case errors.Is(err, service.ErrAccountDisabled):
				return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: service.ErrAccountDisabled.Error()})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "login failed"})
		}

		token, expiresAt, err := issueSession(c.Request().Context(), rdb, user, req.Remember)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue session"})
		}

		stampLastLogin(wp, db, user.ID)
		setSessionCookie(c, token, expiresAt, req.Remember)

		return c.JSON(http.StatusOK, api.SessionResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			User:      api.NewUserResponse(user),
		})
	}
}
