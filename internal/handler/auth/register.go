package auth

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"user-management/internal/api"
	"user-management/internal/cache"
	"user-management/internal/database"
	"user-management/internal/model"
	"user-management/internal/service"
	"user-management/internal/store"
	"user-management/internal/worker"

	"github.com/labstack/echo/v4"
)

// RegisterHandler creates an account and opens its first session in one step.
// @Summary     Register a new account
// @Description Create an account and log it in immediately
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       full_name        formData string true  "Display name"
// @Param       email            formData string true  "Account email (lowercased)"
// @Param       password         formData string true  "Password (min 6 characters)"
// @Param       confirm_password formData string true  "Password confirmation"
// @Param       phone            formData string false "Contact phone"
// @Param       address          formData string false "Contact address"
// @Success     201 {object} api.SessionResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse "email already exists"
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/register [post]
func RegisterHandler(db database.DB, rdb cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		if err := service.CheckNewPassword(req.Password, req.ConfirmPassword); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		req.Email = strings.ToLower(req.Email)
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid email format"})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to hash password"})
		}

		user, err := createUser(c.Request().Context(), db, &model.User{
			FullName:     req.FullName,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         model.RoleUser,
			Phone:        req.Phone,
			Address:      req.Address,
			IsActive:     true,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				return c.JSON(http.StatusConflict, api.ErrorResponse{Message: store.ErrDuplicateEmail.Error()})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to create account"})
		}

		token, expiresAt, err := issueSession(c.Request().Context(), rdb, user, false)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue session"})
		}

		stampLastLogin(wp, db, user.ID)
		setSessionCookie(c, token, expiresAt, false)

		return c.JSON(http.StatusCreated, api.SessionResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			User:      api.NewUserResponse(user),
		})
	}
}
