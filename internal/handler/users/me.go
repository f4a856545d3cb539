package users

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"user-management/internal/api"
	"user-management/internal/database"
	"user-management/internal/middleware"
	"user-management/internal/model"
	"user-management/internal/service"
	"user-management/internal/store"

	"github.com/labstack/echo/v4"
)

// Seams for tests.
var (
	hashPassword       = service.HashPassword
	updateUserProfile  = store.UpdateUserProfile
	updateUserPassword = store.UpdateUserPassword
)

func currentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(middleware.ContextUserKey).(*model.User)
	return user, ok && user != nil
}

// GetMeHandler returns the authenticated user's own record.
// @Summary     Get current user profile
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [get]
func GetMeHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := currentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing session"})
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}

// UpdateMeHandler updates the authenticated user's profile fields.
// @Summary     Update current user profile
// @Description Update full name, email, phone and address
// @Tags        users
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       full_name formData string true  "Display name"
// @Param       email     formData string true  "Account email (lowercased)"
// @Param       phone     formData string false "Contact phone"
// @Param       address   formData string false "Contact address"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse "email already in use"
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [put]
func UpdateMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := currentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing session"})
		}

		var req api.UpdateMeRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		req.Email = strings.ToLower(req.Email)
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid email format"})
		}

		updated := *user
		updated.FullName = req.FullName
		updated.Email = req.Email
		updated.Phone = req.Phone
		updated.Address = req.Address

		if err := updateUserProfile(c.Request().Context(), db, &updated); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				return c.JSON(http.StatusConflict, api.ErrorResponse{Message: store.ErrDuplicateEmail.Error()})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to update profile"})
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// UpdateMyPasswordHandler verifies the current password and replaces it.
// @Summary     Change own password
// @Tags        users
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       current_password formData string true "Current password"
// @Param       new_password     formData string true "New password (min 6 characters)"
// @Param       confirm_password formData string true "New password confirmation"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse "current password is incorrect"
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me/password [patch]
func UpdateMyPasswordHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := currentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing session"})
		}

		var req api.UpdateMyPasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		if err := service.ComparePassword(user.PasswordHash, req.CurrentPassword); err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "current password is incorrect"})
		}
		if err := service.CheckNewPassword(req.NewPassword, req.ConfirmPassword); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		hash, err := hashPassword(req.NewPassword)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to hash new password"})
		}
		if err := updateUserPassword(c.Request().Context(), db, user.ID, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to update password"})
		}
		return c.NoContent(http.StatusNoContent)
	}
}
