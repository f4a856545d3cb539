package admin

import (
	"errors"
	"net/http"
	"strconv"

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
	listUsers        = store.ListUsers
	getUserByID      = store.GetUserByID
	toggleUserActive = store.ToggleUserActive
	setUserRole      = store.SetUserRole
	deleteUser       = store.DeleteUser
)

func actorAndTarget(c echo.Context) (*model.User, int, error) {
	actor, ok := c.Get(middleware.ContextUserKey).(*model.User)
	if !ok || actor == nil {
		return nil, 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing session")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	return actor, id, nil
}

// ListUsersHandler returns every account for the admin panel.
// @Summary     List users
// @Tags        admin
// @Produce     json
// @Success     200 {array} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/users [get]
func ListUsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := listUsers(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to list users"})
		}
		resp := make([]api.UserResponse, 0, len(users))
		for i := range users {
			resp = append(resp, api.NewUserResponse(&users[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// GetUserHandler returns one account by id.
// @Summary     Get a user by ID
// @Tags        admin
// @Produce     json
// @Param       id path int true "User ID"
// @Success     200 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/users/{id} [get]
func GetUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		_, id, err := actorAndTarget(c)
		if err != nil {
			return err
		}
		user, err := getUserByID(c.Request().Context(), db, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: store.ErrNotFound.Error()})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to load user"})
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}

// ToggleUserStatusHandler activates or deactivates an account. Admins cannot
// toggle their own account.
// @Summary     Toggle a user's active status
// @Tags        admin
// @Produce     json
// @Param       id path int true "User ID"
// @Success     200 {object} api.UserStatusResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse "cannot modify own account"
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/users/{id}/toggle-status [post]
func ToggleUserStatusHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, id, err := actorAndTarget(c)
		if err != nil {
			return err
		}
		if !service.CanManageUser(actor, id) {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "cannot modify your own account"})
		}
		active, err := toggleUserActive(c.Request().Context(), db, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: store.ErrNotFound.Error()})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to update status"})
		}
		return c.JSON(http.StatusOK, api.UserStatusResponse{ID: id, IsActive: active})
	}
}

// ChangeUserRoleHandler assigns a role. Admins cannot change their own role.
// @Summary     Change a user's role
// @Tags        admin
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       id   path     int    true "User ID"
// @Param       role formData string true "New role (user or admin)"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse "cannot change own role"
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/users/{id}/role [post]
func ChangeUserRoleHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, id, err := actorAndTarget(c)
		if err != nil {
			return err
		}

		var req api.ChangeRoleRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		role := model.Role(req.Role)
		if !role.Valid() {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid role"})
		}

		if !service.CanManageUser(actor, id) {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "cannot change your own role"})
		}

		if err := setUserRole(c.Request().Context(), db, id, role); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: store.ErrNotFound.Error()})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to update role"})
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// DeleteUserHandler removes an account. Admins cannot delete their own
// account.
// @Summary     Delete a user
// @Tags        admin
// @Produce     json
// @Param       id path int true "User ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/users/{id} [delete]
func DeleteUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, id, err := actorAndTarget(c)
		if err != nil {
			return err
		}
		if !service.CanManageUser(actor, id) {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "cannot modify your own account"})
		}
		if err := deleteUser(c.Request().Context(), db, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: store.ErrNotFound.Error()})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to delete user"})
		}
		return c.NoContent(http.StatusNoContent)
	}
}
