package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"user-management/internal/database"
	"user-management/internal/middleware"
	"user-management/internal/model"
	"user-management/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type okValidator struct{}

func (okValidator) Validate(i any) error { return nil }

func restoreSeams() func() {
	return func() {
		listUsers = store.ListUsers
		getUserByID = store.GetUserByID
		toggleUserActive = store.ToggleUserActive
		setUserRole = store.SetUserRole
		deleteUser = store.DeleteUser
	}
}

func newAdminCtx(method, id, body string, actor *model.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = okValidator{}
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	if id != "" {
		ctx.SetParamNames("id")
		ctx.SetParamValues(id)
	}
	if actor != nil {
		ctx.Set(middleware.ContextUserKey, actor)
	}
	return ctx, rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

var rootActor = &model.User{ID: 1, Email: "root@x.com", Role: model.RoleAdmin, IsActive: true}

func TestListUsersHandler(t *testing.T) {
	defer restoreSeams()()

	// storage failure
	listUsers = func(context.Context, database.DB) ([]model.User, error) {
		return nil, errors.New("down")
	}
	ctx, rec := newAdminCtx(http.MethodGet, "", "", rootActor)
	h := ListUsersHandler(&database.FakeDB{})
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// success
	listUsers = func(context.Context, database.DB) ([]model.User, error) {
		return []model.User{
			{ID: 1, Email: "root@x.com", Role: model.RoleAdmin, IsActive: true},
			{ID: 2, Email: "bob@x.com", Role: model.RoleUser, IsActive: false},
		}, nil
	}
	ctx, rec = newAdminCtx(http.MethodGet, "", "", rootActor)
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "bob@x.com")
	require.NotContains(t, rec.Body.String(), "password_hash")
}

func TestGetUserHandler(t *testing.T) {
	defer restoreSeams()()
	h := GetUserHandler(&database.FakeDB{})

	// bad id
	ctx, _ := newAdminCtx(http.MethodGet, "abc", "", rootActor)
	require.Equal(t, http.StatusBadRequest, httpCode(t, h(ctx)))

	// not found
	getUserByID = func(context.Context, database.DB, int) (*model.User, error) {
		return nil, store.ErrNotFound
	}
	ctx, rec := newAdminCtx(http.MethodGet, "2", "", rootActor)
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusNotFound, rec.Code)

	// success
	getUserByID = func(_ context.Context, _ database.DB, id int) (*model.User, error) {
		return &model.User{ID: id, Email: "bob@x.com", Role: model.RoleUser, IsActive: true}, nil
	}
	ctx, rec = newAdminCtx(http.MethodGet, "2", "", rootActor)
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "bob@x.com")
}

func TestToggleUserStatusHandler(t *testing.T) {
	defer restoreSeams()()
	h := ToggleUserStatusHandler(&database.FakeDB{})

	// admins cannot toggle themselves
	ctx, rec := newAdminCtx(http.MethodPost, "1", "", rootActor)
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusForbidden, rec.Code)

	// not found
	toggleUserActive = func(context.Context, database.DB, int) (bool, error) {
		return false, store.ErrNotFound
	}
	ctx, rec = newAdminCtx(http.MethodPost, "2", "", rootActor)
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusNotFound, rec.Code)

	// success reports the new state
	toggleUserActive = func(_ context.Context, _ database.DB, id int) (bool, error) {
		require.Equal(t, 2, id)
		return false, nil
	}
	ctx, rec = newAdminCtx(http.MethodPost, "2", "", rootActor)
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"is_active":false`)
}

func TestChangeUserRoleHandler(t *testing.T) {
	defer restoreSeams()()
	h := ChangeUserRoleHandler(&database.FakeDB{})

	// unknown role
	ctx, rec := newAdminCtx(http.MethodPost, "2", "role=superuser", rootActor)
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// admins cannot change their own role
	ctx, rec = newAdminCtx(http.MethodPost, "1", "role=user", rootActor)
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusForbidden, rec.Code)

	// not found
	setUserRole = func(context.Context, database.DB, int, model.Role) error {
		return store.ErrNotFound
	}
	ctx, rec = newAdminCtx(http.MethodPost, "2", "role=admin", rootActor)
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusNotFound, rec.Code)

	// success
	setUserRole = func(_ context.Context, _ database.DB, id int, role model.Role) error {
		require.Equal(t, 2, id)
		require.Equal(t, model.RoleAdmin, role)
		return nil
	}
	ctx, rec = newAdminCtx(http.MethodPost, "2", "role=admin", rootActor)
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteUserHandler(t *testing.T) {
	defer restoreSeams()()
	h := DeleteUserHandler(&database.FakeDB{})

	// bad id
	ctx, _ := newAdminCtx(http.MethodDelete, "x", "", rootActor)
	require.Equal(t, http.StatusBadRequest, httpCode(t, h(ctx)))

	// admins cannot delete themselves
	ctx, rec := newAdminCtx(http.MethodDelete, "1", "", rootActor)
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusForbidden, rec.Code)

	// not found
	deleteUser = func(context.Context, database.DB, int) error {
		return store.ErrNotFound
	}
	ctx, rec = newAdminCtx(http.MethodDelete, "2", "", rootActor)
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusNotFound, rec.Code)

	// success
	deleteUser = func(_ context.Context, _ database.DB, id int) error {
		require.Equal(t, 2, id)
		return nil
	}
	ctx, rec = newAdminCtx(http.MethodDelete, "2", "", rootActor)
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusNoContent, rec.Code)
}
