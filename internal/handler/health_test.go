package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"user-management/internal/database"
	"user-management/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	defer func() { countUsers = store.CountUsers }()

	newCtx := func() (echo.Context, *httptest.ResponseRecorder) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		return e.NewContext(req, rec), rec
	}

	// database unreachable
	countUsers = func(context.Context, database.DB) (int, error) {
		return 0, errors.New("down")
	}
	ctx, rec := newCtx()
	h := HealthHandler(&database.FakeDB{})
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "unhealthy")
	require.Contains(t, rec.Body.String(), "disconnected")

	// healthy
	countUsers = func(context.Context, database.DB) (int, error) {
		return 12, nil
	}
	ctx, rec = newCtx()
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "healthy")
	require.Contains(t, rec.Body.String(), "connected (12 users)")
	require.Contains(t, rec.Body.String(), `"users":12`)
}
