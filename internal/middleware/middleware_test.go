package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"user-management/internal/cache"
	"user-management/internal/database"
	"user-management/internal/model"
	"user-management/internal/service"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type userRow struct {
	user *model.User
	err  error
}

func (r *userRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	u := r.user
	*dest[0].(*int) = u.ID
	*dest[1].(*string) = u.FullName
	*dest[2].(*string) = u.Email
	*dest[3].(*string) = u.PasswordHash
	*dest[4].(*model.Role) = u.Role
	*dest[5].(*string) = u.Phone
	*dest[6].(*string) = u.Address
	*dest[7].(*bool) = u.IsActive
	*dest[8].(*time.Time) = u.CreatedAt
	*dest[9].(**time.Time) = u.UpdatedAt
	*dest[10].(**time.Time) = u.LastLogin
	return nil
}

func dbReturning(u *model.User) *database.FakeDB {
	return &database.FakeDB{
		QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
			if u == nil {
				return &userRow{err: pgx.ErrNoRows}
			}
			return &userRow{user: u}
		},
	}
}

func memCache() *cache.FakeCache {
	data := map[string]string{}
	return &cache.FakeCache{
		GetFn: func(_ context.Context, key string) *redis.StringCmd {
			v, ok := data[key]
			if !ok {
				return redis.NewStringResult("", redis.Nil)
			}
			return redis.NewStringResult(v, nil)
		},
		SetFn: func(_ context.Context, key string, val any, _ time.Duration) *redis.StatusCmd {
			data[key] = fmt.Sprint(val)
			return redis.NewStatusResult("OK", nil)
		},
		DelFn: func(_ context.Context, keys ...string) *redis.IntCmd {
			for _, k := range keys {
				delete(data, k)
			}
			return redis.NewIntResult(int64(len(keys)), nil)
		},
	}
}

func newContext(cookieToken, authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookieToken != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookieToken})
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSessionToken(t *testing.T) {
	// nothing supplied
	ctx, _ := newContext("", "")
	_, ok := SessionToken(ctx)
	require.False(t, ok)

	// cookie wins
	ctx, _ = newContext("from-cookie", "Bearer from-header")
	tok, ok := SessionToken(ctx)
	require.True(t, ok)
	require.Equal(t, "from-cookie", tok)

	// bearer fallback, case-insensitive scheme
	ctx, _ = newContext("", "bearer from-header")
	tok, ok = SessionToken(ctx)
	require.True(t, ok)
	require.Equal(t, "from-header", tok)

	// malformed header
	ctx, _ = newContext("", "Basic abc")
	_, ok = SessionToken(ctx)
	require.False(t, ok)

	ctx, _ = newContext("", "Bearer")
	_, ok = SessionToken(ctx)
	require.False(t, ok)
}

func TestRequireAuth(t *testing.T) {
	t.Setenv("SESSION_SECRET", "testsecret")
	rdb := memCache()
	user := &model.User{ID: 2, Email: "bob@x.com", Role: model.RoleUser, IsActive: true}
	tok, _, err := service.IssueSession(context.Background(), rdb, user, false)
	require.NoError(t, err)

	// success path puts the user in the context
	ctx, rec := newContext(tok, "")
	called := false
	handler := RequireAuth(dbReturning(user), rdb)(func(c echo.Context) error {
		called = true
		u := c.Get(ContextUserKey).(*model.User)
		require.Equal(t, 2, u.ID)
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(ctx))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	// missing token
	ctx, _ = newContext("", "")
	called = false
	err = RequireAuth(dbReturning(user), rdb)(func(echo.Context) error { called = true; return nil })(ctx)
	require.Error(t, err)
	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)

	// garbage token
	ctx, _ = newContext("garbage", "")
	err = RequireAuth(dbReturning(user), rdb)(func(echo.Context) error { return nil })(ctx)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)

	// deactivated mid-session
	disabled := &model.User{ID: 2, Email: "bob@x.com", Role: model.RoleUser, IsActive: false}
	ctx, _ = newContext(tok, "")
	called = false
	err = RequireAuth(dbReturning(disabled), rdb)(func(echo.Context) error { called = true; return nil })(ctx)
	require.Error(t, err)
	require.False(t, called)
	require.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)

	// ended session no longer resolves
	require.NoError(t, service.EndSession(context.Background(), rdb, tok))
	ctx, _ = newContext(tok, "")
	err = RequireAuth(dbReturning(user), rdb)(func(echo.Context) error { return nil })(ctx)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, err.(*echo.HTTPError).Code)
}

func TestRequireAdmin(t *testing.T) {
	t.Setenv("SESSION_SECRET", "testsecret")
	rdb := memCache()
	adminUser := &model.User{ID: 3, Email: "root@x.com", Role: model.RoleAdmin, IsActive: true}
	regularUser := &model.User{ID: 4, Email: "bob@x.com", Role: model.RoleUser, IsActive: true}

	adminTok, _, err := service.IssueSession(context.Background(), rdb, adminUser, false)
	require.NoError(t, err)
	userTok, _, err := service.IssueSession(context.Background(), rdb, regularUser, false)
	require.NoError(t, err)

	// admin passes
	ctx, rec := newContext(adminTok, "")
	called := false
	err = RequireAdmin(dbReturning(adminUser), rdb)(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "admin")
	})(ctx)
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)

	// regular user is rejected
	ctx, _ = newContext(userTok, "")
	called = false
	err = RequireAdmin(dbReturning(regularUser), rdb)(func(echo.Context) error { called = true; return nil })(ctx)
	require.Error(t, err)
	require.False(t, called)
	require.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)
}
