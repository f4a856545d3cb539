package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"user-management/internal/cache"
	"user-management/internal/database"
	"user-management/internal/middleware"
	"user-management/internal/model"
	"user-management/internal/service"
	"user-management/internal/store"
	"user-management/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// helper to build echo context
func newAuthCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type errBinder struct{}

func (errBinder) Bind(i any, c echo.Context) error { return errors.New("bind") }

type errValidator struct{}

func (errValidator) Validate(i any) error { return errors.New("v") }

type okValidator struct{}

func (okValidator) Validate(i any) error { return nil }

// inlinePool runs submitted tasks synchronously so tests can observe them.
type inlinePool struct {
	mu        sync.Mutex
	submitted int
}

func (p *inlinePool) Submit(t worker.Task) {
	p.mu.Lock()
	p.submitted++
	p.mu.Unlock()
	t()
}

func (p *inlinePool) Stop() {}

var _ worker.Pool = (*inlinePool)(nil)

func restoreSeams() func() {
	return func() {
		authenticateUser = service.AuthenticateUser
		issueSession = service.IssueSession
		endSession = service.EndSession
		hashPassword = service.HashPassword
		createUser = store.CreateUser
		updateLastLogin = store.UpdateUserLastLogin
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	res := &http.Response{Header: rec.Header()}
	for _, c := range res.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestLoginHandler(t *testing.T) {
	defer restoreSeams()()

	// bind error
	e := echo.New()
	e.Binder = errBinder{}
	ctx, rec := newAuthCtx(e, "")
	h := LoginHandler(&database.FakeDB{}, &cache.FakeCache{}, &inlinePool{})
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// validate error
	e = echo.New()
	e.Validator = errValidator{}
	ctx, rec = newAuthCtx(e, "email=a@x.com&password=b")
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// invalid credentials
	e = echo.New()
	e.Validator = okValidator{}
	authenticateUser = func(context.Context, database.DB, string, string) (*model.User, error) {
		return nil, service.ErrInvalidCredentials
	}
	ctx, rec = newAuthCtx(e, "email=a@x.com&password=b")
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// deactivated account
	authenticateUser = func(context.Context, database.DB, string, string) (*model.User, error) {
		return nil, service.ErrAccountDisabled
	}
	ctx, rec = newAuthCtx(e, "email=a@x.com&password=b")
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusForbidden, rec.Code)

	// storage failure
	authenticateUser = func(context.Context, database.DB, string, string) (*model.User, error) {
		return nil, errors.New("down")
	}
	ctx, rec = newAuthCtx(e, "email=a@x.com&password=b")
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// session issue failure
	user := &model.User{ID: 7, Email: "a@x.com", Role: model.RoleUser, IsActive: true}
	authenticateUser = func(_ context.Context, _ database.DB, email, _ string) (*model.User, error) {
		require.Equal(t, "a@x.com", email)
		return user, nil
	}
	issueSession = func(context.Context, cache.Cache, *model.User, bool) (string, time.Time, error) {
		return "", time.Time{}, errors.New("no secret")
	}
	ctx, rec = newAuthCtx(e, "email=A@X.com&password=b")
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// success
	expiresAt := time.Now().Add(time.Hour)
	issueSession = func(_ context.Context, _ cache.Cache, u *model.User, remember bool) (string, time.Time, error) {
		require.Equal(t, 7, u.ID)
		require.False(t, remember)
		return "tok", expiresAt, nil
	}
	stamped := 0
	updateLastLogin = func(_ context.Context, _ database.DB, userID int) error {
		require.Equal(t, 7, userID)
		stamped++
		return nil
	}
	wp := &inlinePool{}
	h = LoginHandler(&database.FakeDB{}, &cache.FakeCache{}, wp)
	ctx, rec = newAuthCtx(e, "email=a@x.com&password=b")
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "tok")
	require.NotContains(t, rec.Body.String(), "password_hash")
	require.Equal(t, 1, stamped)
	require.Equal(t, 1, wp.submitted)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	require.Equal(t, "tok", cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.True(t, cookie.Expires.IsZero())

	// remember extends the cookie
	issueSession = func(_ context.Context, _ cache.Cache, _ *model.User, remember bool) (string, time.Time, error) {
		require.True(t, remember)
		return "tok2", expiresAt, nil
	}
	ctx, rec = newAuthCtx(e, "email=a@x.com&password=b&remember=true")
	require.NoError(t, h(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	cookie = sessionCookie(rec)
	require.NotNil(t, cookie)
	require.False(t, cookie.Expires.IsZero())
}
