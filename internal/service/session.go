package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"user-management/internal/cache"
	"user-management/internal/database"
	"user-management/internal/model"
	"user-management/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// Session lifetimes, overridable at startup via SESSION_TTL and
// SESSION_REMEMBER_TTL.
var (
	DefaultSessionTTL  = 24 * time.Hour
	RememberSessionTTL = 30 * 24 * time.Hour
)

// SessionClaims is the signed payload handed to the client. The session
// itself is the server-side record; the token only names it.
type SessionClaims struct {
	UserID    int    `json:"uid"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func sessionSecret() (string, error) {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return "", fmt.Errorf("SESSION_SECRET not set")
	}
	return secret, nil
}

func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// IssueSession creates a server-side session record for user and returns the
// signed token the client will present on subsequent requests. remember
// selects the long-lived TTL.
func IssueSession(ctx context.Context, rdb cache.Cache, user *model.User, remember bool) (string, time.Time, error) {
	secret, err := sessionSecret()
	if err != nil {
		return "", time.Time{}, err
	}

	sid, err := newSessionID()
	if err != nil {
		return "", time.Time{}, err
	}

	ttl := DefaultSessionTTL
	if remember {
		ttl = RememberSessionTTL
	}
	now := time.Now()
	expiresAt := now.Add(ttl)

	if err := rdb.Set(ctx, sessionKeyPrefix+sid, user.ID, ttl).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("IssueSession: %w", err)
	}

	claims := SessionClaims{
		UserID:    user.ID,
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func parseSessionToken(tokenString string) (*SessionClaims, error) {
	secret, err := sessionSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// ResolveSession maps a presented token back to its user. The user row is
// re-read from the store on every call, never served from the session, so
// role and active-state changes surface on the very next request.
func ResolveSession(ctx context.Context, rdb cache.Cache, db database.DB, tokenString string) (*model.User, error) {
	claims, err := parseSessionToken(tokenString)
	if err != nil {
		return nil, err
	}

	if err := rdb.Get(ctx, sessionKeyPrefix+claims.SessionID).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("ResolveSession: %w", err)
	}

	user, err := store.GetUserByID(ctx, db, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	return user, nil
}

// EndSession deletes the session record named by the token. Ending a token
// whose record is already gone is not an error.
func EndSession(ctx context.Context, rdb cache.Cache, tokenString string) error {
	claims, err := parseSessionToken(tokenString)
	if err != nil {
		return err
	}
	if err := rdb.Del(ctx, sessionKeyPrefix+claims.SessionID).Err(); err != nil {
		return fmt.Errorf("EndSession: %w", err)
	}
	return nil
}
