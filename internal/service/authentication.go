package service

import (
	"context"
	"errors"

	"user-management/internal/database"
	"user-management/internal/model"
	"user-management/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the email is unknown, so that lookup
// misses cost the same as password mismatches.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("user-management.dummy"), bcrypt.DefaultCost)

// AuthenticateUser verifies email+password against the store. Unknown email
// and wrong password both return ErrInvalidCredentials. ErrAccountDisabled is
// only returned after the password verified, so a disabled account's password
// correctness is never revealed up front.
func AuthenticateUser(ctx context.Context, db database.DB, email, password string) (*model.User, error) {
	user, err := store.GetUserByEmail(ctx, db, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}
