package service

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// callers must not be able to tell which one happened.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account has been deactivated")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrWeakPassword       = errors.New("password must be at least 6 characters long")
	ErrInvalidSession     = errors.New("invalid or expired session")
)
