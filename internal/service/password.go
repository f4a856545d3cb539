package service

import (
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the only password policy in force.
const MinPasswordLength = 6

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// ComparePassword returns nil when password matches the bcrypt hash.
func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// CheckNewPassword validates a password change request: the new password and
// its confirmation must agree and meet the minimum length.
func CheckNewPassword(newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
