package api

import (
	"time"

	"user-management/internal/model"
)

// swagger:model api.UserResponse
type UserResponse struct {
	ID        int        `json:"id" example:"1"`
	FullName  string     `json:"full_name" example:"Alice Example"`
	Email     string     `json:"email" example:"alice@example.com"`
	Role      string     `json:"role" example:"user"`
	Phone     string     `json:"phone" example:"123-456-7890"`
	Address   string     `json:"address" example:"123 Main St"`
	IsActive  bool       `json:"is_active" example:"true"`
	CreatedAt time.Time  `json:"created_at" example:"2025-05-01T15:04:05Z"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// NewUserResponse maps a user record to its API shape. The password hash
// never leaves this boundary.
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      string(u.Role),
		Phone:     u.Phone,
		Address:   u.Address,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		LastLogin: u.LastLogin,
	}
}
