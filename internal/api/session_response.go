package api

import "time"

// swagger:model api.SessionResponse
type SessionResponse struct {
	Token     string       `json:"token" example:"eyJhbGciOi..."`
	ExpiresAt time.Time    `json:"expires_at" example:"2025-05-09T15:04:05Z"`
	User      UserResponse `json:"user"`
}
