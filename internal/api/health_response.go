package api

import "time"

// swagger:model api.HealthResponse
type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`
	Database  string    `json:"database" example:"connected (12 users)"`
	Users     int       `json:"users" example:"12"`
	Timestamp time.Time `json:"timestamp" example:"2025-05-09T15:04:05Z"`
}
