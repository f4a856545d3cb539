package api

// swagger:model api.UserStatusResponse
type UserStatusResponse struct {
	ID       int  `json:"id" example:"1"`
	IsActive bool `json:"is_active" example:"false"`
}
