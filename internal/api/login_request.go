package api

// swagger:model api.LoginRequest
type LoginRequest struct {
	Email    string `form:"email" validate:"required,email" example:"alice@example.com"`
	Password string `form:"password" validate:"required" example:"Secret123!"`
	Remember bool   `form:"remember" example:"false"`
}
