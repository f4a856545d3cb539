package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	FullName        string `form:"full_name" validate:"required" example:"Alice Example"`
	Email           string `form:"email" validate:"required,email" example:"alice@example.com"`
	Password        string `form:"password" validate:"required" example:"Secret123!"`
	ConfirmPassword string `form:"confirm_password" validate:"required" example:"Secret123!"`
	Phone           string `form:"phone" example:"123-456-7890"`
	Address         string `form:"address" example:"123 Main St"`
}
