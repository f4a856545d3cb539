package api

// swagger:model api.UpdateMeRequest
type UpdateMeRequest struct {
	FullName string `form:"full_name" validate:"required" example:"Alice Example"`
	Email    string `form:"email" validate:"required,email" example:"alice@example.com"`
	Phone    string `form:"phone" example:"123-456-7890"`
	Address  string `form:"address" example:"123 Main St"`
}
