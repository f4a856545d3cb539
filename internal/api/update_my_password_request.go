package api

// swagger:model api.UpdateMyPasswordRequest
type UpdateMyPasswordRequest struct {
	CurrentPassword string `form:"current_password" validate:"required" example:"OldSecret123!"`
	NewPassword     string `form:"new_password" validate:"required" example:"NewSecret456!"`
	ConfirmPassword string `form:"confirm_password" validate:"required" example:"NewSecret456!"`
}
