package api

// swagger:model api.ChangeRoleRequest
type ChangeRoleRequest struct {
	Role string `form:"role" validate:"required,oneof=user admin" example:"admin"`
}
