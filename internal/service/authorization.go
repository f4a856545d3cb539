package service

import "user-management/internal/model"

// Capability names a permission level checked before an operation runs.
type Capability string

const (
	// CapabilitySelf covers an authenticated, active identity acting on its
	// own resources.
	CapabilitySelf Capability = "self"
	// CapabilityAdmin covers the administrator surface.
	CapabilityAdmin Capability = "admin"
)

// Authorize reports whether user may exercise cap. It denies rather than
// errors; callers map a denial to 401/403.
func Authorize(user *model.User, cap Capability) bool {
	if user == nil || !user.IsActive {
		return false
	}
	switch cap {
	case CapabilitySelf:
		return true
	case CapabilityAdmin:
		return user.Role == model.RoleAdmin
	default:
		return false
	}
}

// CanManageUser guards the mutating admin operations. Admins cannot target
// their own account, regardless of role.
func CanManageUser(actor *model.User, targetID int) bool {
	return Authorize(actor, CapabilityAdmin) && actor.ID != targetID
}
