package dto

// UpdateUserActiveRequest toggles an account's active flag (admin only)
type UpdateUserActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// UpdateUserRoleRequest changes a user's role (admin only; roles are
// otherwise immutable)
type UpdateUserRoleRequest struct {
	RoleType string `json:"roleType" binding:"required,oneof=student teacher admin"`
}
