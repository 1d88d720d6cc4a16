package model

// RolePermission links a role to a permission. The (role_id,
// permission_id) pair is unique and inserted idempotently.
type RolePermission struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	RoleID       uint `json:"role_id" gorm:"uniqueIndex:idx_role_permission;not null"`
	PermissionID uint `json:"permission_id" gorm:"uniqueIndex:idx_role_permission;not null"`
}
