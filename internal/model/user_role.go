package model

// UserRole links a user to a role. The (user_id, role_id) pair is
// unique; inserts are checked for existence first so linking stays
// idempotent.
type UserRole struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"uniqueIndex:idx_user_role;not null"`
	RoleID uint `json:"role_id" gorm:"uniqueIndex:idx_user_role;not null"`
}
