package model

import "time"

// Role groups permissions. SystemName is the stable identifier used in
// authorization checks; system roles are built-in and cannot be deleted
// or renamed.
type Role struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	SystemName   string    `json:"system_name" gorm:"uniqueIndex;size:100;not null"`
	Description  string    `json:"description" gorm:"size:255"`
	IsSystemRole bool      `json:"is_system_role" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
