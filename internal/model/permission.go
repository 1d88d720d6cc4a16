package model

import "time"

// Permission is a single grantable capability. SystemName (for example
// "users.view") is the globally unique key compared in policy checks.
type Permission struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	SystemName  string    `json:"system_name" gorm:"uniqueIndex;size:100;not null"`
	Description string    `json:"description" gorm:"size:255"`
	Category    string    `json:"category" gorm:"size:100"`
	Action      string    `json:"action" gorm:"size:50"`
	Resource    string    `json:"resource" gorm:"size:100"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
