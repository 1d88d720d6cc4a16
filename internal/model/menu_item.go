package model

import "time"

// MenuItem is a navigation entry. ParentID is a soft reference (0 means
// top-level); RequiredPermission is a permission system-name, empty for
// items visible to everyone once IsVisible is set.
type MenuItem struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	Name               string    `json:"name" gorm:"size:100;not null"`
	DisplayName        string    `json:"display_name" gorm:"size:100;not null"`
	URL                string    `json:"url" gorm:"size:255"`
	Icon               string    `json:"icon" gorm:"size:100"`
	ParentID           uint      `json:"parent_id" gorm:"default:0"`
	DisplayOrder       int       `json:"display_order" gorm:"default:0"`
	IsVisible          bool      `json:"is_visible" gorm:"default:true"`
	RequiredPermission string    `json:"required_permission" gorm:"size:100"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
