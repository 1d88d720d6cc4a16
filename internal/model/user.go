package model

import "time"

// User represents an account that can authenticate and hold roles.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"uniqueIndex;size:100;not null"`
	Email        string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	// Email verification state. The token is cleared once the address
	// is confirmed.
	EmailConfirmed               bool       `json:"email_confirmed" gorm:"default:false"`
	EmailVerificationToken       string     `json:"-" gorm:"size:255"`
	EmailVerificationTokenExpiry *time.Time `json:"-"`

	// Password reset state.
	PasswordResetToken       string     `json:"-" gorm:"size:255"`
	PasswordResetTokenExpiry *time.Time `json:"-"`

	// Opaque refresh token, compared by exact equality on refresh.
	RefreshToken       string     `json:"-" gorm:"size:255"`
	RefreshTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
