package model

import "time"

// RoleLibrarian is the only role the system issues today.
const RoleLibrarian = "librarian"

// User represents a librarian account.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"size:255;not null;index"`
	Email        string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string `json:"role" gorm:"size:50;default:'librarian'"`

	// Password reset state. Only the SHA-256 digest of the token is stored;
	// the raw token travels by email and is never persisted.
	ResetPasswordToken   string     `json:"-" gorm:"size:64"`
	ResetPasswordExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
