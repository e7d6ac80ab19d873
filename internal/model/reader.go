package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reader represents a registered library patron.
type Reader struct {
	ID             uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name           string    `json:"name" gorm:"size:255;not null"`
	Email          string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Phone          string    `json:"phone,omitempty" gorm:"size:50"`
	Address        string    `json:"address,omitempty" gorm:"size:500"`
	RegisteredDate time.Time `json:"registered_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID and registration date before creating the record.
func (r *Reader) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.RegisteredDate.IsZero() {
		r.RegisteredDate = time.Now()
	}
	return nil
}
