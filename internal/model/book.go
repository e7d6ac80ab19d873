package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book represents a catalog entry with copy bookkeeping.
// AvailableCopies starts equal to TotalCopies and is moved by the lending
// workflow only; catalog updates leave it untouched.
type Book struct {
	ID              uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title           string    `json:"title" gorm:"size:255;not null;index"`
	Author          string    `json:"author" gorm:"size:255;not null"`
	ISBN            string    `json:"isbn" gorm:"uniqueIndex;size:20;not null"`
	Genre           string    `json:"genre,omitempty" gorm:"size:100"`
	PublicationYear int       `json:"publication_year,omitempty"`
	Publisher       string    `json:"publisher,omitempty" gorm:"size:255"`
	TotalCopies     int       `json:"total_copies" gorm:"not null"`
	AvailableCopies int       `json:"available_copies" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
