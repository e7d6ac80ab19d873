package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit entity types.
const (
	EntityBook        = "Book"
	EntityReader      = "Reader"
	EntityTransaction = "LendingTransaction"
	EntityUser        = "User"
)

// AuditLog records who did what to which entity. Rows are append-only and
// never mutated or deleted by the system.
type AuditLog struct {
	ID          uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Action      string         `json:"action" gorm:"size:100;not null;index"`
	EntityType  string         `json:"entity_type,omitempty" gorm:"size:50"`
	EntityID    string         `json:"entity_id,omitempty" gorm:"size:36"`
	PerformedBy string         `json:"performed_by" gorm:"size:255;not null"` // free text, not a foreign key
	Timestamp   time.Time      `json:"timestamp" gorm:"not null;index"`
	Details     datatypes.JSON `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// BeforeCreate sets UUID and timestamp before creating the record.
func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	return nil
}
