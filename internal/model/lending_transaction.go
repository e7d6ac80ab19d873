package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LendingStatus represents the lifecycle state of a lending transaction.
type LendingStatus string

const (
	LendingStatusBorrowed LendingStatus = "borrowed"
	LendingStatusReturned LendingStatus = "returned"
	// LendingStatusOverdue is never written by the system; overdue is derived
	// at query time from due date and return date. The value stays in the
	// enum so externally written rows remain queryable.
	LendingStatusOverdue LendingStatus = "overdue"
)

// LendingTransaction is the append-mostly record of one borrow/return cycle.
// It is mutated exactly once, on return, and never deleted.
type LendingTransaction struct {
	ID         uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	BookID     uuid.UUID       `json:"book_id" gorm:"type:char(36);not null;index"`
	ReaderID   uuid.UUID       `json:"reader_id" gorm:"type:char(36);not null;index"`
	BorrowDate time.Time       `json:"borrow_date" gorm:"not null"`
	DueDate    time.Time       `json:"due_date" gorm:"not null;index"`
	ReturnDate *time.Time      `json:"return_date,omitempty"`
	Status     LendingStatus   `json:"status" gorm:"type:varchar(20);not null;default:'borrowed';index"`
	FineAmount decimal.Decimal `json:"fine_amount" gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Relations
	Book   Book   `json:"book,omitempty" gorm:"foreignKey:BookID"`
	Reader Reader `json:"reader,omitempty" gorm:"foreignKey:ReaderID"`
}

// BeforeCreate sets UUID before creating the record.
func (t *LendingTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// OverdueTransaction is a lending transaction annotated with how many days
// past due it is at query time.
type OverdueTransaction struct {
	LendingTransaction
	DaysOverdue int `json:"days_overdue"`
}
