package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookclub/internal/model"
)

// LendingRepository defines persistence operations for the lending ledger.
// Transactions are created on lend and updated exactly once on return;
// there is no delete.
type LendingRepository interface {
	Create(ctx context.Context, tx *model.LendingTransaction) error
	Update(ctx context.Context, tx *model.LendingTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LendingTransaction, error)
	List(ctx context.Context) ([]model.LendingTransaction, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.LendingTransaction, error)
	ListByReader(ctx context.Context, readerID uuid.UUID) ([]model.LendingTransaction, error)
	ListOverdue(ctx context.Context, now time.Time) ([]model.LendingTransaction, error)
	ListOverdueForReaders(ctx context.Context, now time.Time, readerIDs []uuid.UUID) ([]model.LendingTransaction, error)
}

type lendingRepository struct {
	db *gorm.DB
}

// NewLendingRepository builds a GORM-backed repository.
func NewLendingRepository(db *gorm.DB) LendingRepository {
	return &lendingRepository{db: db}
}

func (r *lendingRepository) withJoins(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Book").Preload("Reader")
}

func (r *lendingRepository) Create(ctx context.Context, tx *model.LendingTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *lendingRepository) Update(ctx context.Context, tx *model.LendingTransaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

func (r *lendingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LendingTransaction, error) {
	var tx model.LendingTransaction
	if err := r.withJoins(ctx).First(&tx, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *lendingRepository) List(ctx context.Context) ([]model.LendingTransaction, error) {
	var txs []model.LendingTransaction
	if err := r.withJoins(ctx).Order("borrow_date DESC").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *lendingRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.LendingTransaction, error) {
	var txs []model.LendingTransaction
	err := r.withJoins(ctx).
		Where("book_id = ?", bookID).
		Order("borrow_date DESC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *lendingRepository) ListByReader(ctx context.Context, readerID uuid.UUID) ([]model.LendingTransaction, error) {
	var txs []model.LendingTransaction
	err := r.withJoins(ctx).
		Where("reader_id = ?", readerID).
		Order("borrow_date DESC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// ListOverdue selects transactions still out past their due date, oldest due
// date first. Rows with the legacy "overdue" status are included alongside
// "borrowed" ones.
func (r *lendingRepository) ListOverdue(ctx context.Context, now time.Time) ([]model.LendingTransaction, error) {
	var txs []model.LendingTransaction
	err := r.withJoins(ctx).
		Where("status IN ?", []model.LendingStatus{model.LendingStatusBorrowed, model.LendingStatusOverdue}).
		Where("due_date < ?", now).
		Where("return_date IS NULL").
		Order("due_date ASC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *lendingRepository) ListOverdueForReaders(ctx context.Context, now time.Time, readerIDs []uuid.UUID) ([]model.LendingTransaction, error) {
	var txs []model.LendingTransaction
	err := r.withJoins(ctx).
		Where("reader_id IN ?", readerIDs).
		Where("status IN ?", []model.LendingStatus{model.LendingStatusBorrowed, model.LendingStatusOverdue}).
		Where("due_date < ?", now).
		Where("return_date IS NULL").
		Order("due_date ASC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}
