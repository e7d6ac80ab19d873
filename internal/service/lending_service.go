package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "bookclub/internal/errors"
	"bookclub/internal/model"
	"bookclub/internal/repository"
)

// LendingService drives the borrow/return workflow and overdue queries.
type LendingService interface {
	Lend(ctx context.Context, bookID, readerID uuid.UUID, actorID uint) (*model.LendingTransaction, error)
	Return(ctx context.Context, id uuid.UUID, returnDate *time.Time, fineAmount *decimal.Decimal, actorID uint) (*model.LendingTransaction, error)
	List(ctx context.Context) ([]model.LendingTransaction, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.LendingTransaction, error)
	ListByReader(ctx context.Context, readerID uuid.UUID) ([]model.LendingTransaction, error)
	Overdue(ctx context.Context) ([]model.OverdueTransaction, error)
}

type lendingService struct {
	transactions repository.LendingRepository
	books        repository.BookRepository
	readers      repository.ReaderRepository
	audit        AuditService
	period       time.Duration
	now          func() time.Time
}

// NewLendingService builds a LendingService. period is the fixed offset from
// borrow date to due date.
func NewLendingService(
	transactions repository.LendingRepository,
	books repository.BookRepository,
	readers repository.ReaderRepository,
	audit AuditService,
	period time.Duration,
) LendingService {
	return &lendingService{
		transactions: transactions,
		books:        books,
		readers:      readers,
		audit:        audit,
		period:       period,
		now:          time.Now,
	}
}

// Lend creates a borrowed transaction and decrements the book's available
// copies. The two writes are sequential with no compensating rollback; the
// inconsistency window is accepted (see DESIGN.md).
func (s *lendingService) Lend(ctx context.Context, bookID, readerID uuid.UUID, actorID uint) (*model.LendingTransaction, error) {
	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookNotFound
		}
		return nil, err
	}
	reader, err := s.readers.FindByID(ctx, readerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReaderNotFound
		}
		return nil, err
	}

	if book.AvailableCopies <= 0 {
		return nil, apperrors.ErrBookUnavailable
	}

	borrowDate := s.now()
	tx := &model.LendingTransaction{
		BookID:     book.ID,
		ReaderID:   reader.ID,
		BorrowDate: borrowDate,
		DueDate:    borrowDate.Add(s.period),
		Status:     model.LendingStatusBorrowed,
		FineAmount: decimal.Zero,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create lending transaction: %w", err)
	}

	book.AvailableCopies--
	if err := s.books.Update(ctx, book); err != nil {
		return nil, fmt.Errorf("decrement available copies: %w", err)
	}

	tx.Book = *book
	tx.Reader = *reader

	s.audit.Record(ActionBookLent, s.audit.PerformerName(ctx, actorID), model.EntityTransaction, tx.ID.String(),
		map[string]interface{}{
			"bookTitle":  book.Title,
			"readerName": reader.Name,
			"borrowDate": tx.BorrowDate,
			"dueDate":    tx.DueDate,
		})

	return tx, nil
}

// Return closes a transaction exactly once and increments the book's
// available copies.
func (s *lendingService) Return(ctx context.Context, id uuid.UUID, returnDate *time.Time, fineAmount *decimal.Decimal, actorID uint) (*model.LendingTransaction, error) {
	tx, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, err
	}

	if tx.Status == model.LendingStatusReturned {
		return nil, apperrors.ErrAlreadyReturned
	}
	oldStatus := tx.Status

	when := s.now()
	if returnDate != nil {
		when = *returnDate
	}
	tx.ReturnDate = &when
	tx.Status = model.LendingStatusReturned
	if fineAmount != nil {
		tx.FineAmount = *fineAmount
	}
	if err := s.transactions.Update(ctx, tx); err != nil {
		return nil, fmt.Errorf("update lending transaction: %w", err)
	}

	book, err := s.books.FindByID(ctx, tx.BookID)
	switch {
	case err == nil:
		book.AvailableCopies++
		if err := s.books.Update(ctx, book); err != nil {
			return nil, fmt.Errorf("increment available copies: %w", err)
		}
		tx.Book = *book
	case errors.Is(err, gorm.ErrRecordNotFound):
		// The catalog entry was deleted while the book was out; the
		// transaction still closes and there is no copy count to restore.
	default:
		return nil, fmt.Errorf("find book for return: %w", err)
	}

	s.audit.Record(ActionBookReturned, s.audit.PerformerName(ctx, actorID), model.EntityTransaction, tx.ID.String(),
		map[string]interface{}{
			"bookTitle":  tx.Book.Title,
			"readerName": tx.Reader.Name,
			"oldStatus":  oldStatus,
			"newStatus":  tx.Status,
			"fineAmount": tx.FineAmount,
			"returnDate": tx.ReturnDate,
		})

	return tx, nil
}

func (s *lendingService) List(ctx context.Context) ([]model.LendingTransaction, error) {
	return s.transactions.List(ctx)
}

func (s *lendingService) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.LendingTransaction, error) {
	return s.transactions.ListByBook(ctx, bookID)
}

func (s *lendingService) ListByReader(ctx context.Context, readerID uuid.UUID) ([]model.LendingTransaction, error) {
	return s.transactions.ListByReader(ctx, readerID)
}

// Overdue returns open transactions past their due date, oldest first, each
// annotated with whole days overdue (partial days round up).
func (s *lendingService) Overdue(ctx context.Context) ([]model.OverdueTransaction, error) {
	now := s.now()
	txs, err := s.transactions.ListOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	overdue := make([]model.OverdueTransaction, 0, len(txs))
	for _, tx := range txs {
		overdue = append(overdue, model.OverdueTransaction{
			LendingTransaction: tx,
			DaysOverdue:        daysOverdue(tx.DueDate, now),
		})
	}
	return overdue, nil
}

// daysOverdue is ceil((now - due) / 1 day).
func daysOverdue(due, now time.Time) int {
	return int(math.Ceil(now.Sub(due).Hours() / 24))
}
