package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "bookclub/internal/errors"
	"bookclub/internal/mail"
	"bookclub/internal/model"
)

func newNotificationFixture(now time.Time) (*notificationService, *MockLendingRepository, *MockMailer) {
	transactions := new(MockLendingRepository)
	mailer := new(MockMailer)
	svc := NewNotificationService(transactions, mailer, newQuietAudit()).(*notificationService)
	svc.now = func() time.Time { return now }
	return svc, transactions, mailer
}

func overdueTx(reader model.Reader, title, author string, due time.Time) model.LendingTransaction {
	return model.LendingTransaction{
		ID:       uuid.New(),
		BookID:   uuid.New(),
		ReaderID: reader.ID,
		DueDate:  due,
		Status:   model.LendingStatusBorrowed,
		Book:     model.Book{Title: title, Author: author},
		Reader:   reader,
	}
}

func TestSendOverdueNotices(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	amara := model.Reader{ID: uuid.New(), Name: "Amara", Email: "amara@example.com"}
	nuwan := model.Reader{ID: uuid.New(), Name: "Nuwan", Email: "nuwan@example.com"}

	t.Run("mailer not configured", func(t *testing.T) {
		svc, transactions, mailer := newNotificationFixture(now)
		mailer.On("Configured").Return(false)

		_, err := svc.SendOverdueNotices(context.Background(), []uuid.UUID{amara.ID}, 1)
		assert.ErrorIs(t, err, apperrors.ErrMailNotConfigured)
		transactions.AssertNotCalled(t, "ListOverdueForReaders", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no readers given", func(t *testing.T) {
		svc, _, mailer := newNotificationFixture(now)
		mailer.On("Configured").Return(true)

		_, err := svc.SendOverdueNotices(context.Background(), nil, 1)
		assert.ErrorIs(t, err, apperrors.ErrNoReaders)
	})

	t.Run("nothing overdue", func(t *testing.T) {
		svc, transactions, mailer := newNotificationFixture(now)
		mailer.On("Configured").Return(true)
		transactions.On("ListOverdueForReaders", mock.Anything, now, []uuid.UUID{amara.ID}).
			Return([]model.LendingTransaction{}, nil)

		report, err := svc.SendOverdueNotices(context.Background(), []uuid.UUID{amara.ID}, 1)
		assert.NoError(t, err)
		assert.Equal(t, 0, report.SentCount)
		assert.Empty(t, report.Failures)
		mailer.AssertNotCalled(t, "Send", mock.Anything)
	})

	t.Run("one digest per reader", func(t *testing.T) {
		svc, transactions, mailer := newNotificationFixture(now)
		mailer.On("Configured").Return(true)
		// Two overdue books for the same reader collapse into one email.
		transactions.On("ListOverdueForReaders", mock.Anything, now, []uuid.UUID{amara.ID}).
			Return([]model.LendingTransaction{
				overdueTx(amara, "Pride and Prejudice", "Jane Austen", now.Add(-72*time.Hour)),
				overdueTx(amara, "The Name of the Wind", "Patrick Rothfuss", now.Add(-24*time.Hour)),
			}, nil)
		mailer.On("Send", mock.MatchedBy(func(msg mail.Message) bool {
			return msg.To == "amara@example.com" &&
				strings.Contains(msg.HTML, "Dear Amara") &&
				strings.Contains(msg.HTML, "Pride and Prejudice") &&
				strings.Contains(msg.HTML, "The Name of the Wind")
		})).Return(nil).Once()

		report, err := svc.SendOverdueNotices(context.Background(), []uuid.UUID{amara.ID}, 1)
		assert.NoError(t, err)
		assert.Equal(t, 1, report.SentCount)
		assert.Empty(t, report.Failures)
		mailer.AssertExpectations(t)
	})

	t.Run("partial failure keeps successful sends", func(t *testing.T) {
		svc, transactions, mailer := newNotificationFixture(now)
		readerIDs := []uuid.UUID{amara.ID, nuwan.ID}
		mailer.On("Configured").Return(true)
		transactions.On("ListOverdueForReaders", mock.Anything, now, readerIDs).
			Return([]model.LendingTransaction{
				overdueTx(amara, "Pride and Prejudice", "Jane Austen", now.Add(-72*time.Hour)),
				overdueTx(nuwan, "The Name of the Wind", "Patrick Rothfuss", now.Add(-24*time.Hour)),
			}, nil)
		mailer.On("Send", mock.MatchedBy(func(msg mail.Message) bool {
			return msg.To == "amara@example.com"
		})).Return(nil)
		mailer.On("Send", mock.MatchedBy(func(msg mail.Message) bool {
			return msg.To == "nuwan@example.com"
		})).Return(assert.AnError)

		report, err := svc.SendOverdueNotices(context.Background(), readerIDs, 1)
		assert.ErrorIs(t, err, apperrors.ErrNotificationSendFailed)
		assert.Equal(t, 1, report.SentCount)
		assert.Len(t, report.Failures, 1)
		assert.Equal(t, nuwan.ID, report.Failures[0].ReaderID)
	})
}

func TestCalendarDaysOverdue(t *testing.T) {
	now := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{name: "due late yesterday", due: time.Date(2024, 3, 19, 23, 30, 0, 0, time.UTC), want: 1},
		{name: "due three days ago", due: time.Date(2024, 3, 17, 12, 0, 0, 0, time.UTC), want: 3},
		{name: "due later today", due: time.Date(2024, 3, 20, 18, 0, 0, 0, time.UTC), want: 0},
		{name: "due tomorrow", due: time.Date(2024, 3, 21, 9, 0, 0, 0, time.UTC), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calendarDaysOverdue(tt.due, now))
		})
	}
}
