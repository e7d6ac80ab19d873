package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "bookclub/internal/errors"
	"bookclub/internal/mail"
	"bookclub/internal/model"
	"bookclub/internal/repository"
)

// SendFailure records one reader whose overdue notice could not be sent.
type SendFailure struct {
	ReaderID uuid.UUID `json:"reader_id"`
	Error    string    `json:"error"`
}

// OverdueNoticeReport summarizes a notification batch. Successful sends are
// preserved even when the batch as a whole is reported as failed.
type OverdueNoticeReport struct {
	SentCount int           `json:"sent_count"`
	Failures  []SendFailure `json:"failures,omitempty"`
}

// NotificationService emails overdue digests to readers.
type NotificationService interface {
	SendOverdueNotices(ctx context.Context, readerIDs []uuid.UUID, actorID uint) (*OverdueNoticeReport, error)
}

type notificationService struct {
	transactions repository.LendingRepository
	mailer       mail.Mailer
	audit        AuditService
	now          func() time.Time
}

// NewNotificationService builds a NotificationService.
func NewNotificationService(transactions repository.LendingRepository, mailer mail.Mailer, audit AuditService) NotificationService {
	return &notificationService{
		transactions: transactions,
		mailer:       mailer,
		audit:        audit,
		now:          time.Now,
	}
}

// SendOverdueNotices sends one digest email per reader listing every overdue
// title. Sends run sequentially; per-reader failures are collected without
// aborting the batch, and any failure marks the whole batch failed while
// keeping the sends that already went out.
func (s *notificationService) SendOverdueNotices(ctx context.Context, readerIDs []uuid.UUID, actorID uint) (*OverdueNoticeReport, error) {
	if !s.mailer.Configured() {
		return nil, apperrors.ErrMailNotConfigured
	}
	if len(readerIDs) == 0 {
		return nil, apperrors.ErrNoReaders
	}

	now := s.now()
	overdue, err := s.transactions.ListOverdueForReaders(ctx, now, readerIDs)
	if err != nil {
		return nil, fmt.Errorf("list overdue transactions: %w", err)
	}
	if len(overdue) == 0 {
		return &OverdueNoticeReport{}, nil
	}

	// Group transactions per reader so each gets a single digest.
	byReader := make(map[uuid.UUID][]model.LendingTransaction)
	order := make([]uuid.UUID, 0)
	for _, tx := range overdue {
		if _, seen := byReader[tx.ReaderID]; !seen {
			order = append(order, tx.ReaderID)
		}
		byReader[tx.ReaderID] = append(byReader[tx.ReaderID], tx)
	}

	report := &OverdueNoticeReport{}
	for _, readerID := range order {
		txs := byReader[readerID]
		reader := txs[0].Reader

		if err := s.mailer.Send(mail.Message{
			To:      reader.Email,
			Subject: "Overdue Book Reminder from Book Club Library",
			HTML:    renderOverdueDigest(reader.Name, txs, now),
		}); err != nil {
			log.Printf("notification: send to %s: %v", reader.Email, err)
			report.Failures = append(report.Failures, SendFailure{ReaderID: readerID, Error: err.Error()})
			continue
		}
		report.SentCount++
	}

	s.audit.Record(ActionOverdueNoticesSent, s.audit.PerformerName(ctx, actorID), model.EntityTransaction, "",
		map[string]interface{}{
			"notifiedReaderIds": readerIDs,
			"sentCount":         report.SentCount,
			"failedCount":       len(report.Failures),
		})

	if len(report.Failures) > 0 {
		return report, apperrors.ErrNotificationSendFailed
	}
	return report, nil
}

// renderOverdueDigest builds the HTML body for one reader's reminder.
func renderOverdueDigest(readerName string, txs []model.LendingTransaction, now time.Time) string {
	var lines []string
	for _, tx := range txs {
		lines = append(lines, fmt.Sprintf("- %q by %s (Due: %s, Overdue by %d days)",
			tx.Book.Title, tx.Book.Author, tx.DueDate.Format("2006-01-02"), calendarDaysOverdue(tx.DueDate, now)))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<p>Dear %s,</p>", readerName))
	b.WriteString("<p>This is a friendly reminder that you have one or more books overdue at the Book Club Library.</p>")
	b.WriteString("<p>Please return the following book(s) as soon as possible:</p>")
	b.WriteString(fmt.Sprintf("<pre>%s</pre>", strings.Join(lines, "\n")))
	b.WriteString("<p>Please return these items to the library at your earliest convenience to avoid further fines.</p>")
	b.WriteString("<p>Thank you for your cooperation.</p>")
	b.WriteString("<p>Sincerely,</p><p>The Book Club Library Team</p>")
	return b.String()
}

// calendarDaysOverdue counts whole calendar days between due date and now,
// floored at zero. Both ends are normalized to midnight so an item due late
// yesterday still reads as one day overdue.
func calendarDaysOverdue(due, now time.Time) int {
	midnight := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	days := int(math.Ceil(midnight(now).Sub(midnight(due)).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}
