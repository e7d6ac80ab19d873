package service

import (
	"context"
	"encoding/json"
	"log"

	"gorm.io/datatypes"

	"bookclub/internal/model"
	"bookclub/internal/repository"
)

// Audit action tags.
const (
	ActionUserSignup           = "USER_SIGNUP"
	ActionUserLogin            = "USER_LOGIN"
	ActionUserLogout           = "USER_LOGOUT"
	ActionPasswordResetRequest = "PASSWORD_RESET_REQUEST"
	ActionPasswordResetSuccess = "PASSWORD_RESET_SUCCESS"
	ActionBookAdded            = "BOOK_ADDED"
	ActionBookUpdated          = "BOOK_UPDATED"
	ActionBookDeleted          = "BOOK_DELETED"
	ActionReaderAdded          = "READER_ADDED"
	ActionReaderUpdated        = "READER_UPDATED"
	ActionReaderDeleted        = "READER_DELETED"
	ActionBookLent             = "BOOK_LENT"
	ActionBookReturned         = "BOOK_RETURNED"
	ActionOverdueNoticesSent   = "OVERDUE_NOTIFICATIONS_SENT"
)

// UnknownPerformer is recorded when the acting librarian cannot be resolved.
const UnknownPerformer = "Unknown Librarian"

// AuditService records who did what to which entity and exposes the trail.
// Record is fire-and-forget: a failed audit write never fails the operation
// that triggered it.
type AuditService interface {
	Record(action, performedBy, entityType, entityID string, details map[string]interface{})
	PerformerName(ctx context.Context, userID uint) string
	List(ctx context.Context) ([]model.AuditLog, error)
	Close()
}

type auditService struct {
	repo    repository.AuditLogRepository
	users   repository.UserRepository
	entries chan model.AuditLog
}

// NewAuditService builds the audit service and starts its write worker.
func NewAuditService(repo repository.AuditLogRepository, users repository.UserRepository) AuditService {
	s := &auditService{
		repo:    repo,
		users:   users,
		entries: make(chan model.AuditLog, 100),
	}
	go s.worker(context.Background())
	return s
}

// Record queues one audit entry. If the buffer is full the entry is dropped
// with a console log rather than blocking the request path.
func (s *auditService) Record(action, performedBy, entityType, entityID string, details map[string]interface{}) {
	entry := model.AuditLog{
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		PerformedBy: performedBy,
	}
	if details != nil {
		payload, err := json.Marshal(details)
		if err != nil {
			log.Printf("audit: marshal details for %s: %v", action, err)
		} else {
			entry.Details = datatypes.JSON(payload)
		}
	}

	select {
	case s.entries <- entry:
	default:
		log.Printf("audit: buffer full, dropping entry %s by %s", action, performedBy)
	}
}

// PerformerName resolves a user ID to a display name for audit entries.
func (s *auditService) PerformerName(ctx context.Context, userID uint) string {
	if userID == 0 {
		return UnknownPerformer
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return UnknownPerformer
	}
	return user.Name
}

func (s *auditService) List(ctx context.Context) ([]model.AuditLog, error) {
	return s.repo.List(ctx)
}

// Close stops the worker after draining queued entries.
func (s *auditService) Close() {
	close(s.entries)
}

// worker persists queued entries off the request path.
func (s *auditService) worker(ctx context.Context) {
	for entry := range s.entries {
		if err := s.repo.Create(ctx, &entry); err != nil {
			log.Printf("audit: write entry %s: %v", entry.Action, err)
		}
	}
}
