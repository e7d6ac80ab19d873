package repository

import (
	"context"

	"gorm.io/gorm"

	"bookclub/internal/model"
)

// AuditLogRepository defines persistence operations for the audit trail.
// The log is append-only: no update or delete exists.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context) ([]model.AuditLog, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository builds a GORM-backed repository.
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepository) List(ctx context.Context) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	if err := r.db.WithContext(ctx).Order("timestamp DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
