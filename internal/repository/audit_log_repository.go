// internal/repository/audit_log_repository.go
package repository

import (
	"context"

	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/store"
)

type AuditLogRepository struct {
	coll collection[models.AuditLog]
}

func NewAuditLogRepository(s store.Store) *AuditLogRepository {
	return &AuditLogRepository{coll: collection[models.AuditLog]{store: s, name: CollectionAuditLogs}}
}

func (r *AuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	entry.ID = ""
	_, err := r.coll.insert(ctx, entry)
	return err
}

// List returns matching entries, newest first.
func (r *AuditLogRepository) List(ctx context.Context, filter store.Filter) ([]models.AuditLog, error) {
	return r.coll.findSorted(ctx, filter, store.FieldCreatedAt, true)
}
