// internal/repository/sync_failure.go
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dangerclosesec/tenantcore/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SyncFailureRepositoryIface interface {
	Create(ctx context.Context, failure *model.AuthzSyncFailure) error
	FindUnresolved(ctx context.Context, limit int) ([]*model.AuthzSyncFailure, error)
	MarkResolved(ctx context.Context, id uuid.UUID) error
	RecordAttempt(ctx context.Context, id uuid.UUID, attemptErr string) error
}

// SyncFailureRepository persists the outbox of authorization-store
// writes that failed after their domain mutation committed.
type SyncFailureRepository struct {
	db *gorm.DB
}

func NewSyncFailureRepository(db *gorm.DB) *SyncFailureRepository {
	return &SyncFailureRepository{db: db}
}

func (r *SyncFailureRepository) Create(ctx context.Context, failure *model.AuthzSyncFailure) error {
	if err := r.db.WithContext(ctx).Create(failure).Error; err != nil {
		return fmt.Errorf("creating sync failure: %w", err)
	}
	return nil
}

// FindUnresolved returns the oldest unresolved failures, bounded by
// limit.
func (r *SyncFailureRepository) FindUnresolved(ctx context.Context, limit int) ([]*model.AuthzSyncFailure, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	var failures []*model.AuthzSyncFailure
	if err := r.db.WithContext(ctx).
		Where("resolved_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&failures).Error; err != nil {
		return nil, fmt.Errorf("finding unresolved sync failures: %w", err)
	}
	return failures, nil
}

func (r *SyncFailureRepository) MarkResolved(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	if err := r.db.WithContext(ctx).
		Model(&model.AuthzSyncFailure{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"resolved_at": now,
			"attempts":    gorm.Expr("attempts + 1"),
		}).Error; err != nil {
		return fmt.Errorf("resolving sync failure: %w", err)
	}
	return nil
}

func (r *SyncFailureRepository) RecordAttempt(ctx context.Context, id uuid.UUID, attemptErr string) error {
	if err := r.db.WithContext(ctx).
		Model(&model.AuthzSyncFailure{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": attemptErr,
		}).Error; err != nil {
		return fmt.Errorf("recording sync attempt: %w", err)
	}
	return nil
}
