// internal/service/reconcile.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dangerclosesec/tenantcore/internal/authz"
	"github.com/dangerclosesec/tenantcore/internal/model"
	"github.com/dangerclosesec/tenantcore/internal/repository"
)

// SyncReconciler replays the outbox of authorization-store writes that
// failed after their domain mutation committed. Each outbox row is an
// independently retryable unit; replay is idempotent because the
// underlying relation writes are.
type SyncReconciler struct {
	failures   repository.SyncFailureRepositoryIface
	authorizer authz.Authorizer
	interval   time.Duration
	batchSize  int
	dryRun     bool // If true, don't make changes, just log
	logger     *slog.Logger
	stopChan   chan struct{}
	stopped    chan struct{}
}

func NewSyncReconciler(
	failures repository.SyncFailureRepositoryIface,
	authorizer authz.Authorizer,
	interval time.Duration,
	logger *slog.Logger,
) *SyncReconciler {
	if interval == 0 {
		interval = 5 * time.Minute
	}

	return &SyncReconciler{
		failures:   failures,
		authorizer: authorizer,
		interval:   interval,
		batchSize:  100,
		logger:     logger,
		stopChan:   make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

// SetBatchSize sets the number of outbox rows fetched per pass.
func (s *SyncReconciler) SetBatchSize(size int) {
	if size > 0 {
		s.batchSize = size
	}
}

// SetDryRun sets whether to actually replay writes or just log what
// would be done.
func (s *SyncReconciler) SetDryRun(dryRun bool) {
	s.dryRun = dryRun
}

// Start begins periodic replay in the background.
func (s *SyncReconciler) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		defer close(s.stopped)

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				if _, err := s.ReplayOnce(ctx); err != nil {
					s.logger.Error("outbox replay failed", "error", err)
				}
				cancel()
			case <-s.stopChan:
				return
			}
		}
	}()
}

// Stop halts the background replay loop.
func (s *SyncReconciler) Stop() {
	close(s.stopChan)
	<-s.stopped
}

// ReplayOnce drains unresolved outbox rows until a fetch comes back
// short of a full batch. It returns the number of rows resolved.
func (s *SyncReconciler) ReplayOnce(ctx context.Context) (int, error) {
	resolved := 0

	for {
		batch, err := s.failures.FindUnresolved(ctx, s.batchSize)
		if err != nil {
			return resolved, fmt.Errorf("fetching unresolved sync failures: %w", err)
		}
		if len(batch) == 0 {
			return resolved, nil
		}

		s.logger.Info("replaying sync failures", "count", len(batch), "dry_run", s.dryRun)

		progressed := false
		for _, failure := range batch {
			if s.dryRun {
				s.logger.Info("would replay sync failure (dry run)",
					"failure_id", failure.ID.String(),
					"operation", failure.Operation,
					"entity", failure.EntityType+":"+failure.EntityID,
					"relation", failure.Relation,
					"subject", failure.SubjectType+":"+failure.SubjectID,
				)
				continue
			}

			if err := s.replay(ctx, failure); err != nil {
				s.logger.Error("failed to replay sync failure",
					"failure_id", failure.ID.String(),
					"operation", failure.Operation,
					"error", err,
				)
				if recErr := s.failures.RecordAttempt(ctx, failure.ID, err.Error()); recErr != nil {
					s.logger.Error("failed to record replay attempt",
						"failure_id", failure.ID.String(),
						"error", recErr,
					)
				}
				continue
			}

			if err := s.failures.MarkResolved(ctx, failure.ID); err != nil {
				s.logger.Error("failed to mark sync failure resolved",
					"failure_id", failure.ID.String(),
					"error", err,
				)
				continue
			}
			resolved++
			progressed = true
		}

		// Dry runs and fully-failing batches would refetch the same
		// rows forever.
		if s.dryRun || !progressed || len(batch) < s.batchSize {
			return resolved, nil
		}

		select {
		case <-ctx.Done():
			return resolved, ctx.Err()
		default:
		}
	}
}

// replay issues the authorization-store write an outbox row describes.
func (s *SyncReconciler) replay(ctx context.Context, failure *model.AuthzSyncFailure) error {
	subject := model.Subject{Type: failure.SubjectType, ID: failure.SubjectID}
	entity := model.Entity{Type: failure.EntityType, ID: failure.EntityID}

	switch failure.Operation {
	case model.SyncAssignRole:
		return s.authorizer.AssignRole(ctx, subject, failure.Relation, entity, failure.GrantedBy, nil)
	case model.SyncRevokeRole:
		return s.authorizer.RevokeRole(ctx, subject, failure.Relation, entity)
	case model.SyncAddRelation:
		return s.authorizer.AddRelation(ctx, subject, failure.Relation, entity)
	case model.SyncRemoveRelation:
		return s.authorizer.RemoveRelation(ctx, subject, failure.Relation, entity)
	default:
		return fmt.Errorf("unknown sync operation %q", failure.Operation)
	}
}
