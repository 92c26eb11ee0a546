// internal/service/sync.go
package service

import (
	"context"
	"log/slog"

	"github.com/dangerclosesec/tenantcore/internal/authz"
	"github.com/dangerclosesec/tenantcore/internal/model"
	"github.com/dangerclosesec/tenantcore/internal/repository"
)

// AuthzSyncer applies authorization-store writes that follow a
// committed domain mutation. A failed write is logged and parked in
// the outbox as its own retryable unit; it never fails the operation
// of record, because the domain fact it mirrors has already happened.
type AuthzSyncer struct {
	authorizer authz.Authorizer
	failures   repository.SyncFailureRepositoryIface
	logger     *slog.Logger
}

func NewAuthzSyncer(authorizer authz.Authorizer, failures repository.SyncFailureRepositoryIface, logger *slog.Logger) *AuthzSyncer {
	return &AuthzSyncer{
		authorizer: authorizer,
		failures:   failures,
		logger:     logger,
	}
}

// AssignRole grants role to subject in scope, best-effort.
func (s *AuthzSyncer) AssignRole(ctx context.Context, subject model.Subject, role string, scope model.Entity, grantedBy string) {
	err := s.authorizer.AssignRole(ctx, subject, role, scope, grantedBy, nil)
	if err != nil {
		s.park(ctx, model.SyncAssignRole, scope, role, subject, grantedBy, err)
	}
}

// RevokeRole removes role from subject in scope, best-effort.
func (s *AuthzSyncer) RevokeRole(ctx context.Context, subject model.Subject, role string, scope model.Entity) {
	err := s.authorizer.RevokeRole(ctx, subject, role, scope)
	if err != nil {
		s.park(ctx, model.SyncRevokeRole, scope, role, subject, "", err)
	}
}

// AddRelation writes the relation edge, best-effort.
func (s *AuthzSyncer) AddRelation(ctx context.Context, subject model.Subject, relation string, object model.Entity) {
	err := s.authorizer.AddRelation(ctx, subject, relation, object)
	if err != nil {
		s.park(ctx, model.SyncAddRelation, object, relation, subject, "", err)
	}
}

// RemoveRelation deletes the relation edge, best-effort.
func (s *AuthzSyncer) RemoveRelation(ctx context.Context, subject model.Subject, relation string, object model.Entity) {
	err := s.authorizer.RemoveRelation(ctx, subject, relation, object)
	if err != nil {
		s.park(ctx, model.SyncRemoveRelation, object, relation, subject, "", err)
	}
}

func (s *AuthzSyncer) park(ctx context.Context, operation string, object model.Entity, relation string, subject model.Subject, grantedBy string, syncErr error) {
	s.logger.Error("authorization sync failed, parking for reconciliation",
		"operation", operation,
		"entity_type", object.Type,
		"entity_id", object.ID,
		"relation", relation,
		"subject_type", subject.Type,
		"subject_id", subject.ID,
		"error", syncErr,
	)

	failure := &model.AuthzSyncFailure{
		Operation:   operation,
		EntityType:  object.Type,
		EntityID:    object.ID,
		Relation:    relation,
		SubjectType: subject.Type,
		SubjectID:   subject.ID,
		GrantedBy:   grantedBy,
		Attempts:    1,
		LastError:   syncErr.Error(),
	}

	if err := s.failures.Create(ctx, failure); err != nil {
		// The outbox itself is down. The log line above is now the
		// only trace; reconciliation needs the audit trail instead.
		s.logger.Error("failed to record authorization sync failure", "error", err)
	}
}
