package audit

import (
	"context"
	"time"

	"github.com/dangerclosesec/tenantcore/internal/model"
	"github.com/dangerclosesec/tenantcore/internal/repository"
)

// StoreLogger persists audit entries through the audit log repository.
type StoreLogger struct {
	repo *repository.AuthzAuditLogRepository
}

// NewStoreLogger creates a new StoreLogger
func NewStoreLogger(repo *repository.AuthzAuditLogRepository) *StoreLogger {
	return &StoreLogger{repo: repo}
}

func (l *StoreLogger) LogPermissionCheck(
	ctx context.Context,
	subject model.Subject,
	permission string,
	object model.Entity,
	result bool,
	contextData map[string]interface{},
) error {
	entry := &model.AuthzAuditLog{
		Timestamp:   time.Now().UTC(),
		ActionType:  model.ActionPermissionCheck,
		Result:      &result,
		EntityType:  object.Type,
		EntityID:    object.ID,
		SubjectType: subject.Type,
		SubjectID:   subject.ID,
		Permission:  permission,
		Context:     contextData,
	}
	return l.repo.Create(ctx, entry)
}

func (l *StoreLogger) LogRoleAssign(
	ctx context.Context,
	object model.Entity,
	role string,
	subject model.Subject,
	grantedBy string,
) error {
	entry := &model.AuthzAuditLog{
		Timestamp:   time.Now().UTC(),
		ActionType:  model.ActionRoleAssign,
		EntityType:  object.Type,
		EntityID:    object.ID,
		SubjectType: subject.Type,
		SubjectID:   subject.ID,
		Relation:    role,
		GrantedBy:   grantedBy,
	}
	return l.repo.Create(ctx, entry)
}

func (l *StoreLogger) LogRoleRevoke(
	ctx context.Context,
	object model.Entity,
	role string,
	subject model.Subject,
) error {
	entry := &model.AuthzAuditLog{
		Timestamp:   time.Now().UTC(),
		ActionType:  model.ActionRoleRevoke,
		EntityType:  object.Type,
		EntityID:    object.ID,
		SubjectType: subject.Type,
		SubjectID:   subject.ID,
		Relation:    role,
	}
	return l.repo.Create(ctx, entry)
}

func (l *StoreLogger) LogRelationCreate(
	ctx context.Context,
	object model.Entity,
	relation string,
	subject model.Subject,
) error {
	entry := &model.AuthzAuditLog{
		Timestamp:   time.Now().UTC(),
		ActionType:  model.ActionRelationCreate,
		EntityType:  object.Type,
		EntityID:    object.ID,
		SubjectType: subject.Type,
		SubjectID:   subject.ID,
		Relation:    relation,
	}
	return l.repo.Create(ctx, entry)
}

func (l *StoreLogger) LogRelationDelete(
	ctx context.Context,
	object model.Entity,
	relation string,
	subject model.Subject,
) error {
	entry := &model.AuthzAuditLog{
		Timestamp:   time.Now().UTC(),
		ActionType:  model.ActionRelationDelete,
		EntityType:  object.Type,
		EntityID:    object.ID,
		SubjectType: subject.Type,
		SubjectID:   subject.ID,
		Relation:    relation,
	}
	return l.repo.Create(ctx, entry)
}
