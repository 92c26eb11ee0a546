package audit

import (
	"context"

	"github.com/dangerclosesec/tenantcore/internal/model"
)

// Logger defines the interface for auditing authorization operations
type Logger interface {
	// LogPermissionCheck logs a permission check operation
	LogPermissionCheck(
		ctx context.Context,
		subject model.Subject,
		permission string,
		object model.Entity,
		result bool,
		contextData map[string]interface{},
	) error

	// LogRoleAssign logs a role grant
	LogRoleAssign(
		ctx context.Context,
		object model.Entity,
		role string,
		subject model.Subject,
		grantedBy string,
	) error

	// LogRoleRevoke logs a role revocation
	LogRoleRevoke(
		ctx context.Context,
		object model.Entity,
		role string,
		subject model.Subject,
	) error

	// LogRelationCreate logs a relation creation operation
	LogRelationCreate(
		ctx context.Context,
		object model.Entity,
		relation string,
		subject model.Subject,
	) error

	// LogRelationDelete logs a relation deletion operation
	LogRelationDelete(
		ctx context.Context,
		object model.Entity,
		relation string,
		subject model.Subject,
	) error
}

// NoOpLogger is a logger that does nothing
type NoOpLogger struct{}

// LogPermissionCheck implements Logger.LogPermissionCheck
func (l *NoOpLogger) LogPermissionCheck(
	ctx context.Context,
	subject model.Subject,
	permission string,
	object model.Entity,
	result bool,
	contextData map[string]interface{},
) error {
	return nil
}

// LogRoleAssign implements Logger.LogRoleAssign
func (l *NoOpLogger) LogRoleAssign(
	ctx context.Context,
	object model.Entity,
	role string,
	subject model.Subject,
	grantedBy string,
) error {
	return nil
}

// LogRoleRevoke implements Logger.LogRoleRevoke
func (l *NoOpLogger) LogRoleRevoke(
	ctx context.Context,
	object model.Entity,
	role string,
	subject model.Subject,
) error {
	return nil
}

// LogRelationCreate implements Logger.LogRelationCreate
func (l *NoOpLogger) LogRelationCreate(
	ctx context.Context,
	object model.Entity,
	relation string,
	subject model.Subject,
) error {
	return nil
}

// LogRelationDelete implements Logger.LogRelationDelete
func (l *NoOpLogger) LogRelationDelete(
	ctx context.Context,
	object model.Entity,
	relation string,
	subject model.Subject,
) error {
	return nil
}
