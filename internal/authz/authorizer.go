// internal/authz/authorizer.go

package authz

import (
	"context"
	"time"

	"github.com/dangerclosesec/tenantcore/internal/model"
)

// Authorizer is the contract the orchestrator consumes from the
// permission service. Roles and permissions are opaque strings; the
// engine resolves them against its own schema.
type Authorizer interface {
	// Can reports whether subject holds permission on scope.
	Can(ctx context.Context, subject model.Subject, permission string, scope model.Entity) (bool, error)

	// Require is Can that fails with domain.ErrForbidden when the
	// permission is not held.
	Require(ctx context.Context, subject model.Subject, permission string, scope model.Entity) error

	// AssignRole grants role to subject in scope. grantedBy attributes
	// the grant for auditing.
	AssignRole(ctx context.Context, subject model.Subject, role string, scope model.Entity, grantedBy string, expiresAt *time.Time) error

	// RevokeRole removes role from subject in scope. Revoking a role
	// the subject does not hold is not an error.
	RevokeRole(ctx context.Context, subject model.Subject, role string, scope model.Entity) error

	// GrantPermission and DenyPermission record per-permission
	// overrides on top of role-derived permissions.
	GrantPermission(ctx context.Context, subject model.Subject, permission string, scope model.Entity, reason string, expiresAt *time.Time) error
	DenyPermission(ctx context.Context, subject model.Subject, permission string, scope model.Entity, reason string, expiresAt *time.Time) error

	// GetUserRoles returns the roles subject holds in scope.
	GetUserRoles(ctx context.Context, subject model.Subject, scope model.Entity) ([]string, error)

	// GetUserPermissions returns the effective permission set of
	// subject on scope.
	GetUserPermissions(ctx context.Context, subject model.Subject, scope model.Entity) ([]string, error)

	// AddRelation and RemoveRelation maintain relation edges in the
	// relationship graph (used here for user -member-> team).
	AddRelation(ctx context.Context, subject model.Subject, relation string, object model.Entity) error
	RemoveRelation(ctx context.Context, subject model.Subject, relation string, object model.Entity) error

	// HasRelation reports whether the edge exists.
	HasRelation(ctx context.Context, subject model.Subject, relation string, object model.Entity) (bool, error)
}

// RelationMember is the relation used for team membership edges.
const RelationMember = "member"

// Override relation prefixes. Grant/deny overrides are stored as
// relation tuples so the engine schema can fold them into permission
// expressions.
const (
	GrantPrefix = "grant__"
	DenyPrefix  = "deny__"
)
