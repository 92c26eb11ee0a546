// internal/authz/permify.go

package authz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pservice "buf.build/gen/go/permifyco/permify/protocolbuffers/go/base/v1"
	v1 "buf.build/gen/go/permifyco/permify/protocolbuffers/go/base/v1"
	permify_grpc "github.com/Permify/permify-go/grpc"

	"github.com/dangerclosesec/tenantcore/internal/audit"
	"github.com/dangerclosesec/tenantcore/internal/domain"
	"github.com/dangerclosesec/tenantcore/internal/model"
)

// PermifyService implements Authorizer against a Permify deployment.
// Role assignments are relation tuples on the scope entity; the
// relation name is the role string.
type PermifyService struct {
	client        *permify_grpc.Client
	tenant        string
	schemaVersion string
	snapToken     string
	depth         int32
	auditLogger   audit.Logger
}

func WithTenant(tenant string) func(*PermifyService) {
	return func(s *PermifyService) {
		s.tenant = tenant
	}
}

// WithSchemaVersion sets the schema version for the Permify service
func WithSchemaVersion(schemaVersion string) func(*PermifyService) {
	return func(s *PermifyService) {
		s.schemaVersion = schemaVersion
	}
}

// WithSnapToken sets the snap token for the Permify service
func WithSnapToken(snapToken string) func(*PermifyService) {
	return func(s *PermifyService) {
		s.snapToken = snapToken
	}
}

// WithDepth sets the check depth for the Permify service
func WithDepth(depth int32) func(*PermifyService) {
	return func(s *PermifyService) {
		s.depth = depth
	}
}

// WithAuditLogger sets the audit logger used for authorization writes
func WithAuditLogger(logger audit.Logger) func(*PermifyService) {
	return func(s *PermifyService) {
		s.auditLogger = logger
	}
}

// NewPermifyService creates a new Permify-backed Authorizer
func NewPermifyService(host string, options ...func(*PermifyService)) (*PermifyService, error) {
	client, err := permify_grpc.NewClient(
		permify_grpc.Config{
			Endpoint: host,
		},
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)

	if err != nil {
		return nil, err
	}

	service := &PermifyService{
		client:        client,
		schemaVersion: "v1",
		depth:         50,
		auditLogger:   &audit.NoOpLogger{},
	}
	for _, o := range options {
		o(service)
	}

	if service.tenant == "" {
		service.tenant = "t1"
	}

	return service, nil
}

// Can checks if a subject has a permission on a scope entity
func (s *PermifyService) Can(ctx context.Context, subject model.Subject, permission string, scope model.Entity) (bool, error) {
	cr, err := s.client.Permission.Check(ctx, &v1.PermissionCheckRequest{
		TenantId: s.tenant,
		Metadata: &v1.PermissionCheckRequestMetadata{
			SnapToken:     s.snapToken,
			SchemaVersion: s.schemaVersion,
			Depth:         s.depth,
		},
		Entity: &v1.Entity{
			Type: scope.Type,
			Id:   scope.ID,
		},
		Permission: permission,
		Subject: &v1.Subject{
			Type: subject.Type,
			Id:   subject.ID,
		},
	})
	if err != nil {
		return false, err
	}

	allowed := cr.Can == pservice.CheckResult_CHECK_RESULT_ALLOWED

	if err := s.auditLogger.LogPermissionCheck(ctx, subject, permission, scope, allowed, nil); err != nil {
		return allowed, fmt.Errorf("logging permission check: %w", err)
	}

	return allowed, nil
}

// Require fails with domain.ErrForbidden when the permission is not
// held.
func (s *PermifyService) Require(ctx context.Context, subject model.Subject, permission string, scope model.Entity) error {
	allowed, err := s.Can(ctx, subject, permission, scope)
	if err != nil {
		return fmt.Errorf("checking permission %q: %w", permission, err)
	}
	if !allowed {
		return fmt.Errorf("%w: missing %q on %s:%s", domain.ErrForbidden, permission, scope.Type, scope.ID)
	}
	return nil
}

// AssignRole writes a role tuple on the scope entity. Tuple expiry is
// not supported by the engine; expiresAt is recorded for auditing only.
func (s *PermifyService) AssignRole(ctx context.Context, subject model.Subject, role string, scope model.Entity, grantedBy string, expiresAt *time.Time) error {
	if err := s.writeRelationship(ctx, scope, role, subject); err != nil {
		return err
	}
	return s.auditLogger.LogRoleAssign(ctx, scope, role, subject, grantedBy)
}

// RevokeRole deletes the role tuple on the scope entity.
func (s *PermifyService) RevokeRole(ctx context.Context, subject model.Subject, role string, scope model.Entity) error {
	if err := s.deleteRelationship(ctx, scope, role, subject); err != nil {
		return err
	}
	return s.auditLogger.LogRoleRevoke(ctx, scope, role, subject)
}

// GrantPermission records a per-permission grant override.
func (s *PermifyService) GrantPermission(ctx context.Context, subject model.Subject, permission string, scope model.Entity, reason string, expiresAt *time.Time) error {
	if err := s.writeRelationship(ctx, scope, GrantPrefix+permission, subject); err != nil {
		return err
	}
	return s.auditLogger.LogRoleAssign(ctx, scope, GrantPrefix+permission, subject, reason)
}

// DenyPermission records a per-permission deny override.
func (s *PermifyService) DenyPermission(ctx context.Context, subject model.Subject, permission string, scope model.Entity, reason string, expiresAt *time.Time) error {
	if err := s.writeRelationship(ctx, scope, DenyPrefix+permission, subject); err != nil {
		return err
	}
	return s.auditLogger.LogRoleAssign(ctx, scope, DenyPrefix+permission, subject, reason)
}

// GetUserRoles lists the role tuples subject holds on scope. Override
// and membership relations are filtered out.
func (s *PermifyService) GetUserRoles(ctx context.Context, subject model.Subject, scope model.Entity) ([]string, error) {
	resp, err := s.client.Data.ReadRelationships(ctx, &v1.RelationshipReadRequest{
		TenantId: s.tenant,
		Metadata: &v1.RelationshipReadRequestMetadata{
			SnapToken: s.snapToken,
		},
		Filter: &v1.TupleFilter{
			Entity: &v1.EntityFilter{
				Type: scope.Type,
				Ids:  []string{scope.ID},
			},
			Subject: &v1.SubjectFilter{
				Type: subject.Type,
				Ids:  []string{subject.ID},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("reading relationships: %w", err)
	}

	var roles []string
	for _, tuple := range resp.GetTuples() {
		relation := tuple.GetRelation()
		if relation == RelationMember ||
			strings.HasPrefix(relation, GrantPrefix) ||
			strings.HasPrefix(relation, DenyPrefix) {
			continue
		}
		roles = append(roles, relation)
	}
	return roles, nil
}

// GetUserPermissions returns every permission of the scope's entity
// type the subject currently holds.
func (s *PermifyService) GetUserPermissions(ctx context.Context, subject model.Subject, scope model.Entity) ([]string, error) {
	resp, err := s.client.Permission.SubjectPermission(ctx, &v1.PermissionSubjectPermissionRequest{
		TenantId: s.tenant,
		Metadata: &v1.PermissionSubjectPermissionRequestMetadata{
			SnapToken:      s.snapToken,
			SchemaVersion:  s.schemaVersion,
			OnlyPermission: true,
			Depth:          s.depth,
		},
		Entity: &v1.Entity{
			Type: scope.Type,
			Id:   scope.ID,
		},
		Subject: &v1.Subject{
			Type: subject.Type,
			Id:   subject.ID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("resolving subject permissions: %w", err)
	}

	var permissions []string
	for permission, result := range resp.GetResults() {
		if result == pservice.CheckResult_CHECK_RESULT_ALLOWED {
			permissions = append(permissions, permission)
		}
	}
	return permissions, nil
}

// AddRelation writes a relation edge subject -relation-> object.
func (s *PermifyService) AddRelation(ctx context.Context, subject model.Subject, relation string, object model.Entity) error {
	if err := s.writeRelationship(ctx, object, relation, subject); err != nil {
		return err
	}
	return s.auditLogger.LogRelationCreate(ctx, object, relation, subject)
}

// RemoveRelation deletes the relation edge subject -relation-> object.
func (s *PermifyService) RemoveRelation(ctx context.Context, subject model.Subject, relation string, object model.Entity) error {
	if err := s.deleteRelationship(ctx, object, relation, subject); err != nil {
		return err
	}
	return s.auditLogger.LogRelationDelete(ctx, object, relation, subject)
}

// HasRelation reports whether the edge exists.
func (s *PermifyService) HasRelation(ctx context.Context, subject model.Subject, relation string, object model.Entity) (bool, error) {
	resp, err := s.client.Data.ReadRelationships(ctx, &v1.RelationshipReadRequest{
		TenantId: s.tenant,
		Metadata: &v1.RelationshipReadRequestMetadata{
			SnapToken: s.snapToken,
		},
		Filter: &v1.TupleFilter{
			Entity: &v1.EntityFilter{
				Type: object.Type,
				Ids:  []string{object.ID},
			},
			Relation: relation,
			Subject: &v1.SubjectFilter{
				Type: subject.Type,
				Ids:  []string{subject.ID},
			},
		},
	})
	if err != nil {
		return false, fmt.Errorf("reading relationships: %w", err)
	}
	return len(resp.GetTuples()) > 0, nil
}

// WriteSchema pushes a schema definition to the engine and returns the
// new schema version.
func (s *PermifyService) WriteSchema(ctx context.Context, schema string) (string, error) {
	resp, err := s.client.Schema.Write(ctx, &v1.SchemaWriteRequest{
		TenantId: s.tenant,
		Schema:   schema,
	})
	if err != nil {
		return "", fmt.Errorf("writing schema: %w", err)
	}
	return resp.GetSchemaVersion(), nil
}

func (s *PermifyService) writeRelationship(ctx context.Context, entity model.Entity, relation string, subject model.Subject) error {
	_, err := s.client.Data.WriteRelationships(ctx, &v1.RelationshipWriteRequest{
		TenantId: s.tenant,
		Metadata: &v1.RelationshipWriteRequestMetadata{
			SchemaVersion: s.schemaVersion,
		},
		Tuples: []*v1.Tuple{
			{
				Entity: &v1.Entity{
					Type: entity.Type,
					Id:   entity.ID,
				},
				Relation: relation,
				Subject: &v1.Subject{
					Type: subject.Type,
					Id:   subject.ID,
				},
			},
		},
	})
	if err != nil {
		return err
	}

	return nil
}

func (s *PermifyService) deleteRelationship(ctx context.Context, entity model.Entity, relation string, subject model.Subject) error {
	_, err := s.client.Data.DeleteRelationships(ctx, &v1.RelationshipDeleteRequest{
		TenantId: s.tenant,
		Filter: &v1.TupleFilter{
			Entity: &v1.EntityFilter{
				Type: entity.Type,
				Ids:  []string{entity.ID},
			},
			Relation: relation,
			Subject: &v1.SubjectFilter{
				Type: subject.Type,
				Ids:  []string{subject.ID},
			},
		},
	})
	if err != nil {
		return err
	}

	return nil
}
