// internal/service/authz_audit_log.go
package service

import (
	"context"

	"github.com/dangerclosesec/tenantcore/internal/model"
	"github.com/dangerclosesec/tenantcore/internal/repository"
	"github.com/google/uuid"
)

// AuthzAuditLogService is the read side of the audit trail. Writes go
// through audit.StoreLogger; this service serves queries.
type AuthzAuditLogService struct {
	repo *repository.AuthzAuditLogRepository
}

// NewAuthzAuditLogService creates a new AuthzAuditLogService
func NewAuthzAuditLogService(repo *repository.AuthzAuditLogRepository) *AuthzAuditLogService {
	return &AuthzAuditLogService{repo: repo}
}

// GetAuditLogs retrieves audit logs based on query parameters
func (s *AuthzAuditLogService) GetAuditLogs(ctx context.Context, params repository.QueryParams) ([]model.AuthzAuditLog, int64, error) {
	return s.repo.Query(ctx, params)
}

// GetAuditLogByID retrieves a specific audit log by ID
func (s *AuthzAuditLogService) GetAuditLogByID(ctx context.Context, id uuid.UUID) (*model.AuthzAuditLog, error) {
	return s.repo.FindByID(ctx, id)
}
