// internal/service/tenant.go
package service

import (
	"log/slog"

	"github.com/dangerclosesec/tenantcore/internal/authz"
	"github.com/dangerclosesec/tenantcore/internal/config"
	"github.com/dangerclosesec/tenantcore/internal/email"
	"github.com/dangerclosesec/tenantcore/internal/repository"
	"github.com/go-playground/validator/v10"
)

// TenantService is the tenant authorization orchestrator. Every
// mutating operation runs the same sequence: resolve the check scope,
// require the mapped permission, validate domain invariants, apply the
// Domain Store mutation, then synchronize the authorization store.
//
// The two stores are never joined in one transaction. Grants happen
// strictly after the domain fact they reflect commits; revocations are
// ordered no later than it. Post-commit sync failures land in the
// outbox for cmd/reconcile, never in the caller's lap.
type TenantService struct {
	orgRepo     repository.OrganizationRepositoryIface
	memberRepo  repository.MemberRepositoryIface
	teamRepo    repository.TeamRepositoryIface
	inviteRepo  repository.InvitationRepositoryIface
	authorizer  authz.Authorizer
	sync        *AuthzSyncer
	emailSvc    *email.Service
	tokenHasher *authz.InviteTokenHasher
	config      *config.Config
	permissions map[string]string
	validate    *validator.Validate
	logger      *slog.Logger
}

func NewTenantService(
	orgRepo repository.OrganizationRepositoryIface,
	memberRepo repository.MemberRepositoryIface,
	teamRepo repository.TeamRepositoryIface,
	inviteRepo repository.InvitationRepositoryIface,
	authorizer authz.Authorizer,
	syncFailures repository.SyncFailureRepositoryIface,
	emailSvc *email.Service,
	cfg *config.Config,
) *TenantService {
	logger := slog.Default()
	permissions := cfg.Permissions
	if permissions == nil {
		permissions = config.DefaultPermissionMap()
	}

	return &TenantService{
		orgRepo:     orgRepo,
		memberRepo:  memberRepo,
		teamRepo:    teamRepo,
		inviteRepo:  inviteRepo,
		authorizer:  authorizer,
		sync:        NewAuthzSyncer(authorizer, syncFailures, logger),
		emailSvc:    emailSvc,
		tokenHasher: authz.NewInviteTokenHasher(),
		config:      cfg,
		permissions: permissions,
		validate:    validator.New(),
		logger:      logger,
	}
}

// BulkError reports one failed target of a bulk operation.
type BulkError struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BulkResult reports per-target outcomes of a bulk operation. Partial
// success is valid state, not an error.
type BulkResult struct {
	Success []string    `json:"success"`
	Errors  []BulkError `json:"errors"`
}

func newBulkResult() *BulkResult {
	return &BulkResult{
		Success: []string{},
		Errors:  []BulkError{},
	}
}
