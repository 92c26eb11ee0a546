package service_test

import (
	"testing"
	"time"

	"github.com/dangerclosesec/tenantcore/internal/config"
	"github.com/dangerclosesec/tenantcore/internal/domain"
	"github.com/dangerclosesec/tenantcore/internal/mocks"
	"github.com/dangerclosesec/tenantcore/internal/model"
	"github.com/dangerclosesec/tenantcore/internal/service"
	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
)

type testMocks struct {
	orgRepo      *mocks.MockOrganizationRepositoryIface
	memberRepo   *mocks.MockMemberRepositoryIface
	teamRepo     *mocks.MockTeamRepositoryIface
	inviteRepo   *mocks.MockInvitationRepositoryIface
	authorizer   *mocks.MockAuthorizer
	syncFailures *mocks.MockSyncFailureRepositoryIface
}

func newTestService(t *testing.T) (*service.TenantService, *testMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &testMocks{
		orgRepo:      mocks.NewMockOrganizationRepositoryIface(ctrl),
		memberRepo:   mocks.NewMockMemberRepositoryIface(ctrl),
		teamRepo:     mocks.NewMockTeamRepositoryIface(ctrl),
		inviteRepo:   mocks.NewMockInvitationRepositoryIface(ctrl),
		authorizer:   mocks.NewMockAuthorizer(ctrl),
		syncFailures: mocks.NewMockSyncFailureRepositoryIface(ctrl),
	}

	cfg := &config.Config{}
	cfg.Tenancy.CreatorRole = "owner"
	cfg.Tenancy.PreviousOwnerRole = "admin"
	cfg.Tenancy.DefaultMemberRole = "member"
	cfg.Tenancy.InviteTTL = 48 * time.Hour
	cfg.Permissions = config.DefaultPermissionMap()
	cfg.BaseURL = "http://localhost:8080"

	svc := service.NewTenantService(
		m.orgRepo, m.memberRepo, m.teamRepo, m.inviteRepo,
		m.authorizer, m.syncFailures, nil, cfg,
	)
	return svc, m
}

// expectGate sets the expectations the permission gate makes for an
// actor without a membership row in the organization.
func expectGate(m *testMocks, actor, orgID uuid.UUID, permission string) {
	m.memberRepo.EXPECT().
		FindByOrgAndUser(gomock.Any(), orgID, actor).
		Return(nil, domain.ErrMemberNotFound)
	m.authorizer.EXPECT().
		Require(gomock.Any(), model.UserSubject(actor), permission, model.OrgScope(orgID)).
		Return(nil)
}

// expectMemberGate is expectGate for an actor that holds an active
// membership row.
func expectMemberGate(m *testMocks, actor, orgID uuid.UUID, role, permission string) {
	m.memberRepo.EXPECT().
		FindByOrgAndUser(gomock.Any(), orgID, actor).
		Return(&model.Member{
			ID:             uuid.New(),
			OrganizationID: orgID,
			UserID:         actor,
			Role:           role,
			Status:         model.MemberStatusActive,
		}, nil)
	m.authorizer.EXPECT().
		Require(gomock.Any(), model.UserSubject(actor), permission, model.OrgScope(orgID)).
		Return(nil)
}
