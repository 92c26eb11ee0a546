package service_test

import (
	"context"
	"testing"

	"github.com/dangerclosesec/tenantcore/internal/domain"
	"github.com/dangerclosesec/tenantcore/internal/model"
	"github.com/dangerclosesec/tenantcore/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAddMember(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	actor := uuid.New()
	userID := uuid.New()

	t.Run("creates membership and mirrors the grant", func(t *testing.T) {
		svc, m := newTestService(t)

		expectGate(m, actor, orgID, "add_member")
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID}, nil)

		gomock.InOrder(
			m.memberRepo.EXPECT().
				FindByOrgAndUser(gomock.Any(), orgID, userID).
				Return(nil, domain.ErrMemberNotFound),
			m.memberRepo.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, member *model.Member) error {
					assert.Equal(t, orgID, member.OrganizationID)
					assert.Equal(t, userID, member.UserID)
					assert.Equal(t, "editor", member.Role)
					assert.Equal(t, model.MemberStatusActive, member.Status)
					return nil
				}),
			m.authorizer.EXPECT().
				AssignRole(gomock.Any(), model.UserSubject(userID), "editor", model.OrgScope(orgID), actor.String(), nil).
				Return(nil),
		)

		member, err := svc.AddMember(ctx, actor, orgID, service.AddMemberInput{UserID: userID, Role: "editor"})
		require.NoError(t, err)
		assert.Equal(t, userID, member.UserID)
	})

	t.Run("existing membership", func(t *testing.T) {
		svc, m := newTestService(t)

		expectGate(m, actor, orgID, "add_member")
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID}, nil)
		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, userID).
			Return(&model.Member{OrganizationID: orgID, UserID: userID}, nil)

		_, err := svc.AddMember(ctx, actor, orgID, service.AddMemberInput{UserID: userID, Role: "editor"})
		assert.ErrorIs(t, err, domain.ErrMemberExists)
	})

	t.Run("failed grant parks in outbox, add still succeeds", func(t *testing.T) {
		svc, m := newTestService(t)

		expectGate(m, actor, orgID, "add_member")
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID}, nil)
		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, userID).
			Return(nil, domain.ErrMemberNotFound)
		m.memberRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		gomock.InOrder(
			m.authorizer.EXPECT().
				AssignRole(gomock.Any(), model.UserSubject(userID), "editor", model.OrgScope(orgID), actor.String(), nil).
				Return(assert.AnError),
			m.syncFailures.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, failure *model.AuthzSyncFailure) error {
					assert.Equal(t, model.SyncAssignRole, failure.Operation)
					assert.Equal(t, userID.String(), failure.SubjectID)
					return nil
				}),
		)

		_, err := svc.AddMember(ctx, actor, orgID, service.AddMemberInput{UserID: userID, Role: "editor"})
		require.NoError(t, err)
	})

	t.Run("suspended actor membership", func(t *testing.T) {
		svc, m := newTestService(t)

		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, actor).
			Return(&model.Member{
				OrganizationID: orgID,
				UserID:         actor,
				Role:           "admin",
				Status:         model.MemberStatusSuspended,
			}, nil)

		_, err := svc.AddMember(ctx, actor, orgID, service.AddMemberInput{UserID: userID, Role: "editor"})
		assert.ErrorIs(t, err, domain.ErrMembershipSuspend)
	})
}

func TestBulkAddMembers(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	actor := uuid.New()

	t.Run("partial success reports per-user outcomes", func(t *testing.T) {
		svc, m := newTestService(t)

		newUser := uuid.New()
		existingUser := uuid.New()

		expectGate(m, actor, orgID, "add_member")
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID}, nil)

		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, newUser).
			Return(nil, domain.ErrMemberNotFound)
		m.memberRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		m.authorizer.EXPECT().
			AssignRole(gomock.Any(), model.UserSubject(newUser), "member", model.OrgScope(orgID), actor.String(), nil).
			Return(nil)

		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, existingUser).
			Return(&model.Member{OrganizationID: orgID, UserID: existingUser}, nil)

		result, err := svc.BulkAddMembers(ctx, actor, orgID, []service.AddMemberInput{
			{UserID: newUser, Role: "member"},
			{UserID: existingUser, Role: "member"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{newUser.String()}, result.Success)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, existingUser.String(), result.Errors[0].ID)
		assert.Equal(t, domain.CodeAlreadyExists, result.Errors[0].Code)
	})
}

func TestJoinByDomain(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	userID := uuid.New()

	t.Run("matching email domain joins with default role", func(t *testing.T) {
		svc, m := newTestService(t)

		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{
				ID:             orgID,
				Status:         model.OrgStatusActive,
				AllowedDomains: model.StringList{"example.com"},
			}, nil)
		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, userID).
			Return(nil, domain.ErrMemberNotFound)
		m.memberRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, member *model.Member) error {
				assert.Equal(t, "member", member.Role)
				return nil
			})
		m.authorizer.EXPECT().
			AssignRole(gomock.Any(), model.UserSubject(userID), "member", model.OrgScope(orgID), userID.String(), nil).
			Return(nil)

		member, err := svc.JoinByDomain(ctx, orgID, userID, "dev@Example.COM", "")
		require.NoError(t, err)
		assert.Equal(t, userID, member.UserID)
	})

	t.Run("unlisted email domain", func(t *testing.T) {
		svc, m := newTestService(t)

		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{
				ID:             orgID,
				Status:         model.OrgStatusActive,
				AllowedDomains: model.StringList{"example.com"},
			}, nil)

		_, err := svc.JoinByDomain(ctx, orgID, userID, "dev@elsewhere.com", "")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("suspended organization", func(t *testing.T) {
		svc, m := newTestService(t)

		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{
				ID:             orgID,
				Status:         model.OrgStatusSuspended,
				AllowedDomains: model.StringList{"example.com"},
			}, nil)

		_, err := svc.JoinByDomain(ctx, orgID, userID, "dev@example.com", "")
		assert.ErrorIs(t, err, domain.ErrDomainJoinUnavailable)
	})
}

func TestRemoveMember(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	actor := uuid.New()
	userID := uuid.New()

	t.Run("clears team rows and edges before the revoke", func(t *testing.T) {
		svc, m := newTestService(t)

		teamID := uuid.New()
		memberID := uuid.New()

		expectGate(m, actor, orgID, "remove_member")
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, OwnerID: actor}, nil)
		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, userID).
			Return(&model.Member{ID: memberID, OrganizationID: orgID, UserID: userID, Role: "editor"}, nil)

		gomock.InOrder(
			m.teamRepo.EXPECT().
				FindMembershipsForUser(gomock.Any(), orgID, userID).
				Return([]*model.TeamMember{{TeamID: teamID, UserID: userID}}, nil),
			m.authorizer.EXPECT().
				RemoveRelation(gomock.Any(), model.UserSubject(userID), "member", model.TeamScope(teamID)).
				Return(nil),
			m.teamRepo.EXPECT().
				RemoveMember(gomock.Any(), teamID, userID).
				Return(nil),
			m.memberRepo.EXPECT().
				Delete(gomock.Any(), memberID).
				Return(nil),
			m.authorizer.EXPECT().
				RevokeRole(gomock.Any(), model.UserSubject(userID), "editor", model.OrgScope(orgID)).
				Return(nil),
		)

		err := svc.RemoveMember(ctx, actor, orgID, userID)
		require.NoError(t, err)
	})

	t.Run("owner cannot be removed", func(t *testing.T) {
		svc, m := newTestService(t)

		expectGate(m, actor, orgID, "remove_member")
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, OwnerID: userID}, nil)

		err := svc.RemoveMember(ctx, actor, orgID, userID)
		assert.ErrorIs(t, err, domain.ErrCannotRemoveOwner)
	})
}

func TestBulkRemoveMembers(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	actor := uuid.New()

	t.Run("missing member reported, rest removed", func(t *testing.T) {
		svc, m := newTestService(t)

		presentUser := uuid.New()
		missingUser := uuid.New()
		memberID := uuid.New()

		expectGate(m, actor, orgID, "remove_member")
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, OwnerID: actor}, nil).
			Times(2)

		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, presentUser).
			Return(&model.Member{ID: memberID, OrganizationID: orgID, UserID: presentUser, Role: "member"}, nil)
		m.teamRepo.EXPECT().
			FindMembershipsForUser(gomock.Any(), orgID, presentUser).
			Return(nil, nil)
		m.memberRepo.EXPECT().Delete(gomock.Any(), memberID).Return(nil)
		m.authorizer.EXPECT().
			RevokeRole(gomock.Any(), model.UserSubject(presentUser), "member", model.OrgScope(orgID)).
			Return(nil)

		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, missingUser).
			Return(nil, domain.ErrMemberNotFound)

		result, err := svc.BulkRemoveMembers(ctx, actor, orgID, []uuid.UUID{presentUser, missingUser})
		require.NoError(t, err)
		assert.Equal(t, []string{presentUser.String()}, result.Success)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, missingUser.String(), result.Errors[0].ID)
		assert.Equal(t, domain.CodeNotFound, result.Errors[0].Code)
	})
}

func TestUpdateMemberRole(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	actor := uuid.New()
	userID := uuid.New()

	t.Run("revokes previous role then assigns the new one", func(t *testing.T) {
		svc, m := newTestService(t)

		expectGate(m, actor, orgID, "update_member_role")
		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, userID).
			Return(&model.Member{OrganizationID: orgID, UserID: userID, Role: "member", Status: model.MemberStatusActive}, nil)
		m.memberRepo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, member *model.Member) error {
				assert.Equal(t, "admin", member.Role)
				return nil
			})

		gomock.InOrder(
			m.authorizer.EXPECT().
				RevokeRole(gomock.Any(), model.UserSubject(userID), "member", model.OrgScope(orgID)).
				Return(nil),
			m.authorizer.EXPECT().
				AssignRole(gomock.Any(), model.UserSubject(userID), "admin", model.OrgScope(orgID), actor.String(), nil).
				Return(nil),
		)

		member, err := svc.UpdateMemberRole(ctx, actor, orgID, userID, "admin")
		require.NoError(t, err)
		assert.Equal(t, "admin", member.Role)
	})

	t.Run("same role is a no-op", func(t *testing.T) {
		svc, m := newTestService(t)

		expectGate(m, actor, orgID, "update_member_role")
		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, userID).
			Return(&model.Member{OrganizationID: orgID, UserID: userID, Role: "admin"}, nil)

		member, err := svc.UpdateMemberRole(ctx, actor, orgID, userID, "admin")
		require.NoError(t, err)
		assert.Equal(t, "admin", member.Role)
	})
}

func TestSuspendMember(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	actor := uuid.New()
	userID := uuid.New()

	t.Run("flags the membership, roles stay assigned", func(t *testing.T) {
		svc, m := newTestService(t)

		expectGate(m, actor, orgID, "suspend_member")
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, OwnerID: actor}, nil)
		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, userID).
			Return(&model.Member{OrganizationID: orgID, UserID: userID, Role: "member", Status: model.MemberStatusActive}, nil)
		m.memberRepo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, member *model.Member) error {
				assert.Equal(t, model.MemberStatusSuspended, member.Status)
				assert.NotNil(t, member.SuspendedAt)
				return nil
			})

		member, err := svc.SuspendMember(ctx, actor, orgID, userID)
		require.NoError(t, err)
		assert.Equal(t, model.MemberStatusSuspended, member.Status)
	})

	t.Run("owner cannot be suspended", func(t *testing.T) {
		svc, m := newTestService(t)

		expectGate(m, actor, orgID, "suspend_member")
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, OwnerID: userID}, nil)

		_, err := svc.SuspendMember(ctx, actor, orgID, userID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestLeaveOrganization(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	actor := uuid.New()

	t.Run("last owner cannot leave", func(t *testing.T) {
		svc, m := newTestService(t)

		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, actor).
			Return(&model.Member{OrganizationID: orgID, UserID: actor, Role: "owner", Status: model.MemberStatusActive}, nil)
		m.memberRepo.EXPECT().
			CountActiveByOrgAndRole(gomock.Any(), orgID, "owner").
			Return(int64(1), nil)

		err := svc.LeaveOrganization(ctx, actor, orgID)
		assert.ErrorIs(t, err, domain.ErrLastOwner)
	})

	t.Run("non-owner leaves, role revoked after the delete", func(t *testing.T) {
		svc, m := newTestService(t)

		memberID := uuid.New()
		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, actor).
			Return(&model.Member{ID: memberID, OrganizationID: orgID, UserID: actor, Role: "member", Status: model.MemberStatusActive}, nil)

		gomock.InOrder(
			m.teamRepo.EXPECT().
				FindMembershipsForUser(gomock.Any(), orgID, actor).
				Return(nil, nil),
			m.memberRepo.EXPECT().
				Delete(gomock.Any(), memberID).
				Return(nil),
			m.authorizer.EXPECT().
				RevokeRole(gomock.Any(), model.UserSubject(actor), "member", model.OrgScope(orgID)).
				Return(nil),
		)

		err := svc.LeaveOrganization(ctx, actor, orgID)
		require.NoError(t, err)
	})

	t.Run("not a member", func(t *testing.T) {
		svc, m := newTestService(t)

		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, actor).
			Return(nil, domain.ErrMemberNotFound)

		err := svc.LeaveOrganization(ctx, actor, orgID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("store failure is not reported as not-a-member", func(t *testing.T) {
		svc, m := newTestService(t)

		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, actor).
			Return(nil, assert.AnError)

		err := svc.LeaveOrganization(ctx, actor, orgID)
		assert.ErrorIs(t, err, assert.AnError)
		assert.NotEqual(t, domain.CodeNotFound, domain.CodeOf(err))
	})
}
