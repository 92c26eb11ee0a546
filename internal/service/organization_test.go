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

func TestCreateOrganization(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("creates organization with derived slug and owner grant", func(t *testing.T) {
		svc, m := newTestService(t)

		orgID := uuid.New()
		m.orgRepo.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, org *model.Organization, owner *model.Member) error {
				assert.Equal(t, "Acme Rockets", org.Name)
				assert.Equal(t, "acme-rockets", org.Slug)
				assert.Equal(t, actor, org.OwnerID)
				assert.Equal(t, model.OrgStatusActive, org.Status)
				assert.Equal(t, actor, owner.UserID)
				assert.Equal(t, "owner", owner.Role)
				org.ID = orgID
				return nil
			})

		m.authorizer.EXPECT().
			AssignRole(gomock.Any(), model.UserSubject(actor), "owner", model.OrgScope(orgID), actor.String(), nil).
			Return(nil)

		org, err := svc.CreateOrganization(ctx, actor, service.CreateOrganizationInput{Name: "Acme Rockets"})
		require.NoError(t, err)
		assert.Equal(t, orgID, org.ID)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		svc, m := newTestService(t)

		m.orgRepo.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domain.ErrSlugAlreadyExists)

		_, err := svc.CreateOrganization(ctx, actor, service.CreateOrganizationInput{
			Name: "Acme Rockets",
			Slug: "acme-rockets",
		})
		assert.ErrorIs(t, err, domain.ErrSlugAlreadyExists)
	})

	t.Run("anonymous actor", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.CreateOrganization(ctx, uuid.Nil, service.CreateOrganizationInput{Name: "Acme"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("failed owner grant parks in outbox", func(t *testing.T) {
		svc, m := newTestService(t)

		orgID := uuid.New()
		m.orgRepo.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, org *model.Organization, _ *model.Member) error {
				org.ID = orgID
				return nil
			})

		gomock.InOrder(
			m.authorizer.EXPECT().
				AssignRole(gomock.Any(), model.UserSubject(actor), "owner", model.OrgScope(orgID), actor.String(), nil).
				Return(assert.AnError),

			m.syncFailures.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, failure *model.AuthzSyncFailure) error {
					assert.Equal(t, model.SyncAssignRole, failure.Operation)
					assert.Equal(t, orgID.String(), failure.EntityID)
					assert.Equal(t, actor.String(), failure.SubjectID)
					assert.Equal(t, "owner", failure.Relation)
					return nil
				}),
		)

		// The domain commit already happened, so the create succeeds.
		org, err := svc.CreateOrganization(ctx, actor, service.CreateOrganizationInput{Name: "Acme Rockets"})
		require.NoError(t, err)
		assert.Equal(t, orgID, org.ID)
	})
}

func TestTransferOwnership(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	actor := uuid.New()
	newOwnerID := uuid.New()

	t.Run("swaps roles on both sides", func(t *testing.T) {
		svc, m := newTestService(t)

		actorMember := &model.Member{
			ID:             uuid.New(),
			OrganizationID: orgID,
			UserID:         actor,
			Role:           "owner",
			Status:         model.MemberStatusActive,
		}
		newOwnerMember := &model.Member{
			ID:             uuid.New(),
			OrganizationID: orgID,
			UserID:         newOwnerID,
			Role:           "member",
			Status:         model.MemberStatusActive,
		}
		org := &model.Organization{ID: orgID, Name: "Acme", OwnerID: actor}

		// The gate and the former-owner lookup both resolve the actor.
		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, actor).
			Return(actorMember, nil).
			Times(2)
		m.authorizer.EXPECT().
			Require(gomock.Any(), model.UserSubject(actor), "update_organization", model.OrgScope(orgID)).
			Return(nil)

		m.orgRepo.EXPECT().FindByID(gomock.Any(), orgID).Return(org, nil)
		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, newOwnerID).
			Return(newOwnerMember, nil)

		gomock.InOrder(
			m.orgRepo.EXPECT().
				Update(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, updated *model.Organization) error {
					assert.Equal(t, newOwnerID, updated.OwnerID)
					return nil
				}),
			m.memberRepo.EXPECT().
				Update(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, updated *model.Member) error {
					assert.Equal(t, actor, updated.UserID)
					assert.Equal(t, "admin", updated.Role)
					return nil
				}),
			m.memberRepo.EXPECT().
				Update(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, updated *model.Member) error {
					assert.Equal(t, newOwnerID, updated.UserID)
					assert.Equal(t, "owner", updated.Role)
					return nil
				}),

			m.authorizer.EXPECT().
				RevokeRole(gomock.Any(), model.UserSubject(actor), "owner", model.OrgScope(orgID)).
				Return(nil),
			m.authorizer.EXPECT().
				AssignRole(gomock.Any(), model.UserSubject(actor), "admin", model.OrgScope(orgID), actor.String(), nil).
				Return(nil),
			m.authorizer.EXPECT().
				AssignRole(gomock.Any(), model.UserSubject(newOwnerID), "owner", model.OrgScope(orgID), actor.String(), nil).
				Return(nil),
		)

		err := svc.TransferOwnership(ctx, actor, orgID, newOwnerID)
		require.NoError(t, err)
	})

	t.Run("actor is not the recorded owner", func(t *testing.T) {
		svc, m := newTestService(t)

		expectMemberGate(m, actor, orgID, "admin", "update_organization")
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, OwnerID: uuid.New()}, nil)

		err := svc.TransferOwnership(ctx, actor, orgID, newOwnerID)
		assert.ErrorIs(t, err, domain.ErrNotCurrentOwner)
	})

	t.Run("transfer to self", func(t *testing.T) {
		svc, m := newTestService(t)

		expectMemberGate(m, actor, orgID, "owner", "update_organization")
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, OwnerID: actor}, nil)

		err := svc.TransferOwnership(ctx, actor, orgID, actor)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("new owner suspended", func(t *testing.T) {
		svc, m := newTestService(t)

		expectMemberGate(m, actor, orgID, "owner", "update_organization")
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, OwnerID: actor}, nil)
		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, newOwnerID).
			Return(&model.Member{
				OrganizationID: orgID,
				UserID:         newOwnerID,
				Role:           "member",
				Status:         model.MemberStatusSuspended,
			}, nil)

		err := svc.TransferOwnership(ctx, actor, orgID, newOwnerID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestDeleteOrganization(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	actor := uuid.New()

	t.Run("revokes roles and edges before the delete", func(t *testing.T) {
		svc, m := newTestService(t)

		memberUserID := uuid.New()
		teamID := uuid.New()

		expectMemberGate(m, actor, orgID, "owner", "delete_organization")
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, OwnerID: actor}, nil)

		m.memberRepo.EXPECT().
			FindByOrganization(gomock.Any(), orgID).
			Return([]*model.Member{
				{OrganizationID: orgID, UserID: actor, Role: "owner"},
				{OrganizationID: orgID, UserID: memberUserID, Role: "member"},
			}, nil)
		m.authorizer.EXPECT().
			RevokeRole(gomock.Any(), model.UserSubject(actor), "owner", model.OrgScope(orgID)).
			Return(nil)
		m.authorizer.EXPECT().
			RevokeRole(gomock.Any(), model.UserSubject(memberUserID), "member", model.OrgScope(orgID)).
			Return(nil)

		m.teamRepo.EXPECT().
			FindByOrganization(gomock.Any(), orgID).
			Return([]*model.Team{{ID: teamID, OrganizationID: orgID, Name: "Core"}}, nil)
		m.teamRepo.EXPECT().
			FindMembers(gomock.Any(), teamID).
			Return([]*model.TeamMember{{TeamID: teamID, UserID: memberUserID}}, nil)
		m.authorizer.EXPECT().
			RemoveRelation(gomock.Any(), model.UserSubject(memberUserID), "member", model.TeamScope(teamID)).
			Return(nil)

		m.orgRepo.EXPECT().Delete(gomock.Any(), orgID).Return(nil)

		err := svc.DeleteOrganization(ctx, actor, orgID)
		require.NoError(t, err)
	})
}

func TestGetOrganizationBySlug(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves by slug", func(t *testing.T) {
		svc, m := newTestService(t)

		orgID := uuid.New()
		m.orgRepo.EXPECT().
			FindBySlug(gomock.Any(), "acme-rockets").
			Return(&model.Organization{ID: orgID, Slug: "acme-rockets"}, nil)

		org, err := svc.GetOrganizationBySlug(ctx, "acme-rockets")
		require.NoError(t, err)
		assert.Equal(t, orgID, org.ID)
	})

	t.Run("unknown slug", func(t *testing.T) {
		svc, m := newTestService(t)

		m.orgRepo.EXPECT().
			FindBySlug(gomock.Any(), "nope").
			Return(nil, domain.ErrOrganizationNotFound)

		_, err := svc.GetOrganizationBySlug(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
	})
}

func TestUpdateOrganization(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	actor := uuid.New()

	t.Run("patches only provided fields", func(t *testing.T) {
		svc, m := newTestService(t)

		expectMemberGate(m, actor, orgID, "admin", "update_organization")

		newName := "Acme Renamed"
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, Name: "Acme"}, nil)
		m.orgRepo.EXPECT().
			Patch(gomock.Any(), orgID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, fields map[string]interface{}) error {
				assert.Equal(t, map[string]interface{}{"name": newName}, fields)
				return nil
			})
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID, Name: newName}, nil)

		org, err := svc.UpdateOrganization(ctx, actor, orgID, service.UpdateOrganizationInput{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, newName, org.Name)
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

		_, err := svc.UpdateOrganization(ctx, actor, orgID, service.UpdateOrganizationInput{})
		assert.ErrorIs(t, err, domain.ErrMembershipSuspend)
	})
}
