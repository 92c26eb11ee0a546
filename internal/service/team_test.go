package service_test

import (
	"context"
	"testing"

	"github.com/dangerclosesec/tenantcore/internal/authz"
	"github.com/dangerclosesec/tenantcore/internal/domain"
	"github.com/dangerclosesec/tenantcore/internal/model"
	"github.com/dangerclosesec/tenantcore/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCreateTeam(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	actor := uuid.New()

	t.Run("creates team in organization scope", func(t *testing.T) {
		svc, m := newTestService(t)

		expectMemberGate(m, actor, orgID, "admin", "create_team")
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID}, nil)
		m.teamRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, team *model.Team) error {
				assert.Equal(t, orgID, team.OrganizationID)
				assert.Equal(t, "Platform", team.Name)
				return nil
			})

		team, err := svc.CreateTeam(ctx, actor, orgID, service.CreateTeamInput{Name: "Platform"})
		require.NoError(t, err)
		assert.Equal(t, orgID, team.OrganizationID)
	})

	t.Run("parent team from another organization", func(t *testing.T) {
		svc, m := newTestService(t)

		parentID := uuid.New()
		expectMemberGate(m, actor, orgID, "admin", "create_team")
		m.orgRepo.EXPECT().
			FindByID(gomock.Any(), orgID).
			Return(&model.Organization{ID: orgID}, nil)
		m.teamRepo.EXPECT().
			FindByID(gomock.Any(), parentID).
			Return(&model.Team{ID: parentID, OrganizationID: uuid.New()}, nil)

		_, err := svc.CreateTeam(ctx, actor, orgID, service.CreateTeamInput{
			Name:         "Platform",
			ParentTeamID: &parentID,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidScope)
	})
}

func TestUpdateTeam(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("missing team resolves before any permission check", func(t *testing.T) {
		svc, m := newTestService(t)

		teamID := uuid.New()
		m.teamRepo.EXPECT().
			FindByID(gomock.Any(), teamID).
			Return(nil, domain.ErrTeamNotFound)

		_, err := svc.UpdateTeam(ctx, actor, teamID, service.UpdateTeamInput{})
		assert.ErrorIs(t, err, domain.ErrTeamNotFound)
	})

	t.Run("patches provided fields", func(t *testing.T) {
		svc, m := newTestService(t)

		orgID := uuid.New()
		teamID := uuid.New()
		newName := "Platform Core"

		m.teamRepo.EXPECT().
			FindByID(gomock.Any(), teamID).
			Return(&model.Team{ID: teamID, OrganizationID: orgID, Name: "Platform"}, nil)
		expectMemberGate(m, actor, orgID, "admin", "update_team")
		m.teamRepo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, team *model.Team) error {
				assert.Equal(t, newName, team.Name)
				return nil
			})

		team, err := svc.UpdateTeam(ctx, actor, teamID, service.UpdateTeamInput{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, newName, team.Name)
	})
}

func TestDeleteTeam(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("removes member edges before the delete", func(t *testing.T) {
		svc, m := newTestService(t)

		orgID := uuid.New()
		teamID := uuid.New()
		memberUserID := uuid.New()

		m.teamRepo.EXPECT().
			FindByID(gomock.Any(), teamID).
			Return(&model.Team{ID: teamID, OrganizationID: orgID}, nil)
		expectMemberGate(m, actor, orgID, "admin", "delete_team")

		gomock.InOrder(
			m.teamRepo.EXPECT().
				FindMembers(gomock.Any(), teamID).
				Return([]*model.TeamMember{{TeamID: teamID, UserID: memberUserID}}, nil),
			m.authorizer.EXPECT().
				RemoveRelation(gomock.Any(), model.UserSubject(memberUserID), "member", model.TeamScope(teamID)).
				Return(nil),
			m.teamRepo.EXPECT().
				Delete(gomock.Any(), teamID).
				Return(nil),
		)

		err := svc.DeleteTeam(ctx, actor, teamID)
		require.NoError(t, err)
	})
}

func TestAddTeamMember(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()
	userID := uuid.New()

	t.Run("adds the row then the relation edge", func(t *testing.T) {
		svc, m := newTestService(t)

		orgID := uuid.New()
		teamID := uuid.New()

		m.teamRepo.EXPECT().
			FindByID(gomock.Any(), teamID).
			Return(&model.Team{ID: teamID, OrganizationID: orgID}, nil)
		expectMemberGate(m, actor, orgID, "admin", "add_team_member")

		gomock.InOrder(
			m.teamRepo.EXPECT().
				AddMember(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, tm *model.TeamMember) error {
					assert.Equal(t, teamID, tm.TeamID)
					assert.Equal(t, userID, tm.UserID)
					return nil
				}),
			m.authorizer.EXPECT().
				AddRelation(gomock.Any(), model.UserSubject(userID), "member", model.TeamScope(teamID)).
				Return(nil),
		)

		tm, err := svc.AddTeamMember(ctx, actor, teamID, userID)
		require.NoError(t, err)
		assert.Equal(t, userID, tm.UserID)
	})

	t.Run("non-member of the organization, no edge written", func(t *testing.T) {
		svc, m := newTestService(t)

		orgID := uuid.New()
		teamID := uuid.New()

		m.teamRepo.EXPECT().
			FindByID(gomock.Any(), teamID).
			Return(&model.Team{ID: teamID, OrganizationID: orgID}, nil)
		expectMemberGate(m, actor, orgID, "admin", "add_team_member")
		m.teamRepo.EXPECT().
			AddMember(gomock.Any(), gomock.Any()).
			Return(domain.ErrNotOrgMember)

		_, err := svc.AddTeamMember(ctx, actor, teamID, userID)
		assert.ErrorIs(t, err, domain.ErrNotOrgMember)
	})

	t.Run("missing team", func(t *testing.T) {
		svc, m := newTestService(t)

		teamID := uuid.New()
		m.teamRepo.EXPECT().
			FindByID(gomock.Any(), teamID).
			Return(nil, domain.ErrTeamNotFound)

		_, err := svc.AddTeamMember(ctx, actor, teamID, userID)
		assert.ErrorIs(t, err, domain.ErrTeamNotFound)
	})
}

func TestRemoveTeamMember(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()
	userID := uuid.New()

	t.Run("edge removal precedes the row delete", func(t *testing.T) {
		svc, m := newTestService(t)

		orgID := uuid.New()
		teamID := uuid.New()

		m.teamRepo.EXPECT().
			FindByID(gomock.Any(), teamID).
			Return(&model.Team{ID: teamID, OrganizationID: orgID}, nil)
		expectMemberGate(m, actor, orgID, "admin", "remove_team_member")
		m.teamRepo.EXPECT().
			FindMember(gomock.Any(), teamID, userID).
			Return(&model.TeamMember{TeamID: teamID, UserID: userID}, nil)

		gomock.InOrder(
			m.authorizer.EXPECT().
				RemoveRelation(gomock.Any(), model.UserSubject(userID), "member", model.TeamScope(teamID)).
				Return(nil),
			m.teamRepo.EXPECT().
				RemoveMember(gomock.Any(), teamID, userID).
				Return(nil),
		)

		err := svc.RemoveTeamMember(ctx, actor, teamID, userID)
		require.NoError(t, err)
	})

	t.Run("not on the team", func(t *testing.T) {
		svc, m := newTestService(t)

		orgID := uuid.New()
		teamID := uuid.New()

		m.teamRepo.EXPECT().
			FindByID(gomock.Any(), teamID).
			Return(&model.Team{ID: teamID, OrganizationID: orgID}, nil)
		expectMemberGate(m, actor, orgID, "admin", "remove_team_member")
		m.teamRepo.EXPECT().
			FindMember(gomock.Any(), teamID, userID).
			Return(nil, domain.ErrTeamMemberNotFound)

		err := svc.RemoveTeamMember(ctx, actor, teamID, userID)
		assert.ErrorIs(t, err, domain.ErrTeamMemberNotFound)
	})
}

func TestIsTeamMember(t *testing.T) {
	ctx := context.Background()
	teamID := uuid.New()
	userID := uuid.New()

	t.Run("existing row with relation edge", func(t *testing.T) {
		svc, m := newTestService(t)

		m.teamRepo.EXPECT().
			FindMember(gomock.Any(), teamID, userID).
			Return(&model.TeamMember{TeamID: teamID, UserID: userID}, nil)
		m.authorizer.EXPECT().
			HasRelation(gomock.Any(), model.UserSubject(userID), authz.RelationMember, model.TeamScope(teamID)).
			Return(true, nil)

		ok, err := svc.IsTeamMember(ctx, teamID, userID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("drifted edge does not hide the row", func(t *testing.T) {
		svc, m := newTestService(t)

		// The domain store decides; a missing edge is logged drift,
		// not a negative answer.
		m.teamRepo.EXPECT().
			FindMember(gomock.Any(), teamID, userID).
			Return(&model.TeamMember{TeamID: teamID, UserID: userID}, nil)
		m.authorizer.EXPECT().
			HasRelation(gomock.Any(), model.UserSubject(userID), authz.RelationMember, model.TeamScope(teamID)).
			Return(false, nil)

		ok, err := svc.IsTeamMember(ctx, teamID, userID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing row", func(t *testing.T) {
		svc, m := newTestService(t)

		m.teamRepo.EXPECT().
			FindMember(gomock.Any(), teamID, userID).
			Return(nil, domain.ErrTeamMemberNotFound)

		ok, err := svc.IsTeamMember(ctx, teamID, userID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
