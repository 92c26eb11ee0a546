package service_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/dangerclosesec/tenantcore/internal/mocks"
	"github.com/dangerclosesec/tenantcore/internal/model"
	"github.com/dangerclosesec/tenantcore/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSyncReconcilerReplayOnce(t *testing.T) {
	ctx := context.Background()

	orgID := uuid.New()
	userID := uuid.New()

	assignFailure := func() *model.AuthzSyncFailure {
		return &model.AuthzSyncFailure{
			ID:          uuid.New(),
			Operation:   model.SyncAssignRole,
			EntityType:  "organization",
			EntityID:    orgID.String(),
			Relation:    "editor",
			SubjectType: "user",
			SubjectID:   userID.String(),
			GrantedBy:   uuid.New().String(),
		}
	}

	t.Run("replays and resolves", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		failures := mocks.NewMockSyncFailureRepositoryIface(ctrl)
		authorizer := mocks.NewMockAuthorizer(ctrl)

		failure := assignFailure()
		gomock.InOrder(
			failures.EXPECT().
				FindUnresolved(gomock.Any(), 100).
				Return([]*model.AuthzSyncFailure{failure}, nil),
			authorizer.EXPECT().
				AssignRole(gomock.Any(), model.UserSubject(userID), "editor", model.OrgScope(orgID), failure.GrantedBy, nil).
				Return(nil),
			failures.EXPECT().
				MarkResolved(gomock.Any(), failure.ID).
				Return(nil),
		)

		r := service.NewSyncReconciler(failures, authorizer, 0, slog.Default())
		resolved, err := r.ReplayOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, resolved)
	})

	t.Run("failed replay records the attempt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		failures := mocks.NewMockSyncFailureRepositoryIface(ctrl)
		authorizer := mocks.NewMockAuthorizer(ctrl)

		failure := assignFailure()
		gomock.InOrder(
			failures.EXPECT().
				FindUnresolved(gomock.Any(), 100).
				Return([]*model.AuthzSyncFailure{failure}, nil),
			authorizer.EXPECT().
				AssignRole(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(assert.AnError),
			failures.EXPECT().
				RecordAttempt(gomock.Any(), failure.ID, assert.AnError.Error()).
				Return(nil),
		)

		r := service.NewSyncReconciler(failures, authorizer, 0, slog.Default())
		resolved, err := r.ReplayOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, resolved)
	})

	t.Run("dry run touches nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		failures := mocks.NewMockSyncFailureRepositoryIface(ctrl)
		authorizer := mocks.NewMockAuthorizer(ctrl)

		failures.EXPECT().
			FindUnresolved(gomock.Any(), 100).
			Return([]*model.AuthzSyncFailure{assignFailure()}, nil)

		r := service.NewSyncReconciler(failures, authorizer, 0, slog.Default())
		r.SetDryRun(true)
		resolved, err := r.ReplayOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, resolved)
	})

	t.Run("relation removal replays", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		failures := mocks.NewMockSyncFailureRepositoryIface(ctrl)
		authorizer := mocks.NewMockAuthorizer(ctrl)

		teamID := uuid.New()
		failure := &model.AuthzSyncFailure{
			ID:          uuid.New(),
			Operation:   model.SyncRemoveRelation,
			EntityType:  "team",
			EntityID:    teamID.String(),
			Relation:    "member",
			SubjectType: "user",
			SubjectID:   userID.String(),
		}

		gomock.InOrder(
			failures.EXPECT().
				FindUnresolved(gomock.Any(), 100).
				Return([]*model.AuthzSyncFailure{failure}, nil),
			authorizer.EXPECT().
				RemoveRelation(gomock.Any(), model.UserSubject(userID), "member", model.TeamScope(teamID)).
				Return(nil),
			failures.EXPECT().
				MarkResolved(gomock.Any(), failure.ID).
				Return(nil),
		)

		r := service.NewSyncReconciler(failures, authorizer, 0, slog.Default())
		resolved, err := r.ReplayOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, resolved)
	})
}
