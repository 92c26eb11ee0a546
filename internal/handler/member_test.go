package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dangerclosesec/tenantcore/internal/config"
	"github.com/dangerclosesec/tenantcore/internal/domain"
	"github.com/dangerclosesec/tenantcore/internal/handler"
	"github.com/dangerclosesec/tenantcore/internal/middleware"
	"github.com/dangerclosesec/tenantcore/internal/mocks"
	"github.com/dangerclosesec/tenantcore/internal/model"
	"github.com/dangerclosesec/tenantcore/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type handlerMocks struct {
	orgRepo    *mocks.MockOrganizationRepositoryIface
	memberRepo *mocks.MockMemberRepositoryIface
	authorizer *mocks.MockAuthorizer
}

func newMemberHandler(t *testing.T) (*handler.MemberHandler, *handlerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &handlerMocks{
		orgRepo:    mocks.NewMockOrganizationRepositoryIface(ctrl),
		memberRepo: mocks.NewMockMemberRepositoryIface(ctrl),
		authorizer: mocks.NewMockAuthorizer(ctrl),
	}

	cfg := &config.Config{}
	cfg.Tenancy.CreatorRole = "owner"
	cfg.Tenancy.DefaultMemberRole = "member"
	cfg.Tenancy.InviteTTL = 48 * time.Hour
	cfg.Permissions = config.DefaultPermissionMap()

	svc := service.NewTenantService(
		m.orgRepo, m.memberRepo,
		mocks.NewMockTeamRepositoryIface(ctrl),
		mocks.NewMockInvitationRepositoryIface(ctrl),
		m.authorizer,
		mocks.NewMockSyncFailureRepositoryIface(ctrl),
		nil, cfg,
	)
	return handler.NewMemberHandler(svc), m
}

// joinRequest builds an authenticated join request the way the auth
// middleware would hand it over: user id and email claims in context.
func joinRequest(orgID uuid.UUID, userID uuid.UUID, claimEmail, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost,
		"/api/organizations/"+orgID.String()+"/members/join",
		strings.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("orgID", orgID.String())

	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.UserIDKey, userID.String())
	if claimEmail != "" {
		ctx = context.WithValue(ctx, middleware.UserEmailKey, claimEmail)
	}
	return r.WithContext(ctx)
}

func TestJoinByDomainUsesTokenEmail(t *testing.T) {
	orgID := uuid.New()
	userID := uuid.New()

	org := &model.Organization{
		ID:             orgID,
		Status:         model.OrgStatusActive,
		AllowedDomains: model.StringList{"corp.example"},
	}

	t.Run("claim email joins", func(t *testing.T) {
		h, m := newMemberHandler(t)

		m.orgRepo.EXPECT().FindByID(gomock.Any(), orgID).Return(org, nil)
		m.memberRepo.EXPECT().
			FindByOrgAndUser(gomock.Any(), orgID, userID).
			Return(nil, domain.ErrMemberNotFound)
		m.memberRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(nil)
		m.authorizer.EXPECT().
			AssignRole(gomock.Any(), model.UserSubject(userID), "member", model.OrgScope(orgID), userID.String(), nil).
			Return(nil)

		rec := httptest.NewRecorder()
		h.JoinByDomain(rec, joinRequest(orgID, userID, "dev@corp.example", `{}`))

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("body email cannot override the claim", func(t *testing.T) {
		h, m := newMemberHandler(t)

		// Claim email is off-domain; a matching email in the body must
		// not be honored, so no member row is ever created.
		m.orgRepo.EXPECT().FindByID(gomock.Any(), orgID).Return(org, nil)

		rec := httptest.NewRecorder()
		h.JoinByDomain(rec, joinRequest(orgID, userID, "dev@elsewhere.example",
			`{"email":"spoof@corp.example"}`))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("token without email claim", func(t *testing.T) {
		h, _ := newMemberHandler(t)

		rec := httptest.NewRecorder()
		h.JoinByDomain(rec, joinRequest(orgID, userID, "", `{}`))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
