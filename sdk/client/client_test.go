package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	c := NewClient(&Config{
		BaseURL: server.URL,
		Token:   "test-token",
		Timeout: 5 * time.Second,
	})
	return c, server
}

func TestCreateOrganization(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/organizations", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req CreateOrganizationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Acme Rockets", req.Name)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Organization{
			ID:      "7f8b9c0d-0000-0000-0000-000000000001",
			Name:    req.Name,
			Slug:    "acme-rockets",
			OwnerID: "7f8b9c0d-0000-0000-0000-000000000002",
			Status:  "active",
		})
	})

	c, server := newTestClient(handler)
	defer server.Close()

	org, err := c.CreateOrganization(context.Background(), &CreateOrganizationRequest{Name: "Acme Rockets"})
	require.NoError(t, err)
	assert.Equal(t, "acme-rockets", org.Slug)
	assert.Equal(t, "active", org.Status)
}

func TestCreateOrganizationValidation(t *testing.T) {
	c := NewClient(nil)

	_, err := c.CreateOrganization(context.Background(), nil)
	assert.EqualError(t, err, "request cannot be nil")

	_, err = c.CreateOrganization(context.Background(), &CreateOrganizationRequest{})
	assert.EqualError(t, err, "name is required")
}

func TestAPIErrorDecoding(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"ok":false,"error":"organization slug already in use","code":"ALREADY_EXISTS"}`))
	})

	c, server := newTestClient(handler)
	defer server.Close()

	_, err := c.CreateOrganization(context.Background(), &CreateOrganizationRequest{Name: "Acme"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "ALREADY_EXISTS", apiErr.Code)
	assert.Contains(t, apiErr.Message, "already in use")
}

func TestAPIErrorUnparseableBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	})

	c, server := newTestClient(handler)
	defer server.Close()

	_, err := c.GetOrganization(context.Background(), "some-id")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestListMembersPagination(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/organizations/org-1/members", r.URL.Path)
		assert.Equal(t, "abc", r.URL.Query().Get("cursor"))
		assert.Equal(t, "2", r.URL.Query().Get("page_size"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(MemberPage{
			Page: []*Member{
				{ID: "m1", UserID: "u1", Role: "admin", Status: "active"},
				{ID: "m2", UserID: "u2", Role: "member", Status: "active"},
			},
			IsDone:         false,
			ContinueCursor: "def",
		})
	})

	c, server := newTestClient(handler)
	defer server.Close()

	page, err := c.ListMembers(context.Background(), "org-1", "abc", 2)
	require.NoError(t, err)
	assert.Len(t, page.Page, 2)
	assert.False(t, page.IsDone)
	assert.Equal(t, "def", page.ContinueCursor)
}

func TestBulkAddMembersPartialFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/organizations/org-1/members/bulk", r.URL.Path)

		var req struct {
			Members []AddMemberRequest `json:"members"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Members, 2)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(BulkMemberResult{
			Success: []string{req.Members[0].UserID},
			Errors: []BulkMemberError{
				{ID: req.Members[1].UserID, Code: "ALREADY_EXISTS", Message: "user is already a member"},
			},
		})
	})

	c, server := newTestClient(handler)
	defer server.Close()

	result, err := c.BulkAddMembers(context.Background(), "org-1", []AddMemberRequest{
		{UserID: "u1", Role: "member"},
		{UserID: "u2", Role: "member"},
	})
	require.NoError(t, err)
	assert.Len(t, result.Success, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "ALREADY_EXISTS", result.Errors[0].Code)
}

func TestUpdateMemberRole(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/organizations/org-1/members/u1/role", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "admin", req["role"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Member{ID: "m1", UserID: "u1", Role: "admin", Status: "active"})
	})

	c, server := newTestClient(handler)
	defer server.Close()

	member, err := c.UpdateMemberRole(context.Background(), "org-1", "u1", "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", member.Role)
}

func TestCreateInvitationReturnsToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/organizations/org-1/invitations", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(CreateInvitationResponse{
			Invitation: &Invitation{
				ID:     "inv-1",
				Email:  "dev@example.com",
				Role:   "member",
				Status: "pending",
			},
			Token: "one-time-token",
		})
	})

	c, server := newTestClient(handler)
	defer server.Close()

	resp, err := c.CreateInvitation(context.Background(), "org-1", &CreateInvitationRequest{
		Email: "dev@example.com",
		Role:  "member",
	})
	require.NoError(t, err)
	assert.Equal(t, "one-time-token", resp.Token)
	assert.Equal(t, "pending", resp.Invitation.Status)
}

func TestAcceptInvitation(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/invitations/inv-1/accept", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "one-time-token", req["token"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Member{ID: "m1", UserID: "u1", Role: "member", Status: "active"})
	})

	c, server := newTestClient(handler)
	defer server.Close()

	member, err := c.AcceptInvitation(context.Background(), "inv-1", "one-time-token")
	require.NoError(t, err)
	assert.Equal(t, "member", member.Role)
}

func TestDeleteTeam(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/teams/team-1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	c, server := newTestClient(handler)
	defer server.Close()

	require.NoError(t, c.DeleteTeam(context.Background(), "team-1"))
}

func TestGetUserRoles(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/organizations/org-1/users/u1/roles", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"roles":["admin"]}`))
	})

	c, server := newTestClient(handler)
	defer server.Close()

	roles, err := c.GetUserRoles(context.Background(), "org-1", "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, roles)
}

func TestRequestValidation(t *testing.T) {
	c := NewClient(nil)
	ctx := context.Background()

	_, err := c.GetOrganization(ctx, "")
	assert.Error(t, err)

	_, err = c.AddMember(ctx, "org-1", &AddMemberRequest{UserID: "u1"})
	assert.EqualError(t, err, "user_id and role are required")

	err = c.RemoveTeamMember(ctx, "team-1", "")
	assert.Error(t, err)

	_, err = c.BulkRemoveMembers(ctx, "org-1", nil)
	assert.EqualError(t, err, "at least one user id is required")
}
