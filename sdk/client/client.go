// Package client is the Go SDK for the tenant API. All calls carry the
// caller's bearer token; the server resolves the acting user from it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Config represents the configuration for the tenant client
type Config struct {
	// BaseURL is the base URL of the tenant service
	BaseURL string
	// Token is the bearer token presented on every request
	Token string
	// HTTPClient is an optional custom HTTP client
	HTTPClient *http.Client
	// Timeout is the default request timeout
	Timeout time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://localhost:8080",
		HTTPClient: http.DefaultClient,
		Timeout:    10 * time.Second,
	}
}

// Client is the tenant service client
type Client struct {
	config *Config
	client *http.Client
}

// NewClient creates a new tenant client with the given configuration
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		config: config,
		client: client,
	}
}

// SetToken replaces the bearer token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.config.Token = token
}

// Organization represents an organization resource
type Organization struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Slug           string                 `json:"slug"`
	Logo           *string                `json:"logo,omitempty"`
	OwnerID        string                 `json:"owner_id"`
	Status         string                 `json:"status"`
	AllowedDomains []string               `json:"allowed_domains,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// Member represents an organization membership
type Member struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	UserID         string     `json:"user_id"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	SuspendedAt    *time.Time `json:"suspended_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Team represents a team resource
type Team struct {
	ID             string                 `json:"id"`
	OrganizationID string                 `json:"organization_id"`
	Name           string                 `json:"name"`
	Slug           *string                `json:"slug,omitempty"`
	Description    *string                `json:"description,omitempty"`
	ParentTeamID   *string                `json:"parent_team_id,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// TeamMember represents a team membership row
type TeamMember struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Invitation represents an invitation resource. The cleartext token is
// only ever present in the creation response.
type Invitation struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	TeamID         *string    `json:"team_id,omitempty"`
	InviterID      string     `json:"inviter_id"`
	Message        *string    `json:"message,omitempty"`
	Status         string     `json:"status"`
	ExpiresAt      time.Time  `json:"expires_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CreateInvitationResponse carries the invitation and its one-time
// cleartext token
type CreateInvitationResponse struct {
	Invitation *Invitation `json:"invitation"`
	Token      string      `json:"token"`
}

// MemberPage is one cursor-bounded slice of an organization's members
type MemberPage struct {
	Page           []*Member `json:"page"`
	IsDone         bool      `json:"isDone"`
	ContinueCursor string    `json:"continueCursor"`
}

// BulkMemberError describes one failed row of a bulk operation
type BulkMemberError struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BulkMemberResult is the outcome of a bulk add or remove. Success
// holds the user IDs that went through.
type BulkMemberResult struct {
	Success []string          `json:"success"`
	Errors  []BulkMemberError `json:"errors"`
}

// CreateOrganizationRequest represents an organization creation request
type CreateOrganizationRequest struct {
	Name           string                 `json:"name"`
	Slug           string                 `json:"slug,omitempty"`
	Logo           *string                `json:"logo,omitempty"`
	AllowedDomains []string               `json:"allowed_domains,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// CreateOrganization creates a new organization owned by the caller
func (c *Client) CreateOrganization(ctx context.Context, req *CreateOrganizationRequest) (*Organization, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.Name == "" {
		return nil, errors.New("name is required")
	}

	var org Organization
	if err := c.post(ctx, c.config.BaseURL+"/api/organizations", req, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// GetOrganization retrieves an organization by ID
func (c *Client) GetOrganization(ctx context.Context, orgID string) (*Organization, error) {
	if orgID == "" {
		return nil, errors.New("organization id is required")
	}

	var org Organization
	if err := c.get(ctx, fmt.Sprintf("%s/api/organizations/%s", c.config.BaseURL, orgID), &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// GetOrganizationBySlug retrieves an organization by its slug
func (c *Client) GetOrganizationBySlug(ctx context.Context, slug string) (*Organization, error) {
	if slug == "" {
		return nil, errors.New("organization slug is required")
	}

	var org Organization
	if err := c.get(ctx, fmt.Sprintf("%s/api/organizations/slug/%s", c.config.BaseURL, slug), &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// ListOrganizations lists the organizations the caller belongs to
func (c *Client) ListOrganizations(ctx context.Context) ([]*Organization, error) {
	var orgs []*Organization
	if err := c.get(ctx, c.config.BaseURL+"/api/organizations", &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// UpdateOrganizationRequest is a partial update; nil fields are left
// untouched
type UpdateOrganizationRequest struct {
	Name     *string                `json:"name,omitempty"`
	Slug     *string                `json:"slug,omitempty"`
	Logo     *string                `json:"logo,omitempty"`
	Status   *string                `json:"status,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// UpdateOrganization applies a partial update to an organization
func (c *Client) UpdateOrganization(ctx context.Context, orgID string, req *UpdateOrganizationRequest) (*Organization, error) {
	if orgID == "" {
		return nil, errors.New("organization id is required")
	}
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	var org Organization
	if err := c.patch(ctx, fmt.Sprintf("%s/api/organizations/%s", c.config.BaseURL, orgID), req, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// DeleteOrganization deletes an organization
func (c *Client) DeleteOrganization(ctx context.Context, orgID string) error {
	if orgID == "" {
		return errors.New("organization id is required")
	}
	return c.delete(ctx, fmt.Sprintf("%s/api/organizations/%s", c.config.BaseURL, orgID))
}

// TransferOwnership moves ownership of the organization to another
// active member
func (c *Client) TransferOwnership(ctx context.Context, orgID, newOwnerID string) error {
	if orgID == "" || newOwnerID == "" {
		return errors.New("organization id and new owner id are required")
	}

	body := map[string]string{"new_owner_id": newOwnerID}
	return c.post(ctx, fmt.Sprintf("%s/api/organizations/%s/transfer", c.config.BaseURL, orgID), body, nil)
}

// GetUserRoles lists the roles a user holds in an organization
func (c *Client) GetUserRoles(ctx context.Context, orgID, userID string) ([]string, error) {
	if orgID == "" || userID == "" {
		return nil, errors.New("organization id and user id are required")
	}

	var resp struct {
		Roles []string `json:"roles"`
	}
	endpoint := fmt.Sprintf("%s/api/organizations/%s/users/%s/roles", c.config.BaseURL, orgID, userID)
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Roles, nil
}

// GetUserPermissions lists the permissions a user holds in an
// organization
func (c *Client) GetUserPermissions(ctx context.Context, orgID, userID string) ([]string, error) {
	if orgID == "" || userID == "" {
		return nil, errors.New("organization id and user id are required")
	}

	var resp struct {
		Permissions []string `json:"permissions"`
	}
	endpoint := fmt.Sprintf("%s/api/organizations/%s/users/%s/permissions", c.config.BaseURL, orgID, userID)
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Permissions, nil
}

// AddMemberRequest represents a member addition request
type AddMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// AddMember adds a user to an organization with a role
func (c *Client) AddMember(ctx context.Context, orgID string, req *AddMemberRequest) (*Member, error) {
	if orgID == "" {
		return nil, errors.New("organization id is required")
	}
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.UserID == "" || req.Role == "" {
		return nil, errors.New("user_id and role are required")
	}

	var member Member
	endpoint := fmt.Sprintf("%s/api/organizations/%s/members", c.config.BaseURL, orgID)
	if err := c.post(ctx, endpoint, req, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// BulkAddMembers adds several users in one call; partial failures are
// reported per row
func (c *Client) BulkAddMembers(ctx context.Context, orgID string, members []AddMemberRequest) (*BulkMemberResult, error) {
	if orgID == "" {
		return nil, errors.New("organization id is required")
	}
	if len(members) == 0 {
		return nil, errors.New("at least one member is required")
	}

	body := map[string]interface{}{"members": members}
	var result BulkMemberResult
	endpoint := fmt.Sprintf("%s/api/organizations/%s/members/bulk", c.config.BaseURL, orgID)
	if err := c.post(ctx, endpoint, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListMembers pages through an organization's members. Pass an empty
// cursor to start from the beginning.
func (c *Client) ListMembers(ctx context.Context, orgID, cursor string, pageSize int) (*MemberPage, error) {
	if orgID == "" {
		return nil, errors.New("organization id is required")
	}

	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}

	endpoint := fmt.Sprintf("%s/api/organizations/%s/members", c.config.BaseURL, orgID)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var page MemberPage
	if err := c.get(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// RemoveMember removes a user from an organization
func (c *Client) RemoveMember(ctx context.Context, orgID, userID string) error {
	if orgID == "" || userID == "" {
		return errors.New("organization id and user id are required")
	}
	return c.delete(ctx, fmt.Sprintf("%s/api/organizations/%s/members/%s", c.config.BaseURL, orgID, userID))
}

// BulkRemoveMembers removes several users in one call
func (c *Client) BulkRemoveMembers(ctx context.Context, orgID string, userIDs []string) (*BulkMemberResult, error) {
	if orgID == "" {
		return nil, errors.New("organization id is required")
	}
	if len(userIDs) == 0 {
		return nil, errors.New("at least one user id is required")
	}

	body := map[string]interface{}{"user_ids": userIDs}
	var result BulkMemberResult
	endpoint := fmt.Sprintf("%s/api/organizations/%s/members/bulk-remove", c.config.BaseURL, orgID)
	if err := c.post(ctx, endpoint, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateMemberRole changes a member's role
func (c *Client) UpdateMemberRole(ctx context.Context, orgID, userID, role string) (*Member, error) {
	if orgID == "" || userID == "" || role == "" {
		return nil, errors.New("organization id, user id, and role are required")
	}

	body := map[string]string{"role": role}
	var member Member
	endpoint := fmt.Sprintf("%s/api/organizations/%s/members/%s/role", c.config.BaseURL, orgID, userID)
	if err := c.patch(ctx, endpoint, body, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// SuspendMember suspends a member without removing their row
func (c *Client) SuspendMember(ctx context.Context, orgID, userID string) (*Member, error) {
	if orgID == "" || userID == "" {
		return nil, errors.New("organization id and user id are required")
	}

	var member Member
	endpoint := fmt.Sprintf("%s/api/organizations/%s/members/%s/suspend", c.config.BaseURL, orgID, userID)
	if err := c.post(ctx, endpoint, nil, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// UnsuspendMember restores a suspended member
func (c *Client) UnsuspendMember(ctx context.Context, orgID, userID string) (*Member, error) {
	if orgID == "" || userID == "" {
		return nil, errors.New("organization id and user id are required")
	}

	var member Member
	endpoint := fmt.Sprintf("%s/api/organizations/%s/members/%s/unsuspend", c.config.BaseURL, orgID, userID)
	if err := c.post(ctx, endpoint, nil, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// LeaveOrganization removes the caller's own membership
func (c *Client) LeaveOrganization(ctx context.Context, orgID string) error {
	if orgID == "" {
		return errors.New("organization id is required")
	}
	return c.post(ctx, fmt.Sprintf("%s/api/organizations/%s/members/leave", c.config.BaseURL, orgID), nil, nil)
}

// JoinByDomain joins an organization whose allowed domains cover the
// email domain of the caller's token
func (c *Client) JoinByDomain(ctx context.Context, orgID, role string) (*Member, error) {
	if orgID == "" {
		return nil, errors.New("organization id is required")
	}

	body := map[string]string{}
	if role != "" {
		body["role"] = role
	}

	var member Member
	endpoint := fmt.Sprintf("%s/api/organizations/%s/members/join", c.config.BaseURL, orgID)
	if err := c.post(ctx, endpoint, body, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// CreateTeamRequest represents a team creation request
type CreateTeamRequest struct {
	Name         string                 `json:"name"`
	Slug         *string                `json:"slug,omitempty"`
	Description  *string                `json:"description,omitempty"`
	ParentTeamID *string                `json:"parent_team_id,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// CreateTeam creates a team inside an organization
func (c *Client) CreateTeam(ctx context.Context, orgID string, req *CreateTeamRequest) (*Team, error) {
	if orgID == "" {
		return nil, errors.New("organization id is required")
	}
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.Name == "" {
		return nil, errors.New("name is required")
	}

	var team Team
	endpoint := fmt.Sprintf("%s/api/organizations/%s/teams", c.config.BaseURL, orgID)
	if err := c.post(ctx, endpoint, req, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// ListTeams lists an organization's teams
func (c *Client) ListTeams(ctx context.Context, orgID string) ([]*Team, error) {
	if orgID == "" {
		return nil, errors.New("organization id is required")
	}

	var teams []*Team
	endpoint := fmt.Sprintf("%s/api/organizations/%s/teams", c.config.BaseURL, orgID)
	if err := c.get(ctx, endpoint, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// GetTeam retrieves a team by ID
func (c *Client) GetTeam(ctx context.Context, teamID string) (*Team, error) {
	if teamID == "" {
		return nil, errors.New("team id is required")
	}

	var team Team
	if err := c.get(ctx, fmt.Sprintf("%s/api/teams/%s", c.config.BaseURL, teamID), &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// UpdateTeamRequest is a partial team update
type UpdateTeamRequest struct {
	Name        *string                `json:"name,omitempty"`
	Slug        *string                `json:"slug,omitempty"`
	Description *string                `json:"description,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// UpdateTeam applies a partial update to a team
func (c *Client) UpdateTeam(ctx context.Context, teamID string, req *UpdateTeamRequest) (*Team, error) {
	if teamID == "" {
		return nil, errors.New("team id is required")
	}
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	var team Team
	if err := c.patch(ctx, fmt.Sprintf("%s/api/teams/%s", c.config.BaseURL, teamID), req, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// DeleteTeam deletes a team
func (c *Client) DeleteTeam(ctx context.Context, teamID string) error {
	if teamID == "" {
		return errors.New("team id is required")
	}
	return c.delete(ctx, fmt.Sprintf("%s/api/teams/%s", c.config.BaseURL, teamID))
}

// AddTeamMember adds an organization member to a team
func (c *Client) AddTeamMember(ctx context.Context, teamID, userID string) (*TeamMember, error) {
	if teamID == "" || userID == "" {
		return nil, errors.New("team id and user id are required")
	}

	body := map[string]string{"user_id": userID}
	var member TeamMember
	endpoint := fmt.Sprintf("%s/api/teams/%s/members", c.config.BaseURL, teamID)
	if err := c.post(ctx, endpoint, body, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// ListTeamMembers lists a team's members
func (c *Client) ListTeamMembers(ctx context.Context, teamID string) ([]*TeamMember, error) {
	if teamID == "" {
		return nil, errors.New("team id is required")
	}

	var members []*TeamMember
	if err := c.get(ctx, fmt.Sprintf("%s/api/teams/%s/members", c.config.BaseURL, teamID), &members); err != nil {
		return nil, err
	}
	return members, nil
}

// RemoveTeamMember removes a user from a team
func (c *Client) RemoveTeamMember(ctx context.Context, teamID, userID string) error {
	if teamID == "" || userID == "" {
		return errors.New("team id and user id are required")
	}
	return c.delete(ctx, fmt.Sprintf("%s/api/teams/%s/members/%s", c.config.BaseURL, teamID, userID))
}

// CreateInvitationRequest represents an invitation creation request
type CreateInvitationRequest struct {
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	TeamID    *string    `json:"team_id,omitempty"`
	Message   *string    `json:"message,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// CreateInvitation invites an email address into an organization. The
// returned token is shown exactly once.
func (c *Client) CreateInvitation(ctx context.Context, orgID string, req *CreateInvitationRequest) (*CreateInvitationResponse, error) {
	if orgID == "" {
		return nil, errors.New("organization id is required")
	}
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.Email == "" || req.Role == "" {
		return nil, errors.New("email and role are required")
	}

	var resp CreateInvitationResponse
	endpoint := fmt.Sprintf("%s/api/organizations/%s/invitations", c.config.BaseURL, orgID)
	if err := c.post(ctx, endpoint, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListInvitations lists an organization's invitations
func (c *Client) ListInvitations(ctx context.Context, orgID string) ([]*Invitation, error) {
	if orgID == "" {
		return nil, errors.New("organization id is required")
	}

	var invitations []*Invitation
	endpoint := fmt.Sprintf("%s/api/organizations/%s/invitations", c.config.BaseURL, orgID)
	if err := c.get(ctx, endpoint, &invitations); err != nil {
		return nil, err
	}
	return invitations, nil
}

// AcceptInvitation accepts an invitation as the calling user
func (c *Client) AcceptInvitation(ctx context.Context, invitationID, token string) (*Member, error) {
	if invitationID == "" {
		return nil, errors.New("invitation id is required")
	}

	body := map[string]string{}
	if token != "" {
		body["token"] = token
	}

	var member Member
	endpoint := fmt.Sprintf("%s/api/invitations/%s/accept", c.config.BaseURL, invitationID)
	if err := c.post(ctx, endpoint, body, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// ResendInvitation rotates the invitation token and resends the email
func (c *Client) ResendInvitation(ctx context.Context, invitationID string) (*CreateInvitationResponse, error) {
	if invitationID == "" {
		return nil, errors.New("invitation id is required")
	}

	var resp CreateInvitationResponse
	endpoint := fmt.Sprintf("%s/api/invitations/%s/resend", c.config.BaseURL, invitationID)
	if err := c.post(ctx, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelInvitation cancels a pending invitation
func (c *Client) CancelInvitation(ctx context.Context, invitationID string) (*Invitation, error) {
	if invitationID == "" {
		return nil, errors.New("invitation id is required")
	}

	var invitation Invitation
	endpoint := fmt.Sprintf("%s/api/invitations/%s/cancel", c.config.BaseURL, invitationID)
	if err := c.post(ctx, endpoint, nil, &invitation); err != nil {
		return nil, err
	}
	return &invitation, nil
}

// APIError defines a standardized error response from the API
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"error"`
	Details    string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s (Status: %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s (Status: %d)", e.Message, e.StatusCode)
}

func (c *Client) post(ctx context.Context, endpoint string, req interface{}, resp interface{}) error {
	return c.do(ctx, http.MethodPost, endpoint, req, resp)
}

func (c *Client) patch(ctx context.Context, endpoint string, req interface{}, resp interface{}) error {
	return c.do(ctx, http.MethodPatch, endpoint, req, resp)
}

func (c *Client) get(ctx context.Context, endpoint string, resp interface{}) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, resp)
}

func (c *Client) delete(ctx context.Context, endpoint string) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

// do performs a request and unmarshals the response into resp when it
// is non-nil. Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, endpoint string, req interface{}, resp interface{}) error {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	var body *bytes.Buffer
	if req != nil {
		reqBody, err := json.Marshal(req)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(reqBody)
	} else {
		body = bytes.NewBuffer(nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		var apiErr APIError
		if err := json.NewDecoder(httpResp.Body).Decode(&apiErr); err != nil {
			return &APIError{
				StatusCode: httpResp.StatusCode,
				Message:    fmt.Sprintf("request failed with status code %d", httpResp.StatusCode),
			}
		}

		apiErr.StatusCode = httpResp.StatusCode
		return &apiErr
	}

	if resp == nil {
		return nil
	}

	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
