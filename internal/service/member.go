// internal/service/member.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dangerclosesec/tenantcore/internal/authz"
	"github.com/dangerclosesec/tenantcore/internal/domain"
	"github.com/dangerclosesec/tenantcore/internal/model"
	"github.com/dangerclosesec/tenantcore/internal/repository"
	"github.com/google/uuid"
)

type AddMemberInput struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role" validate:"required"`
	// ScopeTeamID narrows the permission-check scope to a team of the
	// organization when the caller requests it.
	ScopeTeamID *uuid.UUID `json:"scope_team_id,omitempty"`
}

// AddMember creates a membership row and mirrors the role grant into
// the authorization store, attributed to the acting user.
func (s *TenantService) AddMember(ctx context.Context, actor, orgID uuid.UUID, input AddMemberInput) (*model.Member, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := s.requireOperation(ctx, actor, opAddMember, orgID, input.ScopeTeamID); err != nil {
		return nil, err
	}

	if _, err := s.orgRepo.FindByID(ctx, orgID); err != nil {
		return nil, err
	}

	return s.addMember(ctx, actor, orgID, input.UserID, input.Role)
}

// addMember is the shared domain path of AddMember, BulkAddMembers and
// invitation acceptance. Preconditions are checked before the insert;
// racing creates surface as domain.ErrMemberExists from the store's
// unique index.
func (s *TenantService) addMember(ctx context.Context, actor, orgID, userID uuid.UUID, role string) (*model.Member, error) {
	if _, err := s.memberRepo.FindByOrgAndUser(ctx, orgID, userID); err == nil {
		return nil, domain.ErrMemberExists
	}

	member := &model.Member{
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
		Status:         model.MemberStatusActive,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	s.sync.AssignRole(ctx, model.UserSubject(userID), role, model.OrgScope(orgID), actor.String())

	return member, nil
}

// BulkAddMembers processes each target independently, collecting
// per-user outcomes instead of aborting the batch.
func (s *TenantService) BulkAddMembers(ctx context.Context, actor, orgID uuid.UUID, inputs []AddMemberInput) (*BulkResult, error) {
	if err := s.requireOperation(ctx, actor, opAddMember, orgID, nil); err != nil {
		return nil, err
	}
	if _, err := s.orgRepo.FindByID(ctx, orgID); err != nil {
		return nil, err
	}

	result := newBulkResult()
	for _, input := range inputs {
		if _, err := s.addMember(ctx, actor, orgID, input.UserID, input.Role); err != nil {
			result.Errors = append(result.Errors, BulkError{
				ID:      input.UserID.String(),
				Code:    domain.CodeOf(err),
				Message: err.Error(),
			})
			continue
		}
		result.Success = append(result.Success, input.UserID.String())
	}
	return result, nil
}

// JoinByDomain adds a user to an organization whose allowed-domain
// list covers the user's email domain. The domain match is the
// authorization decision; no actor permission is checked.
func (s *TenantService) JoinByDomain(ctx context.Context, orgID, userID uuid.UUID, userEmail, role string) (*model.Member, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if org.Status != model.OrgStatusActive {
		return nil, domain.ErrDomainJoinUnavailable
	}
	if len(org.AllowedDomains) == 0 {
		return nil, fmt.Errorf("%w: organization has no allowed email domains", domain.ErrForbidden)
	}

	at := strings.LastIndex(userEmail, "@")
	if at < 0 {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}
	emailDomain := strings.ToLower(userEmail[at+1:])

	matched := false
	for _, allowed := range org.AllowedDomains {
		if strings.EqualFold(allowed, emailDomain) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, fmt.Errorf("%w: email domain %q is not allowed", domain.ErrForbidden, emailDomain)
	}

	if role == "" {
		role = s.config.Tenancy.DefaultMemberRole
	}

	// Self-join: the grant is attributed to the joining user.
	return s.addMember(ctx, userID, orgID, userID, role)
}

// ListMembers scans an organization's members with cursor pagination.
func (s *TenantService) ListMembers(ctx context.Context, orgID uuid.UUID, cursor string, pageSize int) (*repository.MemberPage, error) {
	return s.memberRepo.FindByOrganizationPage(ctx, orgID, cursor, pageSize)
}

// RemoveMember deletes a membership. Team rows and relation edges go
// first, then the member row; the role revocation follows the
// committed delete.
func (s *TenantService) RemoveMember(ctx context.Context, actor, orgID, userID uuid.UUID) error {
	if err := s.requireOperation(ctx, actor, opRemoveMember, orgID, nil); err != nil {
		return err
	}
	return s.removeMember(ctx, orgID, userID)
}

func (s *TenantService) removeMember(ctx context.Context, orgID, userID uuid.UUID) error {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return err
	}
	if org.OwnerID == userID {
		return domain.ErrCannotRemoveOwner
	}

	member, err := s.memberRepo.FindByOrgAndUser(ctx, orgID, userID)
	if err != nil {
		return err
	}

	if err := s.removeTeamMemberships(ctx, orgID, userID); err != nil {
		return err
	}

	if err := s.memberRepo.Delete(ctx, member.ID); err != nil {
		return err
	}

	s.sync.RevokeRole(ctx, model.UserSubject(userID), member.Role, model.OrgScope(orgID))

	return nil
}

// removeTeamMemberships clears every team-member row and relation edge
// the user holds across the organization's teams.
func (s *TenantService) removeTeamMemberships(ctx context.Context, orgID, userID uuid.UUID) error {
	memberships, err := s.teamRepo.FindMembershipsForUser(ctx, orgID, userID)
	if err != nil {
		return err
	}
	for _, tm := range memberships {
		s.sync.RemoveRelation(ctx, model.UserSubject(userID), authz.RelationMember, model.TeamScope(tm.TeamID))
		if err := s.teamRepo.RemoveMember(ctx, tm.TeamID, userID); err != nil {
			return err
		}
	}
	return nil
}

// BulkRemoveMembers removes each target independently; partial success
// is reported, not raised.
func (s *TenantService) BulkRemoveMembers(ctx context.Context, actor, orgID uuid.UUID, userIDs []uuid.UUID) (*BulkResult, error) {
	if err := s.requireOperation(ctx, actor, opRemoveMember, orgID, nil); err != nil {
		return nil, err
	}

	result := newBulkResult()
	for _, userID := range userIDs {
		if err := s.removeMember(ctx, orgID, userID); err != nil {
			result.Errors = append(result.Errors, BulkError{
				ID:      userID.String(),
				Code:    domain.CodeOf(err),
				Message: err.Error(),
			})
			continue
		}
		result.Success = append(result.Success, userID.String())
	}
	return result, nil
}

// UpdateMemberRole patches the member's role, then revokes the
// previous role and assigns the new one. Revoke-then-assign means a
// crash between the two leaves the user with zero org roles, never
// with both.
func (s *TenantService) UpdateMemberRole(ctx context.Context, actor, orgID, userID uuid.UUID, newRole string) (*model.Member, error) {
	if newRole == "" {
		return nil, fmt.Errorf("%w: role is required", domain.ErrInvalidInput)
	}
	if err := s.requireOperation(ctx, actor, opUpdateMemberRole, orgID, nil); err != nil {
		return nil, err
	}

	member, err := s.memberRepo.FindByOrgAndUser(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}

	previousRole := member.Role
	if previousRole == newRole {
		return member, nil
	}

	member.Role = newRole
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	orgScope := model.OrgScope(orgID)
	s.sync.RevokeRole(ctx, model.UserSubject(userID), previousRole, orgScope)
	s.sync.AssignRole(ctx, model.UserSubject(userID), newRole, orgScope, actor.String())

	return member, nil
}

// SuspendMember flags the membership suspended. Roles stay assigned;
// enforcement happens at the membership-activity check, not the
// permission layer.
func (s *TenantService) SuspendMember(ctx context.Context, actor, orgID, userID uuid.UUID) (*model.Member, error) {
	if err := s.requireOperation(ctx, actor, opSuspendMember, orgID, nil); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org.OwnerID == userID {
		return nil, fmt.Errorf("%w: cannot suspend the organization owner", domain.ErrForbidden)
	}

	member, err := s.memberRepo.FindByOrgAndUser(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	member.Status = model.MemberStatusSuspended
	member.SuspendedAt = &now
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// UnsuspendMember reverses a suspension.
func (s *TenantService) UnsuspendMember(ctx context.Context, actor, orgID, userID uuid.UUID) (*model.Member, error) {
	if err := s.requireOperation(ctx, actor, opUnsuspendMember, orgID, nil); err != nil {
		return nil, err
	}

	member, err := s.memberRepo.FindByOrgAndUser(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}

	member.Status = model.MemberStatusActive
	member.SuspendedAt = nil
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// LeaveOrganization removes the actor's own membership. The last
// active holder of the creator role cannot leave.
func (s *TenantService) LeaveOrganization(ctx context.Context, actor, orgID uuid.UUID) error {
	if actor == uuid.Nil {
		return domain.ErrUnauthorized
	}

	member, err := s.memberRepo.FindByOrgAndUser(ctx, orgID, actor)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return fmt.Errorf("%w: not a member", domain.ErrNotFound)
		}
		return err
	}

	creatorRole := s.config.Tenancy.CreatorRole
	if member.Role == creatorRole {
		count, err := s.memberRepo.CountActiveByOrgAndRole(ctx, orgID, creatorRole)
		if err != nil {
			return err
		}
		if count <= 1 {
			return domain.ErrLastOwner
		}
	}

	if err := s.removeTeamMemberships(ctx, orgID, actor); err != nil {
		return err
	}

	if err := s.memberRepo.Delete(ctx, member.ID); err != nil {
		return err
	}

	s.sync.RevokeRole(ctx, model.UserSubject(actor), member.Role, model.OrgScope(orgID))

	return nil
}
