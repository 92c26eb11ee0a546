// internal/service/invitation.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dangerclosesec/tenantcore/internal/authz"
	"github.com/dangerclosesec/tenantcore/internal/domain"
	"github.com/dangerclosesec/tenantcore/internal/email/mailer"
	"github.com/dangerclosesec/tenantcore/internal/model"
	"github.com/google/uuid"
)

type InviteMemberInput struct {
	Email   string     `json:"email" validate:"required,email"`
	Role    string     `json:"role" validate:"required"`
	TeamID  *uuid.UUID `json:"team_id,omitempty"`
	Message *string    `json:"message,omitempty"`
	// ExpiresAt overrides the configured TTL when set.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type InviteMemberOutput struct {
	Invitation *model.Invitation `json:"invitation"`
	// Token is the cleartext accept token. It is returned exactly once;
	// only its hash is stored.
	Token string `json:"token"`
}

// InviteMember creates a pending invitation and delivers it. At most
// one pending invitation may exist per (organization, normalized
// email) pair, whatever role it asks for.
func (s *TenantService) InviteMember(ctx context.Context, actor, orgID uuid.UUID, input InviteMemberInput) (*InviteMemberOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := s.requireOperation(ctx, actor, opInviteMember, orgID, nil); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if input.TeamID != nil {
		team, err := s.teamRepo.FindByID(ctx, *input.TeamID)
		if err != nil {
			return nil, err
		}
		if team.OrganizationID != orgID {
			return nil, fmt.Errorf("%w: team belongs to another organization", domain.ErrInvalidScope)
		}
	}

	normalizedEmail := normalizeEmail(input.Email)

	if _, err := s.inviteRepo.FindPendingByOrgAndEmail(ctx, orgID, normalizedEmail); err == nil {
		return nil, domain.ErrInvitationPending
	}

	token, err := s.tokenHasher.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("generating invitation token: %w", err)
	}
	tokenHash, err := s.tokenHasher.Hash(token)
	if err != nil {
		return nil, fmt.Errorf("hashing invitation token: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.config.Tenancy.InviteTTL)
	if input.ExpiresAt != nil {
		expiresAt = *input.ExpiresAt
	}

	invitation := &model.Invitation{
		OrganizationID: orgID,
		Email:          normalizedEmail,
		Role:           input.Role,
		TeamID:         input.TeamID,
		InviterID:      actor,
		Message:        input.Message,
		Status:         model.InvitationPending,
		TokenHash:      tokenHash,
		ExpiresAt:      expiresAt,
	}
	if err := s.inviteRepo.Create(ctx, invitation); err != nil {
		return nil, err
	}

	s.deliverInvitation(org, invitation, token)

	return &InviteMemberOutput{Invitation: invitation, Token: token}, nil
}

// deliverInvitation sends the invite email. Delivery is a side
// channel; failures are logged, the invitation stands.
func (s *TenantService) deliverInvitation(org *model.Organization, invitation *model.Invitation, token string) {
	if s.emailSvc == nil {
		return
	}

	message := ""
	if invitation.Message != nil {
		message = *invitation.Message
	}

	data := mailer.InvitationTemplateData{
		OrganizationName: org.Name,
		InviterName:      invitation.InviterID.String(),
		Role:             invitation.Role,
		Message:          message,
		AcceptLink: fmt.Sprintf("%s/invitations/%s/accept?token=%s",
			s.config.BaseURL, invitation.ID, token),
		ExpiresAt: invitation.ExpiresAt.Format(time.RFC1123),
	}

	if err := mailer.SendInvitationEmail(s.emailSvc, invitation.Email, org.ID.String(), data); err != nil {
		s.logger.Error("failed to deliver invitation email",
			"invitation_id", invitation.ID,
			"error", err,
		)
	}
}

type AcceptInvitationInput struct {
	// Token is the cleartext accept token from the invitation email.
	// Required when the invitation was issued with one.
	Token string `json:"token,omitempty"`
}

// AcceptInvitation drives pending -> accepted. Acceptance is
// self-authorizing: possession of the invitation id and token stands
// in for a permission check. The domain transition commits first; the
// role grant and team edge follow and are never rolled back, because
// the acceptance itself cannot be un-happened.
func (s *TenantService) AcceptInvitation(ctx context.Context, invitationID, acceptingUserID uuid.UUID, input AcceptInvitationInput) (*model.Member, error) {
	if acceptingUserID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}

	invitation, err := s.inviteRepo.FindByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	switch invitation.Status {
	case model.InvitationAccepted:
		return nil, domain.ErrInvitationAccepted
	case model.InvitationCancelled:
		return nil, domain.ErrInvitationCancelled
	}

	// Expiry is checked on every touch, regardless of stored status.
	if invitation.IsExpired(time.Now().UTC()) {
		return nil, domain.ErrInvitationExpired
	}

	if invitation.TokenHash != "" {
		ok, err := s.tokenHasher.Verify(input.Token, invitation.TokenHash)
		if err != nil || !ok {
			return nil, domain.ErrInvalidInviteToken
		}
	}

	now := time.Now().UTC()
	invitation.Status = model.InvitationAccepted
	invitation.AcceptedAt = &now
	if err := s.inviteRepo.Update(ctx, invitation); err != nil {
		return nil, err
	}

	member, err := s.acceptMembership(ctx, invitation, acceptingUserID)
	if err != nil {
		return nil, err
	}

	// Authorization sync follows the committed acceptance, attributed
	// to the original inviter.
	s.sync.AssignRole(ctx,
		model.UserSubject(acceptingUserID),
		invitation.Role,
		model.OrgScope(invitation.OrganizationID),
		invitation.InviterID.String(),
	)
	if invitation.TeamID != nil {
		s.sync.AddRelation(ctx,
			model.UserSubject(acceptingUserID),
			authz.RelationMember,
			model.TeamScope(*invitation.TeamID),
		)
	}

	return member, nil
}

// acceptMembership creates or updates the member row for an accepted
// invitation, and lands the user in the named team when there is one.
func (s *TenantService) acceptMembership(ctx context.Context, invitation *model.Invitation, userID uuid.UUID) (*model.Member, error) {
	member, err := s.memberRepo.FindByOrgAndUser(ctx, invitation.OrganizationID, userID)
	switch {
	case err == nil:
		member.Role = invitation.Role
		if err := s.memberRepo.Update(ctx, member); err != nil {
			return nil, err
		}
	case !errors.Is(err, domain.ErrMemberNotFound):
		return nil, err
	default:
		member = &model.Member{
			OrganizationID: invitation.OrganizationID,
			UserID:         userID,
			Role:           invitation.Role,
			Status:         model.MemberStatusActive,
		}
		if err := s.memberRepo.Create(ctx, member); err != nil {
			return nil, err
		}
	}

	if invitation.TeamID != nil {
		teamMember := &model.TeamMember{
			TeamID: *invitation.TeamID,
			UserID: userID,
		}
		if err := s.teamRepo.AddMember(ctx, teamMember); err != nil {
			// Already on the team is fine; anything else is logged and
			// left to reconciliation, the acceptance stands.
			if domain.CodeOf(err) != domain.CodeAlreadyExists {
				s.logger.Error("failed to add accepted invitee to team",
					"invitation_id", invitation.ID,
					"team_id", *invitation.TeamID,
					"error", err,
				)
			}
		}
	}

	return member, nil
}

// ResendInvitation rotates the expiry and token of a pending
// invitation and re-delivers it. Status never changes on resend.
func (s *TenantService) ResendInvitation(ctx context.Context, actor, invitationID uuid.UUID) (*InviteMemberOutput, error) {
	invitation, err := s.inviteRepo.FindByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOperation(ctx, actor, opResendInvitation, invitation.OrganizationID, nil); err != nil {
		return nil, err
	}

	switch invitation.Status {
	case model.InvitationCancelled:
		return nil, fmt.Errorf("%w: cannot resend cancelled invitation", domain.ErrInvitationCancelled)
	case model.InvitationAccepted:
		return nil, domain.ErrInvitationAccepted
	}

	if invitation.IsExpired(time.Now().UTC()) {
		return nil, domain.ErrInvitationExpired
	}

	org, err := s.orgRepo.FindByID(ctx, invitation.OrganizationID)
	if err != nil {
		return nil, err
	}

	token, err := s.tokenHasher.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("generating invitation token: %w", err)
	}
	tokenHash, err := s.tokenHasher.Hash(token)
	if err != nil {
		return nil, fmt.Errorf("hashing invitation token: %w", err)
	}

	invitation.TokenHash = tokenHash
	invitation.ExpiresAt = time.Now().UTC().Add(s.config.Tenancy.InviteTTL)
	if err := s.inviteRepo.Update(ctx, invitation); err != nil {
		return nil, err
	}

	s.deliverInvitation(org, invitation, token)

	return &InviteMemberOutput{Invitation: invitation, Token: token}, nil
}

// CancelInvitation drives pending -> cancelled. Accepted invitations
// are terminal and cannot be cancelled.
func (s *TenantService) CancelInvitation(ctx context.Context, actor, invitationID uuid.UUID) (*model.Invitation, error) {
	invitation, err := s.inviteRepo.FindByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOperation(ctx, actor, opCancelInvitation, invitation.OrganizationID, nil); err != nil {
		return nil, err
	}

	switch invitation.Status {
	case model.InvitationCancelled:
		return nil, domain.ErrInvitationCancelled
	case model.InvitationAccepted:
		return nil, domain.ErrInvitationAccepted
	}

	invitation.Status = model.InvitationCancelled
	if err := s.inviteRepo.Update(ctx, invitation); err != nil {
		return nil, err
	}
	return invitation, nil
}

// ListInvitations returns an organization's invitations, newest first.
func (s *TenantService) ListInvitations(ctx context.Context, orgID uuid.UUID) ([]*model.Invitation, error) {
	return s.inviteRepo.FindByOrganization(ctx, orgID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
