// internal/service/organization.go
package service

import (
	"context"
	"fmt"

	"github.com/dangerclosesec/tenantcore/internal/authz"
	"github.com/dangerclosesec/tenantcore/internal/domain"
	"github.com/dangerclosesec/tenantcore/internal/model"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type CreateOrganizationInput struct {
	Name           string                 `json:"name" validate:"required"`
	Slug           string                 `json:"slug,omitempty"`
	Logo           *string                `json:"logo,omitempty"`
	AllowedDomains []string               `json:"allowed_domains,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// CreateOrganization inserts the organization with its owner
// membership row, then grants the creator role to the actor. The
// creator role grant follows the domain commit; a failed grant parks
// in the outbox.
func (s *TenantService) CreateOrganization(ctx context.Context, actor uuid.UUID, input CreateOrganizationInput) (*model.Organization, error) {
	if actor == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	// Organization creation has no org to scope to yet; when gated,
	// the check runs against the platform scope.
	if permission := s.permissions[opCreateOrganization]; permission != "" {
		if err := s.authorizer.Require(ctx, model.UserSubject(actor), permission, platformScope); err != nil {
			return nil, err
		}
	}

	orgSlug := input.Slug
	if orgSlug == "" {
		orgSlug = slug.Make(input.Name)
	}

	org := &model.Organization{
		Name:           input.Name,
		Slug:           orgSlug,
		Logo:           input.Logo,
		OwnerID:        actor,
		Status:         model.OrgStatusActive,
		AllowedDomains: input.AllowedDomains,
		Metadata:       input.Metadata,
	}

	owner := &model.Member{
		UserID: actor,
		Role:   s.config.Tenancy.CreatorRole,
		Status: model.MemberStatusActive,
	}

	if err := s.orgRepo.Create(ctx, org, owner); err != nil {
		return nil, err
	}

	s.sync.AssignRole(ctx, model.UserSubject(actor), s.config.Tenancy.CreatorRole, model.OrgScope(org.ID), actor.String())

	return org, nil
}

// GetOrganization returns one organization by id.
func (s *TenantService) GetOrganization(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	return s.orgRepo.FindByID(ctx, id)
}

// GetOrganizationBySlug resolves an organization by its slug.
func (s *TenantService) GetOrganizationBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	return s.orgRepo.FindBySlug(ctx, slug)
}

// ListOrganizationsByUser returns the organizations the user belongs
// to.
func (s *TenantService) ListOrganizationsByUser(ctx context.Context, userID uuid.UUID) ([]model.Organization, error) {
	return s.orgRepo.FindByUser(ctx, userID)
}

type UpdateOrganizationInput struct {
	Name     *string                `json:"name,omitempty"`
	Slug     *string                `json:"slug,omitempty"`
	Logo     *string                `json:"logo,omitempty"`
	Status   *model.OrgStatus       `json:"status,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// UpdateOrganization patches mutable fields only. Ownership moves
// through TransferOwnership, never through a patch.
func (s *TenantService) UpdateOrganization(ctx context.Context, actor, orgID uuid.UUID, input UpdateOrganizationInput) (*model.Organization, error) {
	if err := s.requireOperation(ctx, actor, opUpdateOrganization, orgID, nil); err != nil {
		return nil, err
	}

	if _, err := s.orgRepo.FindByID(ctx, orgID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Slug != nil {
		fields["slug"] = *input.Slug
	}
	if input.Logo != nil {
		fields["logo"] = *input.Logo
	}
	if input.Status != nil {
		fields["status"] = *input.Status
	}
	if input.Metadata != nil {
		fields["metadata"] = model.JSONMap(input.Metadata)
	}

	if len(fields) > 0 {
		if err := s.orgRepo.Patch(ctx, orgID, fields); err != nil {
			return nil, err
		}
	}

	return s.orgRepo.FindByID(ctx, orgID)
}

// TransferOwnership reassigns the organization owner. Only the current
// recorded owner may transfer, independent of any permission grants.
// The authorization-side sequence is revoke owner from the old owner,
// assign the previous-owner role to them, assign owner to the new
// owner; a crash mid-sequence can leave two owners momentarily but
// never zero.
func (s *TenantService) TransferOwnership(ctx context.Context, actor, orgID, newOwnerID uuid.UUID) error {
	if err := s.requireOperation(ctx, actor, opTransferOwnership, orgID, nil); err != nil {
		return err
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return err
	}

	if org.OwnerID != actor {
		return domain.ErrNotCurrentOwner
	}
	if newOwnerID == actor {
		return fmt.Errorf("%w: already the owner", domain.ErrConflict)
	}

	newOwner, err := s.memberRepo.FindByOrgAndUser(ctx, orgID, newOwnerID)
	if err != nil {
		return err
	}
	if !newOwner.IsActive() {
		return fmt.Errorf("%w: new owner's membership is suspended", domain.ErrForbidden)
	}

	formerOwner, err := s.memberRepo.FindByOrgAndUser(ctx, orgID, actor)
	if err != nil {
		return err
	}

	creatorRole := s.config.Tenancy.CreatorRole
	previousOwnerRole := s.config.Tenancy.PreviousOwnerRole

	// Domain mutation first: reassign owner, downgrade the former
	// owner's member role, upgrade the new owner's.
	org.OwnerID = newOwnerID
	if err := s.orgRepo.Update(ctx, org); err != nil {
		return err
	}

	formerOwner.Role = previousOwnerRole
	if err := s.memberRepo.Update(ctx, formerOwner); err != nil {
		return err
	}

	newOwner.Role = creatorRole
	if err := s.memberRepo.Update(ctx, newOwner); err != nil {
		return err
	}

	orgScope := model.OrgScope(orgID)
	s.sync.RevokeRole(ctx, model.UserSubject(actor), creatorRole, orgScope)
	s.sync.AssignRole(ctx, model.UserSubject(actor), previousOwnerRole, orgScope, actor.String())
	s.sync.AssignRole(ctx, model.UserSubject(newOwnerID), creatorRole, orgScope, actor.String())

	return nil
}

// DeleteOrganization removes the organization. Authorization-side
// cleanup runs first, best-effort, so a deleted organization stops
// granting live permissions as soon as possible; the Domain Store
// delete is the operation of record.
func (s *TenantService) DeleteOrganization(ctx context.Context, actor, orgID uuid.UUID) error {
	if err := s.requireOperation(ctx, actor, opDeleteOrganization, orgID, nil); err != nil {
		return err
	}

	if _, err := s.orgRepo.FindByID(ctx, orgID); err != nil {
		return err
	}

	orgScope := model.OrgScope(orgID)

	members, err := s.memberRepo.FindByOrganization(ctx, orgID)
	if err != nil {
		return err
	}
	for _, member := range members {
		s.sync.RevokeRole(ctx, model.UserSubject(member.UserID), member.Role, orgScope)
	}

	teams, err := s.teamRepo.FindByOrganization(ctx, orgID)
	if err != nil {
		return err
	}
	for _, team := range teams {
		teamMembers, err := s.teamRepo.FindMembers(ctx, team.ID)
		if err != nil {
			return err
		}
		for _, tm := range teamMembers {
			s.sync.RemoveRelation(ctx, model.UserSubject(tm.UserID), authz.RelationMember, model.TeamScope(team.ID))
		}
	}

	return s.orgRepo.Delete(ctx, orgID)
}
