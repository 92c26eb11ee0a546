// internal/service/team.go
package service

import (
	"context"
	"fmt"

	"github.com/dangerclosesec/tenantcore/internal/authz"
	"github.com/dangerclosesec/tenantcore/internal/domain"
	"github.com/dangerclosesec/tenantcore/internal/model"
	"github.com/google/uuid"
)

type CreateTeamInput struct {
	Name         string                 `json:"name" validate:"required"`
	Slug         *string                `json:"slug,omitempty"`
	Description  *string                `json:"description,omitempty"`
	ParentTeamID *uuid.UUID             `json:"parent_team_id,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// CreateTeam creates a team in the organization's scope.
func (s *TenantService) CreateTeam(ctx context.Context, actor, orgID uuid.UUID, input CreateTeamInput) (*model.Team, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := s.requireOperation(ctx, actor, opCreateTeam, orgID, nil); err != nil {
		return nil, err
	}

	if _, err := s.orgRepo.FindByID(ctx, orgID); err != nil {
		return nil, err
	}

	if input.ParentTeamID != nil {
		parent, err := s.teamRepo.FindByID(ctx, *input.ParentTeamID)
		if err != nil {
			return nil, err
		}
		if parent.OrganizationID != orgID {
			return nil, fmt.Errorf("%w: parent team belongs to another organization", domain.ErrInvalidScope)
		}
	}

	team := &model.Team{
		OrganizationID: orgID,
		Name:           input.Name,
		Slug:           input.Slug,
		Description:    input.Description,
		ParentTeamID:   input.ParentTeamID,
		Metadata:       input.Metadata,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// GetTeam returns one team by id.
func (s *TenantService) GetTeam(ctx context.Context, teamID uuid.UUID) (*model.Team, error) {
	return s.teamRepo.FindByID(ctx, teamID)
}

// ListTeams returns the organization's teams.
func (s *TenantService) ListTeams(ctx context.Context, orgID uuid.UUID) ([]*model.Team, error) {
	return s.teamRepo.FindByOrganization(ctx, orgID)
}

type UpdateTeamInput struct {
	Name        *string                `json:"name,omitempty"`
	Slug        *string                `json:"slug,omitempty"`
	Description *string                `json:"description,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// UpdateTeam patches a team. The team resolves first so its
// organization can scope the permission check; a missing team is
// NotFound before any check runs.
func (s *TenantService) UpdateTeam(ctx context.Context, actor, teamID uuid.UUID, input UpdateTeamInput) (*model.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOperation(ctx, actor, opUpdateTeam, team.OrganizationID, nil); err != nil {
		return nil, err
	}

	if input.Name != nil {
		team.Name = *input.Name
	}
	if input.Slug != nil {
		team.Slug = input.Slug
	}
	if input.Description != nil {
		team.Description = input.Description
	}
	if input.Metadata != nil {
		team.Metadata = input.Metadata
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// DeleteTeam removes the team. Relation edges for every team member
// are removed first, then the store cascades the team-member rows and
// the team.
func (s *TenantService) DeleteTeam(ctx context.Context, actor, teamID uuid.UUID) error {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return err
	}
	if err := s.requireOperation(ctx, actor, opDeleteTeam, team.OrganizationID, nil); err != nil {
		return err
	}

	teamMembers, err := s.teamRepo.FindMembers(ctx, teamID)
	if err != nil {
		return err
	}
	for _, tm := range teamMembers {
		s.sync.RemoveRelation(ctx, model.UserSubject(tm.UserID), authz.RelationMember, model.TeamScope(teamID))
	}

	return s.teamRepo.Delete(ctx, teamID)
}

// AddTeamMember adds a user to a team. The user must already hold an
// active membership in the team's organization; the store enforces
// this inside the insert, so no relation edge can exist without a
// backing row.
func (s *TenantService) AddTeamMember(ctx context.Context, actor, teamID, userID uuid.UUID) (*model.TeamMember, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOperation(ctx, actor, opAddTeamMember, team.OrganizationID, nil); err != nil {
		return nil, err
	}

	teamMember := &model.TeamMember{
		TeamID: teamID,
		UserID: userID,
	}
	if err := s.teamRepo.AddMember(ctx, teamMember); err != nil {
		return nil, err
	}

	s.sync.AddRelation(ctx, model.UserSubject(userID), authz.RelationMember, model.TeamScope(teamID))

	return teamMember, nil
}

// RemoveTeamMember removes a user from a team. The relation edge goes
// first so stale authorization never outlives the row.
func (s *TenantService) RemoveTeamMember(ctx context.Context, actor, teamID, userID uuid.UUID) error {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return err
	}
	if err := s.requireOperation(ctx, actor, opRemoveTeamMember, team.OrganizationID, nil); err != nil {
		return err
	}

	if _, err := s.teamRepo.FindMember(ctx, teamID, userID); err != nil {
		return err
	}

	s.sync.RemoveRelation(ctx, model.UserSubject(userID), authz.RelationMember, model.TeamScope(teamID))

	return s.teamRepo.RemoveMember(ctx, teamID, userID)
}

// ListTeamMembers returns the team's member rows.
func (s *TenantService) ListTeamMembers(ctx context.Context, teamID uuid.UUID) ([]*model.TeamMember, error) {
	if _, err := s.teamRepo.FindByID(ctx, teamID); err != nil {
		return nil, err
	}
	return s.teamRepo.FindMembers(ctx, teamID)
}

// IsTeamMember reports whether the user has a team-member row. The
// store of record decides; the relation edge is cross-checked so drift
// the reconciler has not yet healed shows up in the logs.
func (s *TenantService) IsTeamMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	if _, err := s.teamRepo.FindMember(ctx, teamID, userID); err != nil {
		if domain.CodeOf(err) == domain.CodeNotFound {
			return false, nil
		}
		return false, err
	}

	hasEdge, err := s.authorizer.HasRelation(ctx, model.UserSubject(userID), authz.RelationMember, model.TeamScope(teamID))
	if err == nil && !hasEdge {
		s.logger.Warn("team member row has no relation edge",
			"team_id", teamID,
			"user_id", userID)
	}

	return true, nil
}
