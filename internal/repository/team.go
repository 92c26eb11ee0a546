// internal/repository/team.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dangerclosesec/tenantcore/internal/domain"
	"github.com/dangerclosesec/tenantcore/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamRepositoryIface interface {
	Create(ctx context.Context, team *model.Team) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Team, error)
	FindByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Team, error)
	Update(ctx context.Context, team *model.Team) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, teamMember *model.TeamMember) error
	FindMember(ctx context.Context, teamID, userID uuid.UUID) (*model.TeamMember, error)
	FindMembers(ctx context.Context, teamID uuid.UUID) ([]*model.TeamMember, error)
	FindMembershipsForUser(ctx context.Context, orgID, userID uuid.UUID) ([]*model.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
}

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, team *model.Team) error {
	if err := r.db.WithContext(ctx).Create(team).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("creating team: %w", err)
	}
	return nil
}

func (r *TeamRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Team, error) {
	var team model.Team
	if err := r.db.WithContext(ctx).First(&team, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, fmt.Errorf("finding team: %w", err)
	}
	return &team, nil
}

func (r *TeamRepository) FindByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Team, error) {
	var teams []*model.Team
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at ASC").
		Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("finding organization teams: %w", err)
	}
	return teams, nil
}

func (r *TeamRepository) Update(ctx context.Context, team *model.Team) error {
	if err := r.db.WithContext(ctx).Save(team).Error; err != nil {
		return fmt.Errorf("updating team: %w", err)
	}
	return nil
}

// Delete removes the team and its team-member rows in one store
// transaction. Relation-store edges are the orchestrator's concern.
func (r *TeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&model.TeamMember{}).Error; err != nil {
			return fmt.Errorf("deleting team members: %w", err)
		}

		if err := tx.Delete(&model.Team{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting team: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// AddMember inserts a team-member row. The join against members
// enforces that the user is an active member of the team's
// organization at write time.
func (r *TeamRepository) AddMember(ctx context.Context, teamMember *model.TeamMember) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var team model.Team
		if err := tx.First(&team, "id = ?", teamMember.TeamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTeamNotFound
			}
			return fmt.Errorf("finding team: %w", err)
		}

		var count int64
		if err := tx.Model(&model.Member{}).
			Where("organization_id = ? AND user_id = ? AND status = ?",
				team.OrganizationID, teamMember.UserID, model.MemberStatusActive).
			Count(&count).Error; err != nil {
			return fmt.Errorf("checking organization membership: %w", err)
		}
		if count == 0 {
			return domain.ErrNotOrgMember
		}

		if err := tx.Create(teamMember).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrTeamMemberExists
			}
			return fmt.Errorf("creating team member: %w", err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) ||
			errors.Is(err, domain.ErrNotOrgMember) ||
			errors.Is(err, domain.ErrTeamMemberExists) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

func (r *TeamRepository) FindMember(ctx context.Context, teamID, userID uuid.UUID) (*model.TeamMember, error) {
	var teamMember model.TeamMember
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&teamMember).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTeamMemberNotFound
		}
		return nil, fmt.Errorf("finding team member: %w", err)
	}
	return &teamMember, nil
}

func (r *TeamRepository) FindMembers(ctx context.Context, teamID uuid.UUID) ([]*model.TeamMember, error) {
	var teamMembers []*model.TeamMember
	if err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Find(&teamMembers).Error; err != nil {
		return nil, fmt.Errorf("finding team members: %w", err)
	}
	return teamMembers, nil
}

// FindMembershipsForUser returns every team-member row the user holds
// across the organization's teams.
func (r *TeamRepository) FindMembershipsForUser(ctx context.Context, orgID, userID uuid.UUID) ([]*model.TeamMember, error) {
	var teamMembers []*model.TeamMember
	if err := r.db.WithContext(ctx).
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("teams.organization_id = ? AND team_members.user_id = ?", orgID, userID).
		Find(&teamMembers).Error; err != nil {
		return nil, fmt.Errorf("finding user team memberships: %w", err)
	}
	return teamMembers, nil
}

func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&model.TeamMember{})
	if result.Error != nil {
		return fmt.Errorf("deleting team member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTeamMemberNotFound
	}
	return nil
}
