// internal/repository/member.go
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

type MemberRepositoryIface interface {
	Create(ctx context.Context, member *model.Member) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error)
	FindByOrgAndUser(ctx context.Context, orgID, userID uuid.UUID) (*model.Member, error)
	FindByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Member, error)
	FindByOrganizationPage(ctx context.Context, orgID uuid.UUID, cursor string, pageSize int) (*MemberPage, error)
	CountActiveByOrgAndRole(ctx context.Context, orgID uuid.UUID, role string) (int64, error)
	Update(ctx context.Context, member *model.Member) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemberPage is one cursor-bounded slice of an organization's member
// list.
type MemberPage struct {
	Page           []*model.Member `json:"page"`
	IsDone         bool            `json:"isDone"`
	ContinueCursor string          `json:"continueCursor"`
}

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(ctx context.Context, member *model.Member) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrMemberExists
		}
		return fmt.Errorf("creating member: %w", err)
	}
	return nil
}

func (r *MemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("finding member: %w", err)
	}
	return &member, nil
}

// FindByOrgAndUser is the indexed unique lookup on the composite
// (organizationId, userId) key.
func (r *MemberRepository) FindByOrgAndUser(ctx context.Context, orgID, userID uuid.UUID) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("finding member: %w", err)
	}
	return &member, nil
}

func (r *MemberRepository) FindByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Member, error) {
	var members []*model.Member
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, fmt.Errorf("finding organization members: %w", err)
	}
	return members, nil
}

// FindByOrganizationPage scans members in id order with a bounded page
// size. The cursor is the last id of the previous page.
func (r *MemberRepository) FindByOrganizationPage(ctx context.Context, orgID uuid.UUID, cursor string, pageSize int) (*MemberPage, error) {
	pageSize = clampPageSize(pageSize)

	query := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("id ASC").
		Limit(pageSize + 1)

	if cursor != "" {
		cursorID, err := uuid.Parse(cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid cursor", domain.ErrInvalidInput)
		}
		query = query.Where("id > ?", cursorID)
	}

	var members []*model.Member
	if err := query.Find(&members).Error; err != nil {
		return nil, fmt.Errorf("paginating organization members: %w", err)
	}

	page := &MemberPage{IsDone: true}
	if len(members) > pageSize {
		members = members[:pageSize]
		page.IsDone = false
		page.ContinueCursor = members[len(members)-1].ID.String()
	}
	page.Page = members
	return page, nil
}

// CountActiveByOrgAndRole counts active members holding role in the
// organization. Used to guard the sole-owner invariant.
func (r *MemberRepository) CountActiveByOrgAndRole(ctx context.Context, orgID uuid.UUID, role string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Member{}).
		Where("organization_id = ? AND role = ? AND status = ?", orgID, role, model.MemberStatusActive).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting members by role: %w", err)
	}
	return count, nil
}

func (r *MemberRepository) Update(ctx context.Context, member *model.Member) error {
	if err := r.db.WithContext(ctx).Save(member).Error; err != nil {
		return fmt.Errorf("updating member: %w", err)
	}
	return nil
}

func (r *MemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Member{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("deleting member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}
