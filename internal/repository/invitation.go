// internal/repository/invitation.go
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

type InvitationRepositoryIface interface {
	Create(ctx context.Context, invitation *model.Invitation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error)
	FindPendingByOrgAndEmail(ctx context.Context, orgID uuid.UUID, email string) (*model.Invitation, error)
	FindByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Invitation, error)
	Update(ctx context.Context, invitation *model.Invitation) error
}

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// Create inserts a pending invitation. The partial unique index on
// (organization_id, email) where status = 'pending' resolves racing
// duplicate invites.
func (r *InvitationRepository) Create(ctx context.Context, invitation *model.Invitation) error {
	if err := r.db.WithContext(ctx).Create(invitation).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvitationPending
		}
		return fmt.Errorf("creating invitation: %w", err)
	}
	return nil
}

func (r *InvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error) {
	var invitation model.Invitation
	if err := r.db.WithContext(ctx).First(&invitation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("finding invitation: %w", err)
	}
	return &invitation, nil
}

func (r *InvitationRepository) FindPendingByOrgAndEmail(ctx context.Context, orgID uuid.UUID, email string) (*model.Invitation, error) {
	var invitation model.Invitation
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND email = ? AND status = ?", orgID, email, model.InvitationPending).
		First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("finding pending invitation: %w", err)
	}
	return &invitation, nil
}

func (r *InvitationRepository) FindByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Invitation, error) {
	var invitations []*model.Invitation
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, fmt.Errorf("finding organization invitations: %w", err)
	}
	return invitations, nil
}

func (r *InvitationRepository) Update(ctx context.Context, invitation *model.Invitation) error {
	if err := r.db.WithContext(ctx).Save(invitation).Error; err != nil {
		return fmt.Errorf("updating invitation: %w", err)
	}
	return nil
}
