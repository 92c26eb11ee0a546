// internal/model/invitation.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationCancelled InvitationStatus = "cancelled"
)

// Invitation invites an email address into an organization with a
// given role, optionally landing the user in a team on acceptance.
//
// Expiry is never written as a status: an invitation past ExpiresAt
// stays "pending" in storage and is rejected lazily by the operations
// that touch it.
type Invitation struct {
	ID             uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrganizationID uuid.UUID        `json:"organization_id" gorm:"type:uuid;not null;index:idx_invitations_org_email;uniqueIndex:uniq_pending_invitation,where:status = 'pending'"`
	Email          string           `json:"email" gorm:"type:string;not null;index:idx_invitations_org_email;uniqueIndex:uniq_pending_invitation,where:status = 'pending'"`
	Role           string           `json:"role" gorm:"type:string;not null"`
	TeamID         *uuid.UUID       `json:"team_id,omitempty" gorm:"type:uuid"`
	InviterID      uuid.UUID        `json:"inviter_id" gorm:"type:uuid;not null"`
	Message        *string          `json:"message,omitempty"`
	Status         InvitationStatus `json:"status" gorm:"type:string;not null;default:pending"`
	TokenHash      string           `json:"-" gorm:"type:string"`
	ExpiresAt      time.Time        `json:"expires_at" gorm:"not null"`
	AcceptedAt     *time.Time       `json:"accepted_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	Organization Organization `json:"-" gorm:"foreignKey:OrganizationID"`
}

// IsExpired is a computed projection, not stored state.
func (i *Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
