// internal/model/member.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "active"
	MemberStatusSuspended MemberStatus = "suspended"
)

// Member is one user's membership in one organization. The
// (organization, user) pair is unique; a row exists iff the user
// currently belongs to the organization.
type Member struct {
	ID             uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrganizationID uuid.UUID    `json:"organization_id" gorm:"type:uuid;not null;uniqueIndex:uniq_members_org_user"`
	UserID         uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:uniq_members_org_user"`
	Role           string       `json:"role" gorm:"type:string;not null"`
	Status         MemberStatus `json:"status" gorm:"type:string;not null;default:active"`
	SuspendedAt    *time.Time   `json:"suspended_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`

	Organization Organization `json:"-" gorm:"foreignKey:OrganizationID"`
}

// IsActive reports whether the membership may initiate operations.
func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}
