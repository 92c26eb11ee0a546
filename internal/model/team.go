// internal/model/team.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Team is a grouping of members within one organization. Teams may
// nest through ParentTeamID.
type Team struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrganizationID uuid.UUID  `json:"organization_id" gorm:"type:uuid;not null;index"`
	Name           string     `json:"name" gorm:"type:string;not null"`
	Slug           *string    `json:"slug,omitempty"`
	Description    *string    `json:"description,omitempty"`
	ParentTeamID   *uuid.UUID `json:"parent_team_id,omitempty" gorm:"type:uuid"`
	Metadata       JSONMap    `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Organization Organization `json:"-" gorm:"foreignKey:OrganizationID"`
	Members      []TeamMember `json:"-" gorm:"foreignKey:TeamID"`
}

// TeamMember is one user's membership in one team. The (team, user)
// pair is unique, and the user must hold an active membership in the
// team's organization.
type TeamMember struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TeamID    uuid.UUID `json:"team_id" gorm:"type:uuid;not null;uniqueIndex:uniq_team_members_team_user"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:uniq_team_members_team_user"`
	CreatedAt time.Time `json:"created_at"`

	Team Team `json:"-" gorm:"foreignKey:TeamID"`
}
