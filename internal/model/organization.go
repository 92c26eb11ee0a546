// internal/model/organization.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type OrgStatus string

const (
	OrgStatusActive    OrgStatus = "active"
	OrgStatusSuspended OrgStatus = "suspended"
	OrgStatusArchived  OrgStatus = "archived"
)

type Organization struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name           string     `json:"name" gorm:"type:string;not null"`
	Slug           string     `json:"slug" gorm:"type:string;not null;uniqueIndex"`
	Logo           *string    `json:"logo,omitempty"`
	OwnerID        uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null"`
	Status         OrgStatus  `json:"status" gorm:"type:string;not null;default:active"`
	AllowedDomains StringList `json:"allowed_domains,omitempty" gorm:"type:jsonb"`
	Metadata       JSONMap    `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Members []Member `json:"-" gorm:"foreignKey:OrganizationID"`
	Teams   []Team   `json:"-" gorm:"foreignKey:OrganizationID"`
}

// StringList is a list of strings stored as JSONB.
type StringList []string

// Value implements the driver.Valuer interface for StringList
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for StringList
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion failed: failed to decode JSONB")
	}

	return json.Unmarshal(bytes, l)
}
