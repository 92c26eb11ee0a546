// internal/model/sync_failure.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Sync operations recorded in the outbox.
const (
	SyncAssignRole     = "assign_role"
	SyncRevokeRole     = "revoke_role"
	SyncAddRelation    = "add_relation"
	SyncRemoveRelation = "remove_relation"
)

// AuthzSyncFailure is one authorization-store write that failed after
// its domain mutation had already committed. Each row is an
// independently retryable unit of work; cmd/reconcile replays them.
type AuthzSyncFailure struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Operation   string     `json:"operation" gorm:"type:string;not null"`
	EntityType  string     `json:"entity_type" gorm:"type:string;not null"`
	EntityID    string     `json:"entity_id" gorm:"type:string;not null"`
	Relation    string     `json:"relation" gorm:"type:string;not null"`
	SubjectType string     `json:"subject_type" gorm:"type:string;not null"`
	SubjectID   string     `json:"subject_id" gorm:"type:string;not null"`
	GrantedBy   string     `json:"granted_by"`
	Attempts    int        `json:"attempts" gorm:"not null;default:0"`
	LastError   string     `json:"last_error"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for AuthzSyncFailure
func (AuthzSyncFailure) TableName() string {
	return "authz_sync_failures"
}
