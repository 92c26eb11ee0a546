package model

import "github.com/google/uuid"

// Entity represents a permission entity
type Entity struct {
	Type string
	ID   string
}

// Subject represents a permission subject
type Subject struct {
	Type string
	ID   string
}

// OrgScope addresses an organization for permission checks and role
// assignment.
func OrgScope(id uuid.UUID) Entity {
	return Entity{Type: "organization", ID: id.String()}
}

// TeamScope addresses a team for relation edges.
func TeamScope(id uuid.UUID) Entity {
	return Entity{Type: "team", ID: id.String()}
}

// UserSubject addresses a user as the subject of a check, role or
// relation.
func UserSubject(id uuid.UUID) Subject {
	return Subject{Type: "user", ID: id.String()}
}
