// internal/domain/errors.go
package domain

import "errors"

var (
	// General errors
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrAlreadyExists = errors.New("already exists")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidScope = errors.New("invalid scope")

	// State-transition errors
	ErrConflict = errors.New("conflict")
	ErrExpired  = errors.New("expired")

	// Organization-related errors
	ErrOrganizationNotFound  = errors.New("organization not found")
	ErrSlugAlreadyExists     = errors.New("slug already exists")
	ErrNotCurrentOwner       = errors.New("only the current owner can transfer ownership")
	ErrCannotRemoveOwner     = errors.New("cannot remove the organization owner, transfer ownership first")
	ErrLastOwner             = errors.New("last owner must transfer ownership first")
	ErrDomainJoinUnavailable = errors.New("organization is not accepting members by domain")

	// Member-related errors
	ErrMemberNotFound    = errors.New("member not found")
	ErrMemberExists      = errors.New("user is already a member of this organization")
	ErrMembershipSuspend = errors.New("your membership is suspended")

	// Team-related errors
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamMemberNotFound = errors.New("user is not a member of this team")
	ErrTeamMemberExists   = errors.New("user is already a member of this team")
	ErrNotOrgMember       = errors.New("user is not a member of the team's organization")

	// Invitation-related errors
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrInvitationPending   = errors.New("a pending invitation already exists for this email")
	ErrInvitationAccepted  = errors.New("invitation already accepted")
	ErrInvitationCancelled = errors.New("invitation already cancelled")
	ErrInvitationExpired   = errors.New("invitation has expired")
	ErrInvalidInviteToken  = errors.New("invalid invitation token")
)

// Error codes surfaced in bulk-operation results and API responses.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeAlreadyExists = "ALREADY_EXISTS"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeConflict      = "CONFLICT"
	CodeExpired       = "EXPIRED"
	CodeInvalidScope  = "INVALID_SCOPE"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeInternal      = "INTERNAL"
)

// CodeOf maps an error to its stable string code. Entity-specific
// sentinels fold into their general category.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrOrganizationNotFound),
		errors.Is(err, ErrMemberNotFound),
		errors.Is(err, ErrTeamNotFound),
		errors.Is(err, ErrTeamMemberNotFound),
		errors.Is(err, ErrInvitationNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrMemberExists),
		errors.Is(err, ErrTeamMemberExists),
		errors.Is(err, ErrSlugAlreadyExists),
		errors.Is(err, ErrInvitationPending):
		return CodeAlreadyExists
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden),
		errors.Is(err, ErrNotCurrentOwner),
		errors.Is(err, ErrCannotRemoveOwner),
		errors.Is(err, ErrLastOwner),
		errors.Is(err, ErrDomainJoinUnavailable),
		errors.Is(err, ErrMembershipSuspend),
		errors.Is(err, ErrNotOrgMember),
		errors.Is(err, ErrInvalidInviteToken):
		return CodeForbidden
	case errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvitationAccepted),
		errors.Is(err, ErrInvitationCancelled):
		return CodeConflict
	case errors.Is(err, ErrExpired),
		errors.Is(err, ErrInvitationExpired):
		return CodeExpired
	case errors.Is(err, ErrInvalidScope):
		return CodeInvalidScope
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	default:
		return CodeInternal
	}
}
