// internal/email/mailer/invitation.go
package mailer

import "github.com/dangerclosesec/tenantcore/internal/email"

// InvitationTemplateData contains data for the invitation email template
type InvitationTemplateData struct {
	OrganizationName string
	InviterName      string
	Role             string
	Message          string
	AcceptLink       string
	ExpiresAt        string
}

// SendInvitationEmail delivers an organization invitation to the
// invitee, tagged with the inviting organization.
func SendInvitationEmail(s *email.Service, to, orgID string, data InvitationTemplateData) error {
	return s.Send(email.Message{
		To:       to,
		FromName: data.OrganizationName,
		Subject:  "You have been invited to join " + data.OrganizationName,
		OrgID:    orgID,
		Template: "invitation",
		Data:     data,
	})
}
