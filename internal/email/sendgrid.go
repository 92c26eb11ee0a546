package email

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendWithSendgrid delivers the message through the Sendgrid API. The
// organization tag travels as a custom arg so provider-side event logs
// stay attributable to the tenant that triggered the send.
func (s *Service) sendWithSendgrid(msg Message, htmlContent, textContent string) error {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(msg.FromName, msg.From))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", msg.To))
	if msg.OrgID != "" {
		p.SetCustomArg("organization_id", msg.OrgID)
	}
	m.AddPersonalizations(p)

	m.AddContent(
		mail.NewContent("text/plain", textContent),
		mail.NewContent("text/html", htmlContent),
	)

	response, err := s.sendgridClient.Send(m)
	if err != nil {
		return fmt.Errorf("sending via Sendgrid: %w", err)
	}

	if response.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected Sendgrid status code: %d, body: %s", response.StatusCode, response.Body)
	}

	return nil
}
