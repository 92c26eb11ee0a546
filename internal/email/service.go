// internal/email/service.go
package email

import (
	"bytes"
	"fmt"
	"html/template"
	texttemplate "text/template"

	tenantcore "github.com/dangerclosesec/tenantcore"
	"github.com/dangerclosesec/tenantcore/internal/config"
	"github.com/sendgrid/sendgrid-go"
)

var templateFS = tenantcore.EmailFS

// Provider identifies supported email providers
type Provider string

const (
	ProviderSMTP     Provider = "smtp"
	ProviderSendgrid Provider = "sendgrid"

	templateRoot = "templates/emails"
)

// templateNames lists every message kind the service can render. Each
// name maps to templates/emails/<name>/{html,plaintext}.tmpl in the
// embedded filesystem.
var templateNames = []string{
	"invitation",
}

// Message is the envelope for one outbound email. OrgID tags the
// message with the organization it is sent on behalf of, so delivery
// logs on the provider side can be segmented per tenant.
type Message struct {
	To       string
	From     string
	FromName string
	Subject  string
	OrgID    string
	Template string
	Data     interface{}
}

// Service renders and delivers tenant email through the configured
// provider.
type Service struct {
	config         *config.Config
	provider       Provider
	sendgridClient *sendgrid.Client
	templates      map[string]*messageTemplate
}

type messageTemplate struct {
	html      *template.Template
	plaintext *texttemplate.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(config *config.Config, provider Provider) (*Service, error) {
	s := &Service{
		config:    config,
		provider:  provider,
		templates: make(map[string]*messageTemplate),
	}

	if provider == ProviderSendgrid {
		s.sendgridClient = sendgrid.NewSendClient(config.Sendgrid.APIKey)
	}

	for _, name := range templateNames {
		tmpl, err := loadTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("loading email template %q: %w", name, err)
		}
		s.templates[name] = tmpl
	}

	return s, nil
}

func loadTemplate(name string) (*messageTemplate, error) {
	dir := templateRoot + "/" + name

	html, err := template.ParseFS(templateFS, dir+"/html.tmpl")
	if err != nil {
		return nil, err
	}
	plaintext, err := texttemplate.ParseFS(templateFS, dir+"/plaintext.tmpl")
	if err != nil {
		return nil, err
	}

	return &messageTemplate{html: html, plaintext: plaintext}, nil
}

// Send renders the message body and delivers it through the configured
// provider.
func (s *Service) Send(msg Message) error {
	htmlContent, textContent, err := s.render(msg.Template, msg.Data)
	if err != nil {
		return fmt.Errorf("rendering %q: %w", msg.Template, err)
	}

	switch s.provider {
	case ProviderSendgrid:
		if msg.From == "" {
			msg.From = s.config.Sendgrid.From
		}
		return s.sendWithSendgrid(msg, htmlContent, textContent)
	case ProviderSMTP:
		if msg.From == "" {
			msg.From = s.config.SMTP.From
		}
		return s.sendWithSMTP(msg, htmlContent, textContent)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.provider)
	}
}

func (s *Service) render(name string, data interface{}) (string, string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", "", fmt.Errorf("unknown template %q", name)
	}

	var htmlBuf bytes.Buffer
	if err := tmpl.html.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("executing html template: %w", err)
	}

	var textBuf bytes.Buffer
	if err := tmpl.plaintext.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("executing plaintext template: %w", err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}
