package email

import (
	"testing"

	"github.com/dangerclosesec/tenantcore/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceLoadsTemplates(t *testing.T) {
	svc, err := NewEmailService(&config.Config{}, ProviderSMTP)
	require.NoError(t, err)

	for _, name := range templateNames {
		assert.Contains(t, svc.templates, name)
	}
}

func TestRenderInvitation(t *testing.T) {
	svc, err := NewEmailService(&config.Config{}, ProviderSMTP)
	require.NoError(t, err)

	html, text, err := svc.render("invitation", map[string]string{
		"OrganizationName": "Acme",
		"InviterName":      "Jordan",
		"Role":             "member",
		"AcceptLink":       "https://tenantcore.example/invitations/x/accept?token=y",
		"ExpiresAt":        "Mon, 01 Sep 2026 00:00:00 UTC",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Acme")
	assert.Contains(t, html, "https://tenantcore.example/invitations/x/accept?token=y")
	assert.Contains(t, text, "invited you to join Acme as member")
}

func TestRenderUnknownTemplate(t *testing.T) {
	svc, err := NewEmailService(&config.Config{}, ProviderSMTP)
	require.NoError(t, err)

	_, _, err = svc.render("password_reset", nil)
	assert.ErrorContains(t, err, "unknown template")
}
