// Example usage of the tenant SDK: create an organization, add a team,
// and invite a teammate.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dangerclosesec/tenantcore/sdk/client"
)

func main() {
	c := client.NewClient(&client.Config{
		BaseURL: envOr("TENANT_API_URL", "http://localhost:8080"),
		Token:   os.Getenv("TENANT_API_TOKEN"),
		Timeout: 10 * time.Second,
	})

	ctx := context.Background()

	org, err := c.CreateOrganization(ctx, &client.CreateOrganizationRequest{
		Name:           "Acme Rockets",
		AllowedDomains: []string{"acme.example"},
	})
	if err != nil {
		log.Fatalf("creating organization: %v", err)
	}
	fmt.Printf("created organization %s (%s)\n", org.Name, org.ID)

	team, err := c.CreateTeam(ctx, org.ID, &client.CreateTeamRequest{
		Name: "Propulsion",
	})
	if err != nil {
		log.Fatalf("creating team: %v", err)
	}
	fmt.Printf("created team %s (%s)\n", team.Name, team.ID)

	invite, err := c.CreateInvitation(ctx, org.ID, &client.CreateInvitationRequest{
		Email:  "engineer@acme.example",
		Role:   "member",
		TeamID: &team.ID,
	})
	if err != nil {
		log.Fatalf("creating invitation: %v", err)
	}

	// The cleartext token is only returned here; hand it to the invitee
	// out of band if email delivery is disabled.
	fmt.Printf("invited %s, token %s, expires %s\n",
		invite.Invitation.Email, invite.Token, invite.Invitation.ExpiresAt.Format(time.RFC3339))

	page, err := c.ListMembers(ctx, org.ID, "", 50)
	if err != nil {
		log.Fatalf("listing members: %v", err)
	}
	for _, m := range page.Page {
		fmt.Printf("member %s role=%s status=%s\n", m.UserID, m.Role, m.Status)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
