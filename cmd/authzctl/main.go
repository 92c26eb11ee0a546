// authzctl is the operator CLI for the authorization engine: pushing
// the schema, inspecting what a user can do, and applying permission
// overrides outside the API surface.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dangerclosesec/tenantcore/internal/authz"
	"github.com/dangerclosesec/tenantcore/internal/config"
	"github.com/dangerclosesec/tenantcore/internal/model"
	"github.com/dangerclosesec/tenantcore/permissions"
	"github.com/spf13/cobra"
)

var (
	permifyHost   string
	permifyTenant string
	reason        string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&permifyHost, "host", "", "Permission engine host (defaults to PERMIFY_HOST)")
	rootCmd.PersistentFlags().StringVar(&permifyTenant, "tenant", "", "Permission engine tenant (defaults to PERMIFY_TENANT)")

	grantCmd.Flags().StringVar(&reason, "reason", "", "Reason recorded with the override")
	denyCmd.Flags().StringVar(&reason, "reason", "", "Reason recorded with the override")

	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(permissionsCmd)
	rootCmd.AddCommand(grantCmd)
	rootCmd.AddCommand(denyCmd)
}

var rootCmd = &cobra.Command{
	Use:   "authzctl",
	Short: "authzctl manages the tenant authorization engine",
	Long:  `authzctl pushes the authorization schema and inspects or overrides what users can do.`,
}

var schemaCmd = &cobra.Command{
	Use:   "schema [file]",
	Short: "Push the authorization schema",
	Long:  `Push the bundled authorization schema, or the schema in the given file, to the permission engine.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		schema := permissions.Schema
		if len(args) == 1 {
			data, err := os.ReadFile(args[0])
			if err != nil {
				log.Fatalf("Failed to read schema file: %v", err)
			}
			schema = string(data)
		}

		svc := authorizer()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		version, err := svc.WriteSchema(ctx, schema)
		if err != nil {
			log.Fatalf("Failed to write schema: %v", err)
		}

		fmt.Printf("Schema written, version %s\n", version)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [user-id] [permission] [entity]",
	Short: "Check whether a user holds a permission",
	Long:  `Check whether a user holds a permission on an entity, given as type:id (for example organization:9b2e...).`,
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		scope, err := parseEntity(args[2])
		if err != nil {
			log.Fatalf("Invalid entity: %v", err)
		}

		svc := authorizer()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		allowed, err := svc.Can(ctx, model.Subject{Type: "user", ID: args[0]}, args[1], scope)
		if err != nil {
			log.Fatalf("Failed to check permission: %v", err)
		}

		if allowed {
			fmt.Println("allowed")
			return
		}
		fmt.Println("denied")
		os.Exit(1)
	},
}

var rolesCmd = &cobra.Command{
	Use:   "roles [user-id] [entity]",
	Short: "List the roles a user holds on an entity",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		scope, err := parseEntity(args[1])
		if err != nil {
			log.Fatalf("Invalid entity: %v", err)
		}

		svc := authorizer()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		roles, err := svc.GetUserRoles(ctx, model.Subject{Type: "user", ID: args[0]}, scope)
		if err != nil {
			log.Fatalf("Failed to read roles: %v", err)
		}

		if len(roles) == 0 {
			fmt.Println("no roles")
			return
		}
		for _, role := range roles {
			fmt.Println(role)
		}
	},
}

var permissionsCmd = &cobra.Command{
	Use:   "permissions [user-id] [entity]",
	Short: "List the permissions a user holds on an entity",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		scope, err := parseEntity(args[1])
		if err != nil {
			log.Fatalf("Invalid entity: %v", err)
		}

		svc := authorizer()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		perms, err := svc.GetUserPermissions(ctx, model.Subject{Type: "user", ID: args[0]}, scope)
		if err != nil {
			log.Fatalf("Failed to resolve permissions: %v", err)
		}

		if len(perms) == 0 {
			fmt.Println("no permissions")
			return
		}
		for _, perm := range perms {
			fmt.Println(perm)
		}
	},
}

var grantCmd = &cobra.Command{
	Use:   "grant [user-id] [permission] [entity]",
	Short: "Grant a permission override to a user",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		scope, err := parseEntity(args[2])
		if err != nil {
			log.Fatalf("Invalid entity: %v", err)
		}

		svc := authorizer()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err = svc.GrantPermission(ctx, model.Subject{Type: "user", ID: args[0]}, args[1], scope, reason, nil)
		if err != nil {
			log.Fatalf("Failed to grant permission: %v", err)
		}

		fmt.Printf("Granted %s on %s to user %s\n", args[1], args[2], args[0])
	},
}

var denyCmd = &cobra.Command{
	Use:   "deny [user-id] [permission] [entity]",
	Short: "Deny a permission to a user regardless of role",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		scope, err := parseEntity(args[2])
		if err != nil {
			log.Fatalf("Invalid entity: %v", err)
		}

		svc := authorizer()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err = svc.DenyPermission(ctx, model.Subject{Type: "user", ID: args[0]}, args[1], scope, reason, nil)
		if err != nil {
			log.Fatalf("Failed to deny permission: %v", err)
		}

		fmt.Printf("Denied %s on %s for user %s\n", args[1], args[2], args[0])
	},
}

func authorizer() *authz.PermifyService {
	cfg := config.Load()

	host := permifyHost
	if host == "" {
		host = cfg.Permify.Host
	}
	tenant := permifyTenant
	if tenant == "" {
		tenant = cfg.Permify.Tenant
	}

	svc, err := authz.NewPermifyService(host, authz.WithTenant(tenant))
	if err != nil {
		log.Fatalf("Failed to connect to permission engine: %v", err)
	}
	return svc
}

func parseEntity(raw string) (model.Entity, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return model.Entity{}, fmt.Errorf("expected type:id, got %q", raw)
	}
	return model.Entity{Type: parts[0], ID: parts[1]}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
