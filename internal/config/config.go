// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database struct {
		Host       string `json:"host"`
		Port       string `json:"port"`
		User       string `json:"user"`
		Password   string `json:"password"`
		Name       string `json:"name"`
		SSLMode    string `json:"sslmode"`
		SearchPath string `json:"schema"`
	} `json:"database"`
	Permify struct {
		Host   string `json:"host"`
		Tenant string `json:"tenant"`
	} `json:"permify"`
	JWT struct {
		Secret       string        `json:"secret"`
		ExpiryPeriod time.Duration `json:"expiry_period"`
	} `json:"jwt"`
	Server struct {
		Port         string        `json:"port"`
		ReadTimeout  time.Duration `json:"read_timeout"`
		WriteTimeout time.Duration `json:"write_timeout"`
	}
	Sendgrid struct {
		APIKey string `json:"api_key"`
		From   string `json:"from"`
	} `json:"sendgrid"`
	SMTP struct {
		Host     string `json:"host"`
		Port     int    `json:"port"`
		Username string `json:"username"`
		Password string `json:"password"`
		From     string `json:"from"`
	} `json:"smtp"`
	Tenancy struct {
		CreatorRole       string        `json:"creator_role"`
		PreviousOwnerRole string        `json:"previous_owner_role"`
		DefaultMemberRole string        `json:"default_member_role"`
		InviteTTL         time.Duration `json:"invite_ttl"`
	} `json:"tenancy"`
	// Permissions maps orchestrator operation names to the permission
	// required in the operation's scope. An empty value disables the
	// check for that operation.
	Permissions map[string]string `json:"permissions"`
	BaseURL     string            `json:"base_url"`
}

func Load() *Config {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := &Config{}

	// Database configuration
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "tenantcore")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.SearchPath = getEnv("DB_SCHEMA", "public")

	// Permify configuration
	cfg.Permify.Host = getEnv("PERMIFY_HOST", "localhost:3478")
	cfg.Permify.Tenant = getEnv("PERMIFY_TENANT", "t1")

	// JWT configuration
	cfg.JWT.Secret = getEnv("JWT_SECRET", "your-secret-key")
	cfg.JWT.ExpiryPeriod = time.Hour * 24

	// Sendgrid configuration
	cfg.Sendgrid.APIKey = getEnv("SENDGRID_API_KEY", "")
	cfg.Sendgrid.From = getEnv("SENDGRID_FROM", "")

	// SMTP configuration
	cfg.SMTP.Host = getEnv("SMTP_HOST", "")
	cfg.SMTP.Port, _ = strconv.Atoi(getEnv("SMTP_PORT", "587"))
	cfg.SMTP.Username = getEnv("SMTP_USERNAME", "")
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", "")
	cfg.SMTP.From = getEnv("SMTP_FROM", "")

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = time.Second * 15
	cfg.Server.WriteTimeout = time.Second * 15

	// Tenancy configuration
	cfg.Tenancy.CreatorRole = getEnv("TENANCY_CREATOR_ROLE", "owner")
	cfg.Tenancy.PreviousOwnerRole = getEnv("TENANCY_PREVIOUS_OWNER_ROLE", "admin")
	cfg.Tenancy.DefaultMemberRole = getEnv("TENANCY_DEFAULT_MEMBER_ROLE", "member")
	cfg.Tenancy.InviteTTL = getDurationEnv("TENANCY_INVITE_TTL", 48*time.Hour)

	cfg.Permissions = DefaultPermissionMap()
	// Creating an organization is open unless deployments opt in to a
	// gated configuration.
	if perm, ok := os.LookupEnv("TENANCY_CREATE_ORG_PERMISSION"); ok {
		cfg.Permissions["createOrganization"] = perm
	}

	cfg.BaseURL = getEnv("BASE_URL", "http://localhost:8080")

	return cfg
}

// DefaultPermissionMap maps every orchestrator operation to its
// required permission. Operations mapped to "" perform no check.
func DefaultPermissionMap() map[string]string {
	return map[string]string{
		"createOrganization": "",
		"updateOrganization": "update_organization",
		"deleteOrganization": "delete_organization",
		"transferOwnership":  "update_organization",

		"addMember":        "add_member",
		"removeMember":     "remove_member",
		"updateMemberRole": "update_member_role",
		"suspendMember":    "suspend_member",
		"unsuspendMember":  "unsuspend_member",

		"createTeam":       "create_team",
		"updateTeam":       "update_team",
		"deleteTeam":       "delete_team",
		"addTeamMember":    "add_team_member",
		"removeTeamMember": "remove_team_member",

		"inviteMember":     "invite_member",
		"resendInvitation": "resend_invitation",
		"cancelInvitation": "cancel_invitation",
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
