package backend

import (
	"strings"
	"time"
)

// Role selects which API key is presented to the backend.
type Role string

const (
	RoleAnon        Role = "anon"
	RoleServiceRole Role = "service_role"
)

// Config holds the backend coordinates as loaded from the environment.
type Config struct {
	// URL is the project endpoint (e.g. https://xyz.supabase.co).
	URL string `mapstructure:"url" default:""`
	// AnonKey is the public anonymous API key.
	AnonKey string `mapstructure:"anon_key" default:""`
	// ServiceRoleKey is the privileged key, only needed for server-side probes.
	ServiceRoleKey string `mapstructure:"service_role_key" default:""`
	// Role picks the key to use (anon, service_role).
	Role string `mapstructure:"role" default:"anon"`
	// AccessToken is an optional user JWT; when set the auth probe reports its session.
	AccessToken string `mapstructure:"access_token" default:""`
	// TimeoutSeconds bounds every HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Credentials is the validated subset of Config a client is built from.
type Credentials struct {
	EndpointURL string
	APIKey      string
	Role        Role
}

// Credentials resolves the key for the configured role.
func (c Config) Credentials() Credentials {
	role := Role(strings.ToLower(strings.TrimSpace(c.Role)))
	if role == "" {
		role = RoleAnon
	}

	key := c.AnonKey
	if role == RoleServiceRole {
		key = c.ServiceRoleKey
	}

	return Credentials{
		EndpointURL: strings.TrimSpace(c.URL),
		APIKey:      strings.TrimSpace(key),
		Role:        role,
	}
}

// Timeout returns the request timeout, falling back to 30 seconds.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CheckCredentials fails with a *ConfigError when a required field is empty.
// It never touches the network.
func CheckCredentials(c Credentials) error {
	switch c.Role {
	case RoleAnon, RoleServiceRole:
	default:
		return &ConfigError{Key: "SUPABASE_ROLE", Reason: "must be anon or service_role, got " + string(c.Role)}
	}

	if strings.TrimSpace(c.EndpointURL) == "" {
		return &ConfigError{Key: "SUPABASE_URL", Reason: "not set"}
	}

	if strings.TrimSpace(c.APIKey) == "" {
		key := "SUPABASE_ANON_KEY"
		if c.Role == RoleServiceRole {
			key = "SUPABASE_SERVICE_ROLE_KEY"
		}
		return &ConfigError{Key: key, Reason: "not set"}
	}

	return nil
}
