// Package profile holds the process configuration.
package profile

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
)

// DefaultTimezone is the fixed local zone (UTC+05:30) all resolved times
// and calendar events carry.
const DefaultTimezone = "Asia/Kolkata"

// Profile is the configuration to start the server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory for credential storage
	Data string
	// Timezone is the IANA name of the fixed local zone
	Timezone string

	// Google OAuth configuration
	GoogleClientID     string // BOOKWISE_GOOGLE_CLIENT_ID
	GoogleClientSecret string // BOOKWISE_GOOGLE_CLIENT_SECRET
	GoogleRedirectURI  string // BOOKWISE_GOOGLE_REDIRECT_URI

	// Inference configuration
	LLMAPIKey  string // BOOKWISE_LLM_API_KEY
	LLMBaseURL string // BOOKWISE_LLM_BASE_URL (default: https://api.openai.com/v1)
	LLMModel   string // BOOKWISE_LLM_MODEL (default: gpt-4o-mini)
}

// IsDev returns true unless running in prod mode.
func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// CredentialDBPath returns the sqlite path for credential persistence, or
// empty when no data directory is configured.
func (p *Profile) CredentialDBPath() string {
	if p.Data == "" {
		return ""
	}
	return p.Data + "/bookwise_credentials.db"
}

// getEnvOrDefault returns the environment variable value or the default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from BOOKWISE_* environment variables.
func (p *Profile) FromEnv() {
	p.GoogleClientID = getEnvOrDefault("BOOKWISE_GOOGLE_CLIENT_ID", p.GoogleClientID)
	p.GoogleClientSecret = getEnvOrDefault("BOOKWISE_GOOGLE_CLIENT_SECRET", p.GoogleClientSecret)
	p.GoogleRedirectURI = getEnvOrDefault("BOOKWISE_GOOGLE_REDIRECT_URI", p.GoogleRedirectURI)
	p.LLMAPIKey = getEnvOrDefault("BOOKWISE_LLM_API_KEY", p.LLMAPIKey)
	p.LLMBaseURL = getEnvOrDefault("BOOKWISE_LLM_BASE_URL", "https://api.openai.com/v1")
	p.LLMModel = getEnvOrDefault("BOOKWISE_LLM_MODEL", "gpt-4o-mini")
	p.Timezone = getEnvOrDefault("BOOKWISE_TIMEZONE", DefaultTimezone)
}

// Validate checks that all required configuration is present. Missing
// credentials are fatal at startup; the pipeline assumes configuration is
// already validated by the time it runs.
func (p *Profile) Validate() error {
	var missing []string
	if p.GoogleClientID == "" {
		missing = append(missing, "BOOKWISE_GOOGLE_CLIENT_ID")
	}
	if p.GoogleClientSecret == "" {
		missing = append(missing, "BOOKWISE_GOOGLE_CLIENT_SECRET")
	}
	if p.GoogleRedirectURI == "" {
		missing = append(missing, "BOOKWISE_GOOGLE_REDIRECT_URI")
	}
	if p.LLMAPIKey == "" {
		missing = append(missing, "BOOKWISE_LLM_API_KEY")
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required environment variables: %v", missing)
	}

	if p.Timezone == "" {
		p.Timezone = DefaultTimezone
	}
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return errors.Wrapf(err, "invalid timezone %q", p.Timezone)
	}

	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	return nil
}

// Location loads the configured fixed local zone. Validate must have
// succeeded first.
func (p *Profile) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		panic(fmt.Sprintf("timezone %q did not load after validation: %v", p.Timezone, err))
	}
	return loc
}
