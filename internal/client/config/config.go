// Package config handles configuration for the client component, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the DropWatch CLI.
type Config struct {
	// ServerBaseURL is the root of the backend REST API.
	ServerBaseURL string
	// SessionFile is the path of the local session database.
	SessionFile string
	// AllowedEmailDomain restricts OTP login and registration to one
	// institutional identity provider.
	AllowedEmailDomain string
	// FallbackRoute receives identities with an unrecognized role:
	// "login", "student-dashboard", "teacher-dashboard" or
	// "admin-dashboard".
	FallbackRoute string
	// RequestTimeout bounds every API call.
	RequestTimeout time.Duration
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.SessionFile = "dropwatch.db"
	c.AllowedEmailDomain = "@gmail.com"
	c.FallbackRoute = "login"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
