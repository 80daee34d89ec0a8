// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the DropWatch server.
//
// Fields:
//   - EndpointAddr: bind address for the public HTTP endpoint.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenValidityDuration: access token lifetime.
//   - AllowedEmailDomain: suffix the OTP login flow accepts.
//   - OTPValidityDuration: lifetime of one-time codes (login and password reset).
//   - SendgridAPIKey / EmailFrom: outbound mail settings. An empty key selects
//     the console sender, which prints codes to stdout.
//   - ModelVersion: version string reported by the analytics endpoint.
type Config struct {
	EndpointAddr          string
	SecretKey             string
	TokenValidityDuration time.Duration
	AllowedEmailDomain    string
	OTPValidityDuration   time.Duration
	SendgridAPIKey        string
	EmailFrom             string
	ModelVersion          string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 1 * time.Hour
	c.AllowedEmailDomain = "@gmail.com"
	c.OTPValidityDuration = 5 * time.Minute
	c.SendgridAPIKey = ""
	c.EmailFrom = "noreply@dropwatch.local"
	c.ModelVersion = "heuristic-v1"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
