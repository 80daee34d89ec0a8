package config

import (
	"encoding/json"
	"os"
	"time"

	"dropwatch/internal/flagx"
	"dropwatch/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations may
// be given as strings like "1h" or as integer nanoseconds.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	AllowedEmailDomain    string         `json:"allowed_email_domain"`
	OTPValidityDuration   timex.Duration `json:"otp_validity_duration"`
	SendgridAPIKey        string         `json:"sendgrid_api_key"`
	EmailFrom             string         `json:"email_from"`
	ModelVersion          string         `json:"model_version"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config.
// No file flag means no overlay. Only non-zero JSON fields override the
// current values, so a sparse file works.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.EndpointAddr != "" {
		cfg.EndpointAddr = jc.EndpointAddr
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.TokenValidityDuration.Duration != 0 {
		cfg.TokenValidityDuration = time.Duration(jc.TokenValidityDuration.Duration)
	}
	if jc.AllowedEmailDomain != "" {
		cfg.AllowedEmailDomain = jc.AllowedEmailDomain
	}
	if jc.OTPValidityDuration.Duration != 0 {
		cfg.OTPValidityDuration = time.Duration(jc.OTPValidityDuration.Duration)
	}
	if jc.SendgridAPIKey != "" {
		cfg.SendgridAPIKey = jc.SendgridAPIKey
	}
	if jc.EmailFrom != "" {
		cfg.EmailFrom = jc.EmailFrom
	}
	if jc.ModelVersion != "" {
		cfg.ModelVersion = jc.ModelVersion
	}
}
