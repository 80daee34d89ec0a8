package config

import (
	"encoding/json"
	"os"
	"time"

	"dropwatch/internal/flagx"
	"dropwatch/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations may
// be given as strings like "15s" or as integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL      string         `json:"server_base_url"`
	SessionFile        string         `json:"session_file"`
	AllowedEmailDomain string         `json:"allowed_email_domain"`
	FallbackRoute      string         `json:"fallback_route"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
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

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.SessionFile != "" {
		cfg.SessionFile = jc.SessionFile
	}
	if jc.AllowedEmailDomain != "" {
		cfg.AllowedEmailDomain = jc.AllowedEmailDomain
	}
	if jc.FallbackRoute != "" {
		cfg.FallbackRoute = jc.FallbackRoute
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
}
