package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations use
// timex.Duration, so both "6m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	BaseURL               string         `json:"base_url"`
	CORSAllowedOrigins    string         `json:"cors_allowed_origins"`
	GinMode               string         `json:"gin_mode"`
	LogLevel              string         `json:"log_level"`
	BcryptCost            int            `json:"bcrypt_cost"`
	SMTPHost              string         `json:"smtp_host"`
	SMTPPort              int            `json:"smtp_port"`
	SMTPUser              string         `json:"smtp_user"`
	SMTPPassword          string         `json:"smtp_password"`
	MailFrom              string         `json:"mail_from"`
}

// parseJson overlays values from the JSON file named by -c or -config.
// Keys absent from the file keep their current value. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config, args []string) {

	jsonConfigFile := flagx.JSONConfigPath(args)

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.TokenValidityDuration, c.TokenValidityDuration.Duration)
	overlay(&config.BaseURL, c.BaseURL)
	overlay(&config.CORSAllowedOrigins, c.CORSAllowedOrigins)
	overlay(&config.GinMode, c.GinMode)
	overlay(&config.LogLevel, c.LogLevel)
	overlay(&config.BcryptCost, c.BcryptCost)
	overlay(&config.SMTPHost, c.SMTPHost)
	overlay(&config.SMTPPort, c.SMTPPort)
	overlay(&config.SMTPUser, c.SMTPUser)
	overlay(&config.SMTPPassword, c.SMTPPassword)
	overlay(&config.MailFrom, c.MailFrom)
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
