// Package config handles configuration for the taskkeeper CLI client.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the taskkeeper CLI.
//
// Fields:
//   - ServerBaseURL: API prefix of the backend, e.g. "http://localhost:8080/api/".
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080/api/"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
