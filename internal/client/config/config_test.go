package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080/api/", c.ServerBaseURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestLoad_NoArgsUsesDefaults(t *testing.T) {
	cfg := load(nil)

	require.NotNil(t, cfg, "load must not return nil")
	assert.Equal(t, "http://localhost:8080/api/", cfg.ServerBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}
