package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "127.0.0.1", cfg.Relay.Host)
	assert.Equal(t, "8765", cfg.Relay.Port)
	assert.Equal(t, "ws://127.0.0.1:8765/plugin", cfg.Agent.RelayURL)
	assert.Equal(t, "ws://127.0.0.1:8765/client", cfg.Gateway.RelayURL)
	assert.Equal(t, 5, cfg.Gateway.CallTimeoutSec)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("RELAY_PORT", "9000")
	t.Setenv("GATEWAY_CALL_TIMEOUT", "10")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Relay.Port)
	assert.Equal(t, 10, cfg.Gateway.CallTimeoutSec)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	t.Setenv("GATEWAY_CALL_TIMEOUT", "not-a-number")

	cfg := LoadOrDefault()
	assert.Equal(t, 5, cfg.Gateway.CallTimeoutSec)
}
