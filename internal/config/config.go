// Package config loads process configuration from environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds configuration for every bridge process.
type Config struct {
	Relay     RelayConfig
	Agent     AgentConfig
	Gateway   GatewayConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// RelayConfig holds the relay server configuration.
type RelayConfig struct {
	Host string `envconfig:"RELAY_HOST" default:"127.0.0.1"`
	Port string `envconfig:"RELAY_PORT" default:"8765"`
}

// AgentConfig holds the execution-context agent configuration.
type AgentConfig struct {
	RelayURL string `envconfig:"AGENT_RELAY_URL" default:"ws://127.0.0.1:8765/plugin"`
}

// GatewayConfig holds the MCP gateway configuration.
type GatewayConfig struct {
	RelayURL       string `envconfig:"GATEWAY_RELAY_URL" default:"ws://127.0.0.1:8765/client"`
	CallTimeoutSec int    `envconfig:"GATEWAY_CALL_TIMEOUT" default:"5"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration for the relay's HTTP
// surface.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from the environment or returns the
// defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Relay: RelayConfig{
			Host: "127.0.0.1",
			Port: "8765",
		},
		Agent: AgentConfig{
			RelayURL: "ws://127.0.0.1:8765/plugin",
		},
		Gateway: GatewayConfig{
			RelayURL:       "ws://127.0.0.1:8765/client",
			CallTimeoutSec: 5,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
