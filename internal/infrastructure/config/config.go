package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Default prompt pattern: a shell prompt character at end of line.
// Kept out of struct tags because tag values are unquoted by reflect.
const DefaultPromptPattern = `\$\s*$|#\s*$|>\s*$`

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Terminal  TerminalConfig  `yaml:"terminal"`
	Logging   LogConfig       `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Attach    AttachConfig    `yaml:"attach"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string   `envconfig:"PORT" default:"8090" yaml:"port"`
	Host           string   `envconfig:"HOST" default:"0.0.0.0" yaml:"host"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*" yaml:"allowed_origins"`
}

// TerminalConfig holds per-session terminal defaults.
type TerminalConfig struct {
	Shell           string `envconfig:"TERMINAL_SHELL" yaml:"shell"`
	Term            string `envconfig:"TERMINAL_TERM" default:"xterm-256color" yaml:"term"`
	Rows            int    `envconfig:"TERMINAL_ROWS" default:"24" yaml:"rows"`
	Cols            int    `envconfig:"TERMINAL_COLS" default:"80" yaml:"cols"`
	ScrollbackLimit int    `envconfig:"TERMINAL_SCROLLBACK" default:"10000" yaml:"scrollback_limit"`
	PromptPattern   string `envconfig:"TERMINAL_PROMPT_PATTERN" yaml:"prompt_pattern"`
	MaxSessions     int    `envconfig:"TERMINAL_MAX_SESSIONS" default:"10" yaml:"max_sessions"`
	ReadyTimeoutMS  int    `envconfig:"TERMINAL_READY_TIMEOUT_MS" default:"5000" yaml:"ready_timeout_ms"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" yaml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" yaml:"enabled"`
}

// AttachConfig holds WebSocket attach configuration.
type AttachConfig struct {
	Enabled    bool `envconfig:"ATTACH_ENABLED" default:"true" yaml:"enabled"`
	MaxClients int  `envconfig:"ATTACH_MAX_CLIENTS" default:"10" yaml:"max_clients"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFallbacks(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile loads configuration from the environment, then overlays the
// YAML file at path. File values win over environment values.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyFallbacks(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:           "8090",
			Host:           "0.0.0.0",
			AllowedOrigins: []string{"*"},
		},
		Terminal: TerminalConfig{
			Term:            "xterm-256color",
			Rows:            24,
			Cols:            80,
			ScrollbackLimit: 10000,
			MaxSessions:     10,
			ReadyTimeoutMS:  5000,
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
		Attach: AttachConfig{
			Enabled:    true,
			MaxClients: 10,
		},
	}
	applyFallbacks(cfg)
	return cfg
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Terminal.Rows <= 0 || c.Terminal.Cols <= 0 {
		return fmt.Errorf("invalid terminal dimensions: %dx%d", c.Terminal.Rows, c.Terminal.Cols)
	}
	if c.Terminal.MaxSessions <= 0 {
		return fmt.Errorf("max_sessions must be positive, got %d", c.Terminal.MaxSessions)
	}
	if c.Terminal.ScrollbackLimit < 0 {
		return fmt.Errorf("scrollback_limit must not be negative, got %d", c.Terminal.ScrollbackLimit)
	}
	if _, err := regexp.Compile(c.Terminal.PromptPattern); err != nil {
		return fmt.Errorf("invalid prompt pattern: %w", err)
	}
	return nil
}

// applyFallbacks fills values whose defaults cannot live in struct tags.
func applyFallbacks(cfg *Config) {
	if cfg.Terminal.PromptPattern == "" {
		cfg.Terminal.PromptPattern = DefaultPromptPattern
	}
}
