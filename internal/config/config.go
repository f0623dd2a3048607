// Package config loads turnchat settings from defaults, an optional YAML
// file and the environment.
//
// FILES:
//   - defaults.go:    constants and default values
//   - config.go:      file config, loading and validation
//   - session.go:     runtime SessionConfig owned by the chat session
//   - env.go:         .env loading and credential lookup
//   - costcontrol.go: re-export of the cost control config
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/compresr/turnchat/internal/models"
)

// Config is the file-level configuration.
type Config struct {
	Model           string            `yaml:"model"`             // tier name, code (3|4|4t) or model ID
	MaxOutputTokens int               `yaml:"max_output_tokens"` // per-response cap
	CarryContext    bool              `yaml:"carry_context"`     // start with context-carry on
	API             APIConfig         `yaml:"api"`
	CostControl     CostControlConfig `yaml:"cost_control"`
	Logging         LoggingConfig     `yaml:"logging"`
}

// APIConfig configures the chat completions client.
type APIConfig struct {
	BaseURL        string        `yaml:"base_url"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// LoggingConfig configures zerolog.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug|info|warn|error
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model:           models.Default.String(),
		MaxOutputTokens: DefaultMaxOutputTokens,
		CarryContext:    DefaultCarryContext,
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			ConnectTimeout: DefaultConnectTimeout,
		},
		Logging: LoggingConfig{Level: DefaultLogLevel},
	}
}

// DefaultPath returns ~/.config/turnchat/config.yaml (platform equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppDirName, "config.yaml")
}

// Load reads the config file at path over the defaults, then applies
// environment overrides. An empty path means DefaultPath, which may be
// absent; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path) //nolint:gosec // user-supplied config path
	switch {
	case err == nil:
	case !explicit && (path == "" || errors.Is(err, os.ErrNotExist)):
		data = nil
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromBytes parses YAML over the defaults, applies environment
// overrides and validates the result.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := Default()
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(BaseURLEnv)); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(ModelEnv)); v != "" {
		c.Model = v
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if models.FromString(c.Model) == models.Unknown {
		return fmt.Errorf("model %q is not one of %s", c.Model, strings.Join(models.Codes(), ", "))
	}
	if c.MaxOutputTokens < 1 || c.MaxOutputTokens > MaxOutputTokensLimit {
		return fmt.Errorf("max_output_tokens must be between 1 and %d, got %d", MaxOutputTokensLimit, c.MaxOutputTokens)
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.ConnectTimeout < 0 {
		return fmt.Errorf("api.connect_timeout must be >= 0, got %s", c.API.ConnectTimeout)
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return c.CostControl.Validate()
}

// LogLevel returns the configured zerolog level (warn if unparsable).
func (c *Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Logging.Level)
	if err != nil || c.Logging.Level == "" {
		return zerolog.WarnLevel
	}
	return lvl
}
