package config

import "github.com/compresr/turnchat/internal/models"

// SessionConfig is the mutable per-process chat state: created once at
// startup, changed only by session commands.
type SessionConfig struct {
	Model           models.Tier
	MaxOutputTokens uint16
	CarryContext    bool // resend history on every turn without a marker
}

// DefaultSessionConfig returns the startup state with built-in defaults.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Model:           models.Default,
		MaxOutputTokens: DefaultMaxOutputTokens,
		CarryContext:    DefaultCarryContext,
	}
}

// SessionConfig returns the startup state described by c.
// c must have passed Validate.
func (c *Config) SessionConfig() SessionConfig {
	sc := DefaultSessionConfig()
	if tier := models.FromString(c.Model); tier != models.Unknown {
		sc.Model = tier
	}
	if c.MaxOutputTokens > 0 && c.MaxOutputTokens <= MaxOutputTokensLimit {
		sc.MaxOutputTokens = uint16(c.MaxOutputTokens)
	}
	sc.CarryContext = c.CarryContext
	return sc
}
