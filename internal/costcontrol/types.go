// Package costcontrol implements per-turn pricing and session cost tracking.
//
// DESIGN: Pricing is a pure lookup keyed by provider model ID. The Tracker
// accumulates what the session has spent so far. Enabled controls whether
// new requests are refused once SessionCap is reached.
package costcontrol

import "fmt"

// CostControlConfig holds cost control settings.
type CostControlConfig struct {
	Enabled    bool    `yaml:"enabled"`     // Whether the spend cap is enforced
	SessionCap float64 `yaml:"session_cap"` // Cents per session. 0 = unlimited.
}

// Validate checks cost control configuration.
func (c *CostControlConfig) Validate() error {
	if c.SessionCap < 0 {
		return fmt.Errorf("cost_control.session_cap must be >= 0, got %f", c.SessionCap)
	}
	return nil
}

// Usage is an accumulated token and cost total.
type Usage struct {
	Requests     int
	InputTokens  int
	OutputTokens int
	Cost         float64
}

// TotalTokens returns input plus output tokens.
func (u Usage) TotalTokens() int {
	return u.InputTokens + u.OutputTokens
}

// ModelUsage is the usage attributed to a single model.
type ModelUsage struct {
	Model string
	Usage
}

// BudgetCheckResult holds the result of a budget check.
type BudgetCheckResult struct {
	Allowed     bool
	CurrentCost float64
	Cap         float64
}
