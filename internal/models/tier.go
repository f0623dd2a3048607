// Package models defines the fixed set of model tiers a session can use.
//
// DESIGN: A Tier is what the user picks (via ":model 3|4|4t"); the provider
// model ID is what goes on the wire and what the pricing table is keyed by.
package models

import "strings"

// Tier identifies a model configuration with its own price-per-token rates.
type Tier string

const (
	Fast          Tier = "fast"
	Flagship      Tier = "flagship"
	FlagshipTurbo Tier = "flagship-turbo"
	Unknown       Tier = "unknown"
)

// Default is the tier a fresh session starts with.
const Default = Fast

// tierInfo holds the user-facing code and provider model ID for a tier.
type tierInfo struct {
	code string
	id   string
}

// tiers is ordered cheapest first; help output and Codes() follow this order.
var tiers = []struct {
	tier Tier
	info tierInfo
}{
	{Fast, tierInfo{code: "3", id: "gpt-3.5-turbo"}},
	{Flagship, tierInfo{code: "4", id: "gpt-4"}},
	{FlagshipTurbo, tierInfo{code: "4t", id: "gpt-4-turbo"}},
}

// String returns the tier name.
func (t Tier) String() string {
	return string(t)
}

// ID returns the provider model identifier, or "" for an unknown tier.
func (t Tier) ID() string {
	for _, e := range tiers {
		if e.tier == t {
			return e.info.id
		}
	}
	return ""
}

// Code returns the short code used with the model command.
func (t Tier) Code() string {
	for _, e := range tiers {
		if e.tier == t {
			return e.info.code
		}
	}
	return ""
}

// FromCode converts a model command argument ("3", "4", "4t") to a Tier.
func FromCode(code string) Tier {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, e := range tiers {
		if e.info.code == code {
			return e.tier
		}
	}
	return Unknown
}

// FromString accepts a tier name, a command code or a provider model ID.
// Used for config files and flags where any of the three is convenient.
func FromString(s string) Tier {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, e := range tiers {
		if string(e.tier) == s || e.info.code == s || e.info.id == s {
			return e.tier
		}
	}
	return Unknown
}

// All returns every known tier, cheapest first.
func All() []Tier {
	out := make([]Tier, 0, len(tiers))
	for _, e := range tiers {
		out = append(out, e.tier)
	}
	return out
}

// Codes returns the command codes of every known tier, cheapest first.
func Codes() []string {
	all := All()
	out := make([]string, 0, len(all))
	for _, t := range all {
		out = append(out, t.Code())
	}
	return out
}
