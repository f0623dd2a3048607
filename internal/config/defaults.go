// Package config - defaults.go centralizes magic numbers and default values.
//
// DESIGN: All default values that appear in multiple places should be defined here.
// This makes configuration more maintainable and auditable.
package config

import "time"

// =============================================================================
// CREDENTIALS AND ENDPOINTS
// =============================================================================

// APIKeyEnv is the environment variable holding the provider API key.
const APIKeyEnv = "OPENAI_API_KEY"

// BaseURLEnv overrides the API base URL (OpenAI-compatible servers).
const BaseURLEnv = "OPENAI_BASE_URL"

// ModelEnv overrides the starting model tier.
const ModelEnv = "TURNCHAT_MODEL"

// DefaultBaseURL is the production chat completions API base URL.
const DefaultBaseURL = "https://api.openai.com/v1"

// AppDirName is the directory under the user's config dir holding
// config.yaml and an optional .env.
const AppDirName = "turnchat"

// =============================================================================
// SESSION DEFAULTS
// =============================================================================

// DefaultMaxOutputTokens caps each model response.
const DefaultMaxOutputTokens = 512

// MaxOutputTokensLimit is the largest accepted max_output_tokens.
const MaxOutputTokensLimit = 65535

// DefaultCarryContext is whether history is resent without a marker.
const DefaultCarryContext = false

// =============================================================================
// TERMINAL MARKERS
// =============================================================================

// CommandMarker prefixes session commands (":help").
const CommandMarker = ':'

// ContinuationMarker prefixes a line that keeps the previous context for
// this one request ("|and then?").
const ContinuationMarker = '|'

// =============================================================================
// HTTP AND NETWORKING
// =============================================================================

// DefaultConnectTimeout bounds dialing and TLS setup. Streaming reads are
// not bounded; a response runs until the server ends it or the user
// interrupts.
const DefaultConnectTimeout = 30 * time.Second

// MaxErrorBodyLen limits how much of a failed response body is read.
const MaxErrorBodyLen = 64 * 1024

// =============================================================================
// LOGGING
// =============================================================================

// DefaultLogLevel keeps diagnostics out of the chat unless asked for.
const DefaultLogLevel = "warn"
