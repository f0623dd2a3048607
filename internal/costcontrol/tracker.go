package costcontrol

// Tracker accumulates the cost of one chat session and enforces its cap.
// Cost tracking is always active. The cap only applies when Enabled is
// true and SessionCap is positive.
//
// A Tracker belongs to a single session loop and is not safe for
// concurrent use.
type Tracker struct {
	config CostControlConfig
	total  Usage
	models map[string]*ModelUsage
	order  []string // models in order of first use
}

// NewTracker creates a new cost tracker.
func NewTracker(cfg CostControlConfig) *Tracker {
	return &Tracker{
		config: cfg,
		models: make(map[string]*ModelUsage),
	}
}

// CheckBudget reports whether the session may issue another request.
func (t *Tracker) CheckBudget() BudgetCheckResult {
	res := BudgetCheckResult{Allowed: true, CurrentCost: t.total.Cost, Cap: t.config.SessionCap}
	if t.config.Enabled && t.config.SessionCap > 0 && t.total.Cost >= t.config.SessionCap {
		res.Allowed = false
	}
	return res
}

// RecordUsage adds one completed request to the session totals.
func (t *Tracker) RecordUsage(model string, inputTokens, outputTokens int, cost float64) {
	m, ok := t.models[model]
	if !ok {
		m = &ModelUsage{Model: model}
		t.models[model] = m
		t.order = append(t.order, model)
	}
	for _, u := range []*Usage{&t.total, &m.Usage} {
		u.Requests++
		u.InputTokens += inputTokens
		u.OutputTokens += outputTokens
		u.Cost += cost
	}
}

// Totals returns the accumulated session usage.
func (t *Tracker) Totals() Usage {
	return t.total
}

// PerModel returns a copy of per-model usage, in order of first use.
func (t *Tracker) PerModel() []ModelUsage {
	out := make([]ModelUsage, 0, len(t.order))
	for _, model := range t.order {
		out = append(out, *t.models[model])
	}
	return out
}

// Config returns the tracker's config.
func (t *Tracker) Config() CostControlConfig {
	return t.config
}
