package costcontrol

import (
	"errors"
	"fmt"
)

// ModelPricing holds per-thousand-token pricing for a model.
// Amounts are in cents; the usage summary prints them with a "p" suffix.
type ModelPricing struct {
	InputPerKTok  float64 // cents per thousand input tokens
	OutputPerKTok float64 // cents per thousand output tokens
}

// modelPricingTable maps provider model IDs to their pricing.
var modelPricingTable = map[string]ModelPricing{
	"gpt-3.5-turbo": {InputPerKTok: 0.1, OutputPerKTok: 0.2},
	"gpt-4":         {InputPerKTok: 3, OutputPerKTok: 6},
	"gpt-4-turbo":   {InputPerKTok: 1, OutputPerKTok: 3},
}

// ErrUnpricedModel is returned by Table.Price for a model with no rates.
var ErrUnpricedModel = errors.New("unpriced model")

// UnpricedCost is what callers display when Price fails, so an unpriced
// model shows up as an obvious anomaly instead of a zero.
const UnpricedCost = 99999.0

// tokenRate is a ModelPricing pre-divided into per-token constants.
type tokenRate struct {
	input  float64
	output float64
}

// Table prices token counts per model.
type Table struct {
	rates map[string]tokenRate
}

// NewTable builds a Table from per-thousand-token prices.
func NewTable(prices map[string]ModelPricing) *Table {
	t := &Table{rates: make(map[string]tokenRate, len(prices))}
	for model, p := range prices {
		t.rates[model] = tokenRate{
			input:  p.InputPerKTok / 1_000,
			output: p.OutputPerKTok / 1_000,
		}
	}
	return t
}

// DefaultTable returns a Table over the built-in tier prices.
func DefaultTable() *Table {
	return NewTable(modelPricingTable)
}

// Price computes inputTokens*rateIn + outputTokens*rateOut for model.
func (t *Table) Price(model string, inputTokens, outputTokens int) (float64, error) {
	r, ok := t.rates[model]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnpricedModel, model)
	}
	return float64(inputTokens)*r.input + float64(outputTokens)*r.output, nil
}
