package costcontrol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable_KnownModels(t *testing.T) {
	tests := []struct {
		model      string
		wantInput  float64
		wantOutput float64
	}{
		{"gpt-3.5-turbo", 0.1, 0.2},
		{"gpt-4", 3, 6},
		{"gpt-4-turbo", 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			in, err := DefaultTable().Price(tt.model, 1000, 0)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantInput, in, 1e-9)

			out, err := DefaultTable().Price(tt.model, 0, 1000)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantOutput, out, 1e-9)
		})
	}
}

func TestTablePrice(t *testing.T) {
	table := DefaultTable()

	// 1000 input + 500 output on gpt-4: 3 + 3 cents
	cost, err := table.Price("gpt-4", 1000, 500)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, cost, 1e-9)

	cost, err = table.Price("gpt-3.5-turbo", 10, 20)
	require.NoError(t, err)
	assert.InDelta(t, 10*0.0001+20*0.0002, cost, 1e-12)
}

func TestTablePrice_Zero(t *testing.T) {
	cost, err := DefaultTable().Price("gpt-4-turbo", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cost)
}

func TestTablePrice_UnknownModel(t *testing.T) {
	cost, err := DefaultTable().Price("gpt-5", 100, 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnpricedModel))
	assert.Contains(t, err.Error(), "gpt-5")
	assert.Equal(t, 0.0, cost)
}

func TestTablePrice_Linear(t *testing.T) {
	table := DefaultTable()
	for _, model := range []string{"gpt-3.5-turbo", "gpt-4", "gpt-4-turbo"} {
		t.Run(model, func(t *testing.T) {
			a, b, c := 137, 4096, 512

			whole, err := table.Price(model, a+b, c)
			require.NoError(t, err)
			left, err := table.Price(model, a, c)
			require.NoError(t, err)
			right, err := table.Price(model, b, 0)
			require.NoError(t, err)
			assert.InDelta(t, whole, left+right, 1e-9)

			outWhole, err := table.Price(model, 0, a+b)
			require.NoError(t, err)
			outA, _ := table.Price(model, 0, a)
			outB, _ := table.Price(model, 0, b)
			assert.InDelta(t, outWhole, outA+outB, 1e-9)
		})
	}
}

func TestNewTable_CustomRates(t *testing.T) {
	table := NewTable(map[string]ModelPricing{"local": {InputPerKTok: 2, OutputPerKTok: 4}})

	cost, err := table.Price("local", 500, 250)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, cost, 1e-9)

	_, err = table.Price("gpt-4", 1, 1)
	assert.ErrorIs(t, err, ErrUnpricedModel)
}
