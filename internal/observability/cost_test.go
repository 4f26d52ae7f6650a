package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCost(t *testing.T) {
	tests := []struct {
		name   string
		model  string
		input  int64
		output int64
		want   float64
	}{
		{"gemini flash", "gemini-2.5-flash", 1000, 1000, 0.0028},
		{"versioned name uses base entry", "gpt-4.1-mini-2025-04-14", 1000, 0, 0.0004},
		{"longest prefix wins", "gemini-2.5-flash-lite-preview", 0, 1000, 0.0004},
		{"unknown model falls back", "mystery-model", 1000, 0, 0.0003},
		{"zero tokens", "gpt-4.1", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateCost(tt.model, tt.input, tt.output), 1e-9)
		})
	}
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.002800", FormatCost(0.0028))
	assert.Equal(t, "$0.000000", FormatCost(0))
}

func TestDisabledClientIsNoop(t *testing.T) {
	client := &LangfuseClient{}
	assert.False(t, client.IsEnabled())

	trace := client.StartTrace(t.Context(), "chord_lookup", nil)
	gen := trace.Generation("llm", nil)
	gen.Record("gemini-2.5-flash", "prompt", "output", 10, 5)
	gen.Metadata(map[string]interface{}{"k": "v"})
	gen.SetLevel("ERROR")
	gen.Finish()
	trace.Finish()
}
