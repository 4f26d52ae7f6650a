package observability

import (
	"strconv"
	"strings"
)

// Pricing constants
const (
	tokensPerKilo       = 1000.0
	costFormatPrecision = 6
)

// ModelPricing contains pricing information per 1K tokens
type ModelPricing struct {
	InputPricePer1K  float64 // Price per 1K input tokens in USD
	OutputPricePer1K float64 // Price per 1K output tokens in USD
}

// PricingTable contains list pricing for the models we route to
var PricingTable = map[string]ModelPricing{
	"gemini-2.5-flash":      {InputPricePer1K: 0.0003, OutputPricePer1K: 0.0025},
	"gemini-2.5-flash-lite": {InputPricePer1K: 0.0001, OutputPricePer1K: 0.0004},
	"gemini-2.5-pro":        {InputPricePer1K: 0.00125, OutputPricePer1K: 0.01},
	"gpt-4.1":               {InputPricePer1K: 0.002, OutputPricePer1K: 0.008},
	"gpt-4.1-mini":          {InputPricePer1K: 0.0004, OutputPricePer1K: 0.0016},
	"gpt-4o-mini":           {InputPricePer1K: 0.00015, OutputPricePer1K: 0.0006},
}

const defaultPricingModel = "gemini-2.5-flash"

// CalculateCost calculates the estimated USD cost of one call.
// Versioned model names ("gpt-4.1-mini-2025-04-14") match their base entry.
func CalculateCost(model string, inputTokens, outputTokens int64) float64 {
	pricing := lookupPricing(model)
	inputCost := (float64(inputTokens) / tokensPerKilo) * pricing.InputPricePer1K
	outputCost := (float64(outputTokens) / tokensPerKilo) * pricing.OutputPricePer1K
	return inputCost + outputCost
}

func lookupPricing(model string) ModelPricing {
	if pricing, ok := PricingTable[model]; ok {
		return pricing
	}
	best := ""
	for name := range PricingTable {
		if strings.HasPrefix(model, name) && len(name) > len(best) {
			best = name
		}
	}
	if best != "" {
		return PricingTable[best]
	}
	return PricingTable[defaultPricingModel]
}

// FormatCost formats a cost value as a USD string
func FormatCost(cost float64) string {
	return "$" + strconv.FormatFloat(cost, 'f', costFormatPrecision, 64)
}
