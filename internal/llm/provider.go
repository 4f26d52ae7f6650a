package llm

import (
	"context"
	"strings"
)

// Provider defines the interface for text-generation backends
type Provider interface {
	// Generate sends a single prompt and returns the model's text output
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// GenerationRequest contains all parameters needed for generation
type GenerationRequest struct {
	Model        string
	SystemPrompt string
	Prompt       string
	// JSONOutput asks the backend for a bare JSON object when it supports it
	JSONOutput bool
}

// GenerationResponse contains the result from the LLM
type GenerationResponse struct {
	Text  string     `json:"text"`
	Usage TokenUsage `json:"usage"`
}

// TokenUsage is the provider-neutral token accounting for one call
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}

// StripCodeFences removes a surrounding markdown code block (```json ... ```)
func StripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```")
	// Drop the info string (e.g. "json") on the opening fence
	if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 {
		cleaned = cleaned[idx+1:]
	} else {
		cleaned = ""
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
