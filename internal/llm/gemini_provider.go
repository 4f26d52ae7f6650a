package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Conceptual-Machines/harmonix-api/internal/logger"
	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"
)

const (
	providerNameGemini = "gemini"
	mimeTypeJSON       = "application/json"
	geminiUserRole     = "user"
)

// GeminiProvider implements the Provider interface using Google's Gemini API
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// Generate implements generation using Gemini's GenerateContent API
func (p *GeminiProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	transaction := sentry.StartTransaction(ctx, "gemini.generate")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameGemini)

	contents := p.buildGeminiContents(request.Prompt)
	if len(contents) == 0 {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("gemini request has an empty prompt")
	}

	span := transaction.StartChild("gemini.api_call")
	start := time.Now()
	result, err := p.client.Models.GenerateContent(ctx, request.Model, contents, p.buildConfig(request))
	span.Finish()

	if err != nil {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	response, err := p.processGeminiResponse(result)
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, err
	}

	logger.Debug("Gemini call completed", logger.Fields{
		"model":         request.Model,
		"duration_ms":   time.Since(start).Milliseconds(),
		"output_length": len(response.Text),
	})
	transaction.SetTag("success", "true")
	return response, nil
}

// buildGeminiContents wraps the prompt as a single user turn
func (p *GeminiProvider) buildGeminiContents(prompt string) []*genai.Content {
	if strings.TrimSpace(prompt) == "" {
		return nil
	}
	return []*genai.Content{{
		Role:  geminiUserRole,
		Parts: []*genai.Part{{Text: prompt}},
	}}
}

// buildConfig maps the request options onto a Gemini generation config
func (p *GeminiProvider) buildConfig(request *GenerationRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if request.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: request.SystemPrompt}},
		}
	}
	if request.JSONOutput {
		config.ResponseMIMEType = mimeTypeJSON
	}
	return config
}

// processGeminiResponse converts a Gemini response to our GenerationResponse
func (p *GeminiProvider) processGeminiResponse(result *genai.GenerateContentResponse) (*GenerationResponse, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in Gemini response")
	}

	candidate := result.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no parts in Gemini response")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && !part.Thought {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("gemini response did not include any output text")
	}

	response := &GenerationResponse{Text: text.String()}
	if result.UsageMetadata != nil {
		response.Usage = TokenUsage{
			InputTokens:  int64(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int64(result.UsageMetadata.TotalTokenCount),
		}
	}
	return response, nil
}
