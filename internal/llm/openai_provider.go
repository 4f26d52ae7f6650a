package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/Conceptual-Machines/harmonix-api/internal/logger"
	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

const providerNameOpenAI = "openai"

// OpenAIProvider implements the Provider interface using OpenAI's Responses API
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string, opts ...option.RequestOption) *OpenAIProvider {
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIProvider{
		client: &client,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// Generate implements generation using OpenAI's Responses API
func (p *OpenAIProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	transaction := sentry.StartTransaction(ctx, "openai.generate")
	defer transaction.Finish()

	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameOpenAI)

	params := p.buildRequestParams(request)

	span := transaction.StartChild("openai.api_call")
	start := time.Now()
	resp, err := p.client.Responses.New(ctx, params)
	span.Finish()

	if err != nil {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	text := resp.OutputText()
	if text == "" {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("openai response did not include any output text")
	}

	logger.Debug("OpenAI call completed", logger.Fields{
		"model":         request.Model,
		"duration_ms":   time.Since(start).Milliseconds(),
		"output_length": len(text),
	})
	transaction.SetTag("success", "true")

	return &GenerationResponse{
		Text: text,
		Usage: TokenUsage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// buildRequestParams converts GenerationRequest to OpenAI-specific ResponseNewParams
func (p *OpenAIProvider) buildRequestParams(request *GenerationRequest) responses.ResponseNewParams {
	params := responses.ResponseNewParams{
		Model: request.Model,
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(request.Prompt),
		},
	}
	if request.SystemPrompt != "" {
		params.Instructions = openai.String(request.SystemPrompt)
	}
	if request.JSONOutput {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			},
		}
	}
	return params
}
