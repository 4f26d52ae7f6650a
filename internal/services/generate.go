package services

import (
	"context"
	"time"

	"github.com/Conceptual-Machines/harmonix-api/internal/llm"
	"github.com/Conceptual-Machines/harmonix-api/internal/logger"
	"github.com/Conceptual-Machines/harmonix-api/internal/metrics"
	"github.com/Conceptual-Machines/harmonix-api/internal/observability"
)

// generator runs one LLM call with tracing, metrics and logging around it
type generator struct {
	provider llm.Provider
	model    string
	recorder metrics.Recorder
}

func newGenerator(provider llm.Provider, model string, recorder metrics.Recorder) *generator {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &generator{provider: provider, model: model, recorder: recorder}
}

func (g *generator) generate(ctx context.Context, operation string, request *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	request.Model = g.model

	trace := observability.GetClient().StartTrace(ctx, operation, map[string]interface{}{
		"provider": g.provider.Name(),
	})
	defer trace.Finish()
	gen := trace.Generation(operation, map[string]interface{}{"json_output": request.JSONOutput})
	defer gen.Finish()

	start := time.Now()
	resp, err := g.provider.Generate(ctx, request)
	duration := time.Since(start)
	g.recorder.RecordProviderCall(ctx, g.provider.Name(), operation, duration, err == nil)

	if err != nil {
		gen.SetLevel("ERROR")
		gen.Metadata(map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	gen.Record(g.model, request.Prompt, resp.Text, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	g.recorder.RecordTokenUsage(ctx, g.provider.Name(), g.model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	logger.LogGenerationRequest(ctx, g.provider.Name(), g.model, duration,
		resp.Usage.InputTokens, resp.Usage.OutputTokens, logger.Fields{"operation": operation})

	return resp, nil
}
