package observability

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Conceptual-Machines/harmonix-api/internal/config"
	"github.com/Conceptual-Machines/harmonix-api/internal/logger"
	langfuse "github.com/henomis/langfuse-go"
	"github.com/henomis/langfuse-go/model"
)

// LangfuseClient wraps the Langfuse client with our configuration
type LangfuseClient struct {
	client  *langfuse.Langfuse
	enabled bool
}

var globalClient *LangfuseClient

// InitializeLangfuse initializes the global Langfuse client.
// The SDK only reads credentials from the environment, so values resolved from the
// config file are exported before the client is created.
func InitializeLangfuse(ctx context.Context, cfg *config.Config) *LangfuseClient {
	if !cfg.LangfuseEnabled || cfg.LangfuseSecretKey == "" {
		logger.Debug("Langfuse not configured", logger.Fields{
			"enabled":        cfg.LangfuseEnabled,
			"secret_key_set": cfg.LangfuseSecretKey != "",
		})
		globalClient = &LangfuseClient{enabled: false}
		return globalClient
	}

	if err := exportCredentials(cfg); err != nil {
		logger.Warn("Failed to export Langfuse credentials, tracing disabled", logger.Fields{"error": err.Error()})
		globalClient = &LangfuseClient{enabled: false}
		return globalClient
	}

	globalClient = &LangfuseClient{
		client:  langfuse.New(ctx),
		enabled: true,
	}
	logger.Info("Langfuse initialized", logger.Fields{"host": cfg.LangfuseHost})
	return globalClient
}

// exportCredentials sets the SDK's environment variables from the resolved config.
// Environment values already win over the file in config.Load, so this never changes them.
func exportCredentials(cfg *config.Config) error {
	for key, value := range map[string]string{
		"LANGFUSE_PUBLIC_KEY": cfg.LangfusePublicKey,
		"LANGFUSE_SECRET_KEY": cfg.LangfuseSecretKey,
		"LANGFUSE_HOST":       cfg.LangfuseHost,
	} {
		if value == "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

// GetClient returns the global Langfuse client
func GetClient() *LangfuseClient {
	if globalClient == nil {
		return &LangfuseClient{enabled: false}
	}
	return globalClient
}

// IsEnabled returns whether Langfuse is enabled
func (c *LangfuseClient) IsEnabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Flush sends buffered events; used on shutdown
func (c *LangfuseClient) Flush(ctx context.Context) {
	if c.IsEnabled() {
		c.client.Flush(ctx)
	}
}

// StartTrace starts a new trace in Langfuse
func (c *LangfuseClient) StartTrace(ctx context.Context, name string, metadata map[string]interface{}) *Trace {
	if !c.IsEnabled() {
		return &Trace{ctx: ctx}
	}

	trace, err := c.client.Trace(&model.Trace{
		Name:     name,
		Metadata: metadata,
	})
	if err != nil {
		logger.Warn("Failed to create Langfuse trace", logger.Fields{"name": name, "error": err.Error()})
		return &Trace{ctx: ctx}
	}

	return &Trace{
		trace:   trace,
		enabled: true,
		ctx:     ctx,
		client:  c.client,
	}
}

// Trace represents a Langfuse trace
type Trace struct {
	trace   *model.Trace
	enabled bool
	ctx     context.Context
	client  *langfuse.Langfuse
}

// Generation creates a new generation span within the trace
func (t *Trace) Generation(name string, metadata map[string]interface{}) *Generation {
	if !t.enabled {
		return &Generation{}
	}

	now := time.Now()
	gen, err := t.client.Generation(&model.Generation{
		TraceID:   t.trace.ID,
		Name:      name,
		StartTime: &now,
		Metadata:  metadata,
	}, nil)
	if err != nil {
		logger.Warn("Failed to create Langfuse generation", logger.Fields{"name": name, "error": err.Error()})
		return &Generation{}
	}

	return &Generation{
		generation: gen,
		enabled:    true,
		client:     t.client,
	}
}

// Finish completes the trace and flushes queued events to Langfuse
func (t *Trace) Finish() {
	if t.enabled && t.client != nil {
		t.client.Flush(t.ctx)
	}
}

// Generation represents a Langfuse generation span
type Generation struct {
	generation *model.Generation
	enabled    bool
	client     *langfuse.Langfuse
}

// Record attaches prompt, output, token usage and cost to the generation
func (g *Generation) Record(modelName, input, output string, inputTokens, outputTokens int64) {
	if !g.enabled || g.generation == nil {
		return
	}

	cost := CalculateCost(modelName, inputTokens, outputTokens)
	g.generation.Model = modelName
	g.generation.Input = input
	if output != "" {
		g.generation.Output = output
	}
	g.generation.Usage = model.Usage{
		Input:     int(inputTokens),
		Output:    int(outputTokens),
		Total:     int(inputTokens + outputTokens),
		Unit:      model.ModelUsageUnitTokens,
		TotalCost: cost,
	}
	g.Metadata(map[string]interface{}{"cost_usd": FormatCost(cost)})
}

// Metadata adds metadata to the generation
func (g *Generation) Metadata(metadata map[string]interface{}) {
	if !g.enabled || g.generation == nil {
		return
	}
	md, ok := g.generation.Metadata.(map[string]interface{})
	if !ok || md == nil {
		md = make(map[string]interface{}, len(metadata))
	}
	for k, v := range metadata {
		md[k] = v
	}
	g.generation.Metadata = md
}

// SetLevel sets the level of the generation ("ERROR" marks failed calls)
func (g *Generation) SetLevel(level string) {
	if g.enabled && g.generation != nil {
		g.generation.Level = model.ObservationLevel(level)
	}
}

// Finish completes the generation and queues it for sending
func (g *Generation) Finish() {
	if !g.enabled || g.generation == nil || g.client == nil {
		return
	}
	now := time.Now()
	g.generation.EndTime = &now
	if _, err := g.client.GenerationEnd(g.generation); err != nil {
		logger.Warn("Failed to end Langfuse generation", logger.Fields{"error": err.Error()})
	}
}
