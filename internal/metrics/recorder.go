package metrics

import (
	"context"
	"time"
)

// Recorder receives request and provider metrics
type Recorder interface {
	RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration)
	RecordProviderCall(ctx context.Context, provider, operation string, duration time.Duration, success bool)
	RecordTokenUsage(ctx context.Context, provider, model string, inputTokens, outputTokens int64)
}

// Multi fans every metric out to all recorders
type Multi []Recorder

// RecordAPIRequest implements Recorder
func (m Multi) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	for _, r := range m {
		r.RecordAPIRequest(ctx, endpoint, statusCode, duration)
	}
}

// RecordProviderCall implements Recorder
func (m Multi) RecordProviderCall(ctx context.Context, provider, operation string, duration time.Duration, success bool) {
	for _, r := range m {
		r.RecordProviderCall(ctx, provider, operation, duration, success)
	}
}

// RecordTokenUsage implements Recorder
func (m Multi) RecordTokenUsage(ctx context.Context, provider, model string, inputTokens, outputTokens int64) {
	for _, r := range m {
		r.RecordTokenUsage(ctx, provider, model, inputTokens, outputTokens)
	}
}

// Nop discards all metrics
type Nop struct{}

// RecordAPIRequest implements Recorder
func (Nop) RecordAPIRequest(context.Context, string, int, time.Duration) {}

// RecordProviderCall implements Recorder
func (Nop) RecordProviderCall(context.Context, string, string, time.Duration, bool) {}

// RecordTokenUsage implements Recorder
func (Nop) RecordTokenUsage(context.Context, string, string, int64, int64) {}
