package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	requests, calls, tokens int
}

func (c *countingRecorder) RecordAPIRequest(context.Context, string, int, time.Duration) {
	c.requests++
}

func (c *countingRecorder) RecordProviderCall(context.Context, string, string, time.Duration, bool) {
	c.calls++
}

func (c *countingRecorder) RecordTokenUsage(context.Context, string, string, int64, int64) {
	c.tokens++
}

func TestMulti_FansOut(t *testing.T) {
	a, b := &countingRecorder{}, &countingRecorder{}
	var r Recorder = Multi{a, b, Nop{}}
	ctx := context.Background()

	r.RecordAPIRequest(ctx, "/health", 200, time.Millisecond)
	r.RecordProviderCall(ctx, "firecrawl", "search", time.Second, true)
	r.RecordProviderCall(ctx, "firecrawl", "scrape", time.Second, false)
	r.RecordTokenUsage(ctx, "gemini", "gemini-2.5-flash", 10, 5)

	for _, c := range []*countingRecorder{a, b} {
		assert.Equal(t, 1, c.requests)
		assert.Equal(t, 2, c.calls)
		assert.Equal(t, 1, c.tokens)
	}
}

func TestNewClient_DisabledOutsideProduction(t *testing.T) {
	client, err := NewClient(context.Background(), "development")
	require.NoError(t, err)
	assert.False(t, client.Enabled())

	// Disabled client must not spawn work or panic
	client.RecordAPIRequest(context.Background(), "/api/songs", 502, time.Second)
	client.RecordProviderCall(context.Background(), "gemini", "generate", time.Second, false)
	client.RecordTokenUsage(context.Background(), "gemini", "gemini-2.5-flash", 1, 1)
}

func TestSentryMetrics_WithoutHub(t *testing.T) {
	m := NewSentryMetrics()
	ctx := context.Background()
	m.RecordAPIRequest(ctx, "/health", 200, time.Millisecond)
	m.RecordProviderCall(ctx, "openai", "generate", time.Millisecond, true)
	m.RecordTokenUsage(ctx, "openai", "gpt-4.1-mini", 3, 4)
}

func TestBoolToString(t *testing.T) {
	assert.Equal(t, "true", boolToString(true))
	assert.Equal(t, "false", boolToString(false))
	assert.Equal(t, sentry.SpanStatusOK, spanStatus(true))
	assert.Equal(t, sentry.SpanStatusInternalError, spanStatus(false))
}
