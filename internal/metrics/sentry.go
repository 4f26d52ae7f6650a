package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
)

// SentryMetrics records metrics as Sentry performance spans
type SentryMetrics struct{}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	success := statusCode < successStatusCodeThreshold
	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetTag("success", fmt.Sprintf("%t", success))
	span.SetData("duration_ms", duration.Milliseconds())

	span.Status = spanStatus(success)
	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// RecordProviderCall records a call to an upstream provider
func (m *SentryMetrics) RecordProviderCall(ctx context.Context, provider, operation string, duration time.Duration, success bool) {
	span := sentry.StartSpan(ctx, "provider."+operation)
	defer span.Finish()

	span.SetTag("provider", provider)
	span.SetTag("success", fmt.Sprintf("%t", success))
	span.SetData("duration_ms", duration.Milliseconds())

	span.Status = spanStatus(success)
	span.Description = fmt.Sprintf("%s %s", provider, operation)
}

// RecordTokenUsage attaches token counts to the current transaction
func (m *SentryMetrics) RecordTokenUsage(ctx context.Context, provider, model string, inputTokens, outputTokens int64) {
	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("llm.provider", provider)
		transaction.SetTag("llm.model", model)
		transaction.SetData("llm.input_tokens", inputTokens)
		transaction.SetData("llm.output_tokens", outputTokens)
	}
}

func spanStatus(success bool) sentry.SpanStatus {
	if success {
		return sentry.SpanStatusOK
	}
	return sentry.SpanStatusInternalError
}
