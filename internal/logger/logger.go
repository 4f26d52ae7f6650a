package logger

import (
	"context"
	"io"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// Fields represents structured log fields
type Fields map[string]interface{}

var std = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.RFC3339,
	Prefix:          "harmonix",
})

// SetLevel sets the minimum level from its name ("debug", "info", "warn", "error").
// Unknown names keep the current level and are reported back as an error.
func SetLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	std.SetLevel(lvl)
	return nil
}

// SetOutput redirects log output, mainly for tests and the CLI.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// WithContext extracts request context for logging
func WithContext(c *gin.Context) Fields {
	return Fields{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}
}

// Info logs an informational message with structured fields
func Info(msg string, fields Fields) {
	std.Info(msg, keyvals(fields)...)
	breadcrumb("info", msg, fields, sentry.LevelInfo)
}

// Warn logs a warning message with structured fields
func Warn(msg string, fields Fields) {
	std.Warn(msg, keyvals(fields)...)
	breadcrumb("warning", msg, fields, sentry.LevelWarning)
}

// Debug logs a debug message with structured fields
func Debug(msg string, fields Fields) {
	std.Debug(msg, keyvals(fields)...)
	breadcrumb("debug", msg, fields, sentry.LevelDebug)
}

// Error logs an error message with structured fields and sends to Sentry
func Error(msg string, err error, fields Fields) {
	std.Error(msg, append([]interface{}{"err", err}, keyvals(fields)...)...)

	hub := sentry.CurrentHub()
	if hub.Client() == nil || err == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for key, value := range fields {
			scope.SetContext(key, map[string]interface{}{
				"value": value,
			})
		}

		// Tags for filtering in Sentry
		if requestID, ok := fields["request_id"].(string); ok {
			scope.SetTag("request_id", requestID)
		}
		if provider, ok := fields["provider"].(string); ok {
			scope.SetTag("provider", provider)
		}
		if model, ok := fields["model"].(string); ok {
			scope.SetTag("model", model)
		}

		hub.CaptureException(err)
	})
}

// LogAPIRequest logs API request metrics
func LogAPIRequest(c *gin.Context, duration time.Duration, statusCode int, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}

	fields["duration_ms"] = duration.Milliseconds()
	fields["status_code"] = statusCode
	fields["request_id"] = c.GetString("request_id")
	fields["method"] = c.Request.Method
	fields["path"] = c.Request.URL.Path
	fields["client_ip"] = c.ClientIP()

	switch {
	case statusCode >= 500:
		std.Error("API request completed", keyvals(fields)...)
	case statusCode >= 400:
		std.Warn("API request completed", keyvals(fields)...)
	default:
		std.Info("API request completed", keyvals(fields)...)
	}
	breadcrumb("http", "API request", fields, sentry.LevelInfo)
}

// LogGenerationRequest logs a completed LLM call and records a Sentry span for it
func LogGenerationRequest(ctx context.Context, provider, model string, duration time.Duration, inputTokens, outputTokens int64, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}

	fields["provider"] = provider
	fields["model"] = model
	fields["duration_ms"] = duration.Milliseconds()
	fields["input_tokens"] = inputTokens
	fields["output_tokens"] = outputTokens

	Info("Generation request completed", fields)

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		span := sentry.StartSpan(ctx, provider+".generate")
		span.Description = model
		span.SetData("input_tokens", inputTokens)
		span.SetData("output_tokens", outputTokens)
		span.Finish()
	}
}

// keyvals flattens fields into sorted key/value pairs so output is stable.
func keyvals(fields Fields) []interface{} {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]interface{}, 0, len(fields)*2)
	for _, k := range keys {
		out = append(out, k, fields[k])
	}
	return out
}

func breadcrumb(kind, msg string, fields Fields, level sentry.Level) {
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		data := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			data[k] = v
		}
		hub.AddBreadcrumb(&sentry.Breadcrumb{
			Type:     kind,
			Category: "log",
			Message:  msg,
			Data:     data,
			Level:    level,
		}, nil)
	}
}
