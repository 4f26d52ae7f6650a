package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/Conceptual-Machines/harmonix-api/internal/logger"
	"github.com/Conceptual-Machines/harmonix-api/internal/metrics"
	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	httpStatusInternalServerError = http.StatusInternalServerError
	sentryFlushTimeout            = 2 * time.Second
	requestIDHeader               = "X-Request-ID"
)

// RequestTracking adds a request ID, structured request logging and API metrics
func RequestTracking(recorder metrics.Recorder) gin.HandlerFunc {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)

		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.Scope().SetTag("request_id", requestID)
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)
		statusCode := c.Writer.Status()

		logger.LogAPIRequest(c, duration, statusCode, nil)

		// Route template keeps metric cardinality bounded
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		recorder.RecordAPIRequest(c.Request.Context(), endpoint, statusCode, duration)
	}
}

// SentryMiddleware returns the Sentry middleware with custom configuration
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         sentryFlushTimeout,
	})
}

// RecoverWithSentry recovers from panics and sends them to Sentry
func RecoverWithSentry() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				if hub := sentrygin.GetHubFromContext(c); hub != nil {
					hub.WithScope(func(scope *sentry.Scope) {
						scope.SetRequest(c.Request)
						scope.SetContext("request", map[string]interface{}{
							"request_id": c.GetString("request_id"),
							"method":     c.Request.Method,
							"path":       c.Request.URL.Path,
							"client_ip":  c.ClientIP(),
						})
						hub.RecoverWithContext(c.Request.Context(), err)
					})
				}

				logger.Error("Panic recovered", nil, logger.Fields{
					"request_id": c.GetString("request_id"),
					"panic":      err,
					"path":       c.Request.URL.Path,
				})

				c.AbortWithStatusJSON(httpStatusInternalServerError, gin.H{
					errorKeyFor(c.Request.URL.Path): "Internal server error",
					"request_id":                    c.GetString("request_id"),
				})
			}
		}()
		c.Next()
	}
}

// errorKeyFor picks the envelope key the route's clients read: "detail" under /api, "error" elsewhere
func errorKeyFor(path string) string {
	if path == "/api" || strings.HasPrefix(path, "/api/") {
		return "detail"
	}
	return "error"
}
