package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Conceptual-Machines/harmonix-api/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	endpoint string
	status   int
}

type fakeRecorder struct {
	requests []recordedRequest
}

func (f *fakeRecorder) RecordAPIRequest(_ context.Context, endpoint string, statusCode int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{endpoint: endpoint, status: statusCode})
}

func (f *fakeRecorder) RecordProviderCall(context.Context, string, string, time.Duration, bool) {}

func (f *fakeRecorder) RecordTokenUsage(context.Context, string, string, int64, int64) {}

func TestRequestTracking(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &fakeRecorder{}

	router := gin.New()
	router.Use(RequestTracking(rec))
	router.GET("/api/songs", func(c *gin.Context) {
		assert.NotEmpty(t, c.GetString("request_id"))
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/songs?query=abc", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Len(t, rec.requests, 2)
	assert.Equal(t, recordedRequest{endpoint: "/api/songs", status: http.StatusNoContent}, rec.requests[0])
	assert.Equal(t, recordedRequest{endpoint: "unmatched", status: http.StatusNotFound}, rec.requests[1])
}

func TestRequestTracking_NilRecorder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestTracking(nil))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecoverWithSentry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RecoverWithSentry())
	router.GET("/api/songs", func(*gin.Context) { panic("renderer exploded") })
	router.GET("/get_chords", func(*gin.Context) { panic("renderer exploded") })

	tests := []struct {
		path    string
		wantKey string
		absent  string
	}{
		{"/api/songs", "detail", "error"},
		{"/get_chords", "error", "detail"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.NotContains(t, w.Body.String(), "renderer exploded")

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Internal server error", body[tt.wantKey])
			assert.NotContains(t, body, tt.absent)
		})
	}
}

func TestErrorKeyFor(t *testing.T) {
	assert.Equal(t, "detail", errorKeyFor("/api/chords/diagram"))
	assert.Equal(t, "detail", errorKeyFor("/api"))
	assert.Equal(t, "error", errorKeyFor("/apiary"))
	assert.Equal(t, "error", errorKeyFor("/enhance_chords"))
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		origins     []string
		origin      string
		wantAllowed string
	}{
		{"wildcard", []string{"*"}, "http://localhost:5173", "*"},
		{"empty list allows all", nil, "http://example.com", "*"},
		{"listed origin", []string{"https://harmonix.app"}, "https://harmonix.app", "https://harmonix.app"},
		{"unlisted origin", []string{"https://harmonix.app"}, "https://evil.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(&config.Config{CORSOrigins: tt.origins}))
			router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantAllowed, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
