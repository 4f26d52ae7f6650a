package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Conceptual-Machines/harmonix-api/internal/config"
	"github.com/Conceptual-Machines/harmonix-api/internal/models"
	"github.com/Conceptual-Machines/harmonix-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubChords struct{}

func (stubChords) Lookup(_ context.Context, chordName string) (*models.ChordDiagram, error) {
	if chordName == "" {
		return nil, &services.ValidationError{Message: "chord name is required"}
	}
	return &models.ChordDiagram{Chord: chordName, Notes: []string{"A3", "C4", "E4"}, Diagram: "iVBORw0KGgo="}, nil
}

type stubSongs struct{}

func (stubSongs) Lookup(context.Context, string) (*models.SongChords, error) {
	return nil, &services.ProviderError{Message: "song search failed"}
}

func (stubSongs) LookupPayload(context.Context, string) (*models.SongPayload, error) {
	return &models.SongPayload{ID: "song-1", Title: "Yesterday", Source: "Scraped"}, nil
}

func (stubSongs) Enhance(context.Context, string, string) (string, error) {
	return "", &services.ParseError{Message: "unparseable"}
}

func (stubSongs) EnhanceSong(context.Context, string, map[string]any) (*models.SongPayload, error) {
	return &models.SongPayload{ID: "ai-1", Source: "AI"}, nil
}

func TestSetupRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{CORSOrigins: []string{"*"}, LLMProvider: "gemini", LLMModel: "gemini-2.5-flash"}
	router := SetupRouter(cfg, Dependencies{Chords: stubChords{}, Songs: stubSongs{}}, "test")

	tests := []struct {
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/songs?query=yesterday", "", http.StatusOK},
		{http.MethodPost, "/api/ai/enhance", `{"prompt":"x","song":{"body":"F"}}`, http.StatusOK},
		{http.MethodPost, "/api/chords/diagram", `{"chord":"Am"}`, http.StatusOK},
		{http.MethodPost, "/api/chords/diagram", `{"chord":""}`, http.StatusBadRequest},
		{http.MethodGet, "/get_chords?song_title=yesterday", "", http.StatusBadGateway},
		{http.MethodPost, "/enhance_chords", `{"lyrics_with_chords":"F","user_request":"x"}`, http.StatusUnprocessableEntity},
		{http.MethodGet, "/missing", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			var req *http.Request
			if tt.body == "" {
				req = httptest.NewRequest(tt.method, tt.target, nil)
			} else {
				req = httptest.NewRequestWithContext(t.Context(), tt.method, tt.target, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			}
			req.Header.Set("Origin", "http://localhost:5173")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
