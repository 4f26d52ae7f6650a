package handlers

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/Conceptual-Machines/harmonix-api/internal/logger"
	"github.com/Conceptual-Machines/harmonix-api/internal/models"
	"github.com/gin-gonic/gin"
)

const minQueryLength = 2

// SongFinder looks up and rewrites chord sheets
type SongFinder interface {
	Lookup(ctx context.Context, query string) (*models.SongChords, error)
	LookupPayload(ctx context.Context, query string) (*models.SongPayload, error)
	Enhance(ctx context.Context, lyricsWithChords, userRequest string) (string, error)
	EnhanceSong(ctx context.Context, prompt string, song map[string]any) (*models.SongPayload, error)
}

// SongHandler serves song lookup and chord-sheet enhancement requests
type SongHandler struct {
	songs SongFinder
}

// NewSongHandler creates a song handler backed by songs
func NewSongHandler(songs SongFinder) *SongHandler {
	return &SongHandler{songs: songs}
}

// SongResponse wraps a song payload for the web client
type SongResponse struct {
	Song *models.SongPayload `json:"song"`
}

// SearchSongs handles song lookups from the web client
// GET /api/songs?query=<q>
func (h *SongHandler) SearchSongs(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if utf8.RuneCountInString(query) < minQueryLength {
		badRequest(c, detailKey, "query must be at least 2 characters")
		return
	}

	song, err := h.songs.LookupPayload(c.Request.Context(), query)
	if err != nil {
		// Every lookup failure is reported as an upstream failure to the client
		respondErrorStatus(c, detailKey, http.StatusBadGateway, err)
		return
	}

	fields := logger.WithContext(c)
	fields["query"] = query
	fields["title"] = song.Title
	logger.Info("Song found", fields)

	c.JSON(http.StatusOK, SongResponse{Song: song})
}

// EnhanceSongRequest is the body of POST /api/ai/enhance
type EnhanceSongRequest struct {
	Prompt string         `json:"prompt"`
	Song   map[string]any `json:"song"`
}

// EnhanceSong rewrites a song payload with the LLM
// POST /api/ai/enhance
func (h *SongHandler) EnhanceSong(c *gin.Context) {
	var req EnhanceSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, detailKey, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" || len(req.Song) == 0 {
		badRequest(c, detailKey, "prompt and song are required")
		return
	}

	song, err := h.songs.EnhanceSong(c.Request.Context(), req.Prompt, req.Song)
	if err != nil {
		respondError(c, detailKey, err)
		return
	}

	c.JSON(http.StatusOK, SongResponse{Song: song})
}

// SongTitleRequest is the optional JSON body of GET /get_chords
type SongTitleRequest struct {
	SongTitle string `json:"song_title"`
}

// GetChords is the legacy song lookup returning the raw SongChords shape
// GET /get_chords?song_title=<q>
func (h *SongHandler) GetChords(c *gin.Context) {
	title := strings.TrimSpace(c.Query("song_title"))
	if title == "" && c.Request.ContentLength != 0 {
		// Older clients send the title as a JSON body on the GET
		var req SongTitleRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			title = strings.TrimSpace(req.SongTitle)
		}
	}
	if title == "" {
		badRequest(c, errorKey, "song_title is required")
		return
	}

	song, err := h.songs.Lookup(c.Request.Context(), title)
	if err != nil {
		respondError(c, errorKey, err)
		return
	}

	c.JSON(http.StatusOK, song)
}

// EnhanceChordsRequest is the body of POST /enhance_chords
type EnhanceChordsRequest struct {
	LyricsWithChords string `json:"lyrics_with_chords"`
	UserRequest      string `json:"user_request"`
}

// EnhanceChords is the legacy sheet rewrite returning plain text
// POST /enhance_chords
func (h *SongHandler) EnhanceChords(c *gin.Context) {
	var req EnhanceChordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, errorKey, "invalid request body")
		return
	}

	enhanced, err := h.songs.Enhance(c.Request.Context(), req.LyricsWithChords, req.UserRequest)
	if err != nil {
		respondError(c, errorKey, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enhanced_content": enhanced})
}
