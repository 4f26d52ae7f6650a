package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Conceptual-Machines/harmonix-api/internal/firecrawl"
	"github.com/Conceptual-Machines/harmonix-api/internal/llm"
	"github.com/Conceptual-Machines/harmonix-api/internal/metrics"
	"github.com/Conceptual-Machines/harmonix-api/internal/models"
	"github.com/Conceptual-Machines/harmonix-api/internal/music"
	"github.com/Conceptual-Machines/harmonix-api/internal/prompt"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	searchSuffix = " Chords from Ultimate Guitar"
	searchLimit  = 1

	sourceScraped = "Scraped"
	sourceAI      = "AI"

	defaultTitle  = "Untitled Sheet"
	defaultArtist = "Unknown Artist"
)

// bodyKeys are the song fields that may carry the chord sheet, in priority order
var bodyKeys = []string{"body", "sheet", "lyrics", "lyrics_with_chords"}

// SongSource finds chord-sheet pages and extracts structured data from them
type SongSource interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]firecrawl.SearchResult, error)
	Scrape(ctx context.Context, url string, schema map[string]any) (json.RawMessage, error)
}

// SongService looks up chord sheets and rewrites them with the LLM
type SongService struct {
	source   SongSource
	gen      *generator
	prompts  *prompt.Builder
	validate *validator.Validate
	recorder metrics.Recorder
}

// NewSongService creates a song service. provider may be nil, in which case
// enhancement requests fail with a ProviderError.
func NewSongService(source SongSource, provider llm.Provider, model string, recorder metrics.Recorder) *SongService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	s := &SongService{
		source:   source,
		prompts:  prompt.NewPromptBuilder(),
		validate: newValidator(),
		recorder: recorder,
	}
	if provider != nil {
		s.gen = newGenerator(provider, model, recorder)
	}
	return s
}

// scrapedSong mirrors models.SongChords with pointers so a missing field is
// distinguishable from an empty one.
type scrapedSong struct {
	SongTitle        *string  `json:"song_title" validate:"required"`
	Artist           *string  `json:"artist" validate:"required"`
	Chords           []string `json:"chords"`
	LyricsWithChords *string  `json:"lyrics_with_chords" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names in validation errors
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Lookup finds the chord sheet for a free-text song query
func (s *SongService) Lookup(ctx context.Context, query string) (*models.SongChords, error) {
	song, _, err := s.lookup(ctx, query)
	return song, err
}

// LookupPayload finds the chord sheet for a query and shapes it for the web client
func (s *SongService) LookupPayload(ctx context.Context, query string) (*models.SongPayload, error) {
	song, url, err := s.lookup(ctx, query)
	if err != nil {
		return nil, err
	}
	return NewSongPayload(song, url), nil
}

func (s *SongService) lookup(ctx context.Context, query string) (*models.SongChords, string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, "", &ValidationError{Message: "song query is required"}
	}

	start := time.Now()
	results, err := s.source.Search(ctx, query+searchSuffix, searchLimit)
	s.recorder.RecordProviderCall(ctx, s.source.Name(), "search", time.Since(start), err == nil)
	if err != nil {
		return nil, "", &ProviderError{Provider: s.source.Name(), Message: "song search failed", Err: err}
	}

	url := ""
	if len(results) > 0 {
		url = strings.TrimSpace(results[0].URL)
	}
	if !strings.HasPrefix(url, "http") && !strings.HasPrefix(url, "www") {
		return nil, "", &ValidationError{Message: "no results for the given prompt"}
	}

	start = time.Now()
	raw, err := s.source.Scrape(ctx, url, models.SongChordsSchema())
	s.recorder.RecordProviderCall(ctx, s.source.Name(), "scrape", time.Since(start), err == nil)
	if err != nil {
		return nil, "", &ProviderError{Provider: s.source.Name(), Message: "song scrape failed", Err: err}
	}

	song, err := s.decodeSong(raw)
	if err != nil {
		return nil, "", err
	}
	return song, url, nil
}

// decodeSong validates scraped JSON into SongChords
func (s *SongService) decodeSong(raw json.RawMessage) (*models.SongChords, error) {
	var scraped scrapedSong
	if err := json.Unmarshal(raw, &scraped); err != nil {
		return nil, &ValidationError{Message: "scraped song has an unexpected shape", Err: err}
	}

	if err := s.validate.Struct(scraped); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			missing := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				missing = append(missing, fe.Field())
			}
			return nil, &ValidationError{
				Message: "scraped song is missing required fields: " + strings.Join(missing, ", "),
				Err:     err,
			}
		}
		return nil, &ValidationError{Message: "scraped song failed validation", Err: err}
	}

	return &models.SongChords{
		SongTitle:        *scraped.SongTitle,
		Artist:           *scraped.Artist,
		Chords:           scraped.Chords,
		LyricsWithChords: *scraped.LyricsWithChords,
	}, nil
}

// Enhance rewrites a lyrics-with-chords sheet according to the user's request
func (s *SongService) Enhance(ctx context.Context, lyricsWithChords, userRequest string) (string, error) {
	if strings.TrimSpace(lyricsWithChords) == "" || strings.TrimSpace(userRequest) == "" {
		return "", &ValidationError{Message: "lyrics_with_chords and user_request are required"}
	}
	if s.gen == nil {
		return "", &ProviderError{Message: "AI enhancement is not configured"}
	}

	text, err := s.prompts.BuildEnhancePrompt(lyricsWithChords, strings.TrimSpace(userRequest))
	if err != nil {
		return "", err
	}

	resp, err := s.gen.generate(ctx, "song_enhance", &llm.GenerationRequest{Prompt: text})
	if err != nil {
		return "", &ProviderError{Provider: s.gen.provider.Name(), Message: "AI enhancement failed", Err: err}
	}

	enhanced := llm.StripCodeFences(resp.Text)
	if enhanced == "" {
		return "", &ProviderError{Provider: s.gen.provider.Name(), Message: "AI returned an empty response"}
	}
	return enhanced, nil
}

// EnhanceSong rewrites a client song payload and returns it as a new AI version
func (s *SongService) EnhanceSong(ctx context.Context, userPrompt string, song map[string]any) (*models.SongPayload, error) {
	if strings.TrimSpace(userPrompt) == "" {
		return nil, &ValidationError{Message: "prompt is required"}
	}
	if len(song) == 0 {
		return nil, &ValidationError{Message: "song is required"}
	}

	body := ""
	for _, key := range bodyKeys {
		if body = stringField(song, key); strings.TrimSpace(body) != "" {
			break
		}
	}
	if strings.TrimSpace(body) == "" {
		return nil, &ParseError{Message: "unable to extract song body"}
	}

	enhanced, err := s.Enhance(ctx, body, userPrompt)
	if err != nil {
		return nil, err
	}

	return &models.SongPayload{
		ID:       "ai-" + uuid.NewString(),
		Title:    or(stringField(song, "title"), defaultTitle),
		Artist:   or(stringField(song, "artist"), defaultArtist),
		Source:   sourceAI,
		URL:      stringField(song, "url"),
		Key:      stringField(song, "key"),
		BPM:      stringField(song, "bpm"),
		Tuning:   stringField(song, "tuning"),
		Tags:     stringList(song["tags"]),
		Notes:    stringField(song, "notes"),
		Body:     enhanced,
		Sections: music.ParseSheet(enhanced),
		Chords:   music.ExtractChords(enhanced),
	}, nil
}

// NewSongPayload shapes a scraped sheet for the web client
func NewSongPayload(song *models.SongChords, url string) *models.SongPayload {
	chords := music.Palette(song.Chords)
	if len(chords) == 0 {
		chords = music.ExtractChords(song.LyricsWithChords)
	}
	return &models.SongPayload{
		ID:       "song-" + uuid.NewString(),
		Title:    or(song.SongTitle, defaultTitle),
		Artist:   or(song.Artist, defaultArtist),
		Source:   sourceScraped,
		URL:      url,
		Tags:     []string{},
		Body:     song.LyricsWithChords,
		Sections: music.ParseSheet(song.LyricsWithChords),
		Chords:   chords,
	}
}

// stringField reads a string-ish value; numbers (e.g. bpm) are formatted
func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func stringList(v any) []string {
	out := []string{}
	switch list := v.(type) {
	case []string:
		out = append(out, list...)
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func or(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
