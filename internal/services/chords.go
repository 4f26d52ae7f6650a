package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/harmonix-api/internal/diagram"
	"github.com/Conceptual-Machines/harmonix-api/internal/llm"
	"github.com/Conceptual-Machines/harmonix-api/internal/metrics"
	"github.com/Conceptual-Machines/harmonix-api/internal/models"
	"github.com/Conceptual-Machines/harmonix-api/internal/prompt"
)

// ChordService resolves chord names to notes and a keyboard diagram
type ChordService struct {
	gen       *generator
	prompts   *prompt.Builder
	extractor NoteExtractor
}

// ChordOption customizes a ChordService
type ChordOption func(*ChordService)

// WithNoteExtractor replaces the default JSON-in-text extractor
func WithNoteExtractor(extractor NoteExtractor) ChordOption {
	return func(s *ChordService) {
		s.extractor = extractor
	}
}

// NewChordService creates a chord service backed by the given LLM provider
func NewChordService(provider llm.Provider, model string, recorder metrics.Recorder, opts ...ChordOption) *ChordService {
	s := &ChordService{
		gen:       newGenerator(provider, model, recorder),
		prompts:   prompt.NewPromptBuilder(),
		extractor: JSONNoteExtractor{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup asks the model for the chord's notes and renders them on the keyboard
func (s *ChordService) Lookup(ctx context.Context, chordName string) (*models.ChordDiagram, error) {
	chord := strings.TrimSpace(chordName)
	if chord == "" {
		return nil, &ValidationError{Message: "chord name is required"}
	}

	system, err := s.prompts.BuildChordSystemPrompt()
	if err != nil {
		return nil, err
	}
	text, err := s.prompts.BuildChordNotesPrompt(chord)
	if err != nil {
		return nil, err
	}

	resp, err := s.gen.generate(ctx, "chord_lookup", &llm.GenerationRequest{
		SystemPrompt: system,
		Prompt:       text,
		JSONOutput:   true,
	})
	if err != nil {
		return nil, &ProviderError{Provider: s.gen.provider.Name(), Message: "chord lookup failed", Err: err}
	}

	notes := s.extractor.ExtractNotes(resp.Text)
	if len(notes) == 0 {
		return nil, &ParseError{Message: "unable to parse chord notes from AI response"}
	}

	png, err := diagram.Render(notes)
	if err != nil {
		return nil, fmt.Errorf("failed to render chord diagram: %w", err)
	}

	return &models.ChordDiagram{
		Chord:   chord,
		Notes:   notes,
		Diagram: diagram.EncodeBase64(png),
	}, nil
}
