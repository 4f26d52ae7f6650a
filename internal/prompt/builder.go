package prompt

import (
	"fmt"
	"strings"
	"text/template"
)

// Builder renders prompts for the chord and song services
type Builder struct {
	chordSystem *template.Template
	chordNotes  *template.Template
	enhanceText *template.Template
}

// NewPromptBuilder creates a new prompt builder.
// It panics if an embedded template does not parse, which only a broken build can cause.
func NewPromptBuilder() *Builder {
	loader := NewPromptLoader()
	chordSystem, err := loader.GetChordSystemTemplate()
	if err != nil {
		panic(err)
	}
	chordNotes, err := loader.GetChordNotesTemplate()
	if err != nil {
		panic(err)
	}
	enhanceText, err := loader.GetEnhanceSheetTemplate()
	if err != nil {
		panic(err)
	}
	return &Builder{
		chordSystem: chordSystem,
		chordNotes:  chordNotes,
		enhanceText: enhanceText,
	}
}

// BuildChordSystemPrompt sets the assistant persona and the {"notes": [...]} reply format
func (b *Builder) BuildChordSystemPrompt() (string, error) {
	return execute(b.chordSystem, nil)
}

// BuildChordNotesPrompt asks for the octave-annotated notes of a chord
func (b *Builder) BuildChordNotesPrompt(chord string) (string, error) {
	return execute(b.chordNotes, struct{ Chord string }{Chord: chord})
}

// BuildEnhancePrompt asks for an edited chord sheet that keeps the original layout
func (b *Builder) BuildEnhancePrompt(sheet, request string) (string, error) {
	return execute(b.enhanceText, struct{ Sheet, Request string }{Sheet: sheet, Request: request})
}

func execute(tmpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", tmpl.Name(), err)
	}
	return sb.String(), nil
}
