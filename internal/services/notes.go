package services

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/Conceptual-Machines/harmonix-api/internal/music"
)

// NoteExtractor turns a model reply into canonical note tokens
type NoteExtractor interface {
	ExtractNotes(raw string) []string
}

// JSONNoteExtractor reads the first JSON object embedded in free text
type JSONNoteExtractor struct{}

// ExtractNotes implements NoteExtractor
func (JSONNoteExtractor) ExtractNotes(raw string) []string {
	return ExtractNotes(raw)
}

// ExtractNotes pulls the "notes" list out of the text between the first '{' and
// the last '}', normalizing every entry and dropping the ones that do not parse.
// It never fails: anything unusable yields an empty result.
func ExtractNotes(raw string) []string {
	notes := []string{}

	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return notes
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return notes
	}

	var items []json.RawMessage
	if err := json.Unmarshal(payload["notes"], &items); err != nil {
		return notes
	}

	for _, item := range items {
		if note, ok := music.NormalizeNote(stringify(item)); ok {
			notes = append(notes, note)
		}
	}
	return notes
}

// stringify returns JSON strings unquoted and any other value as its JSON text
func stringify(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(item))
}
