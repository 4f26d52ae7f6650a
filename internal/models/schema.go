package models

// SongChordsSchema returns the JSON schema requested from the scrape provider.
// It mirrors SongChords field for field.
func SongChordsSchema() map[string]any {
	return map[string]any{
		"type":  "object",
		"title": "SongChords",
		"properties": map[string]any{
			"song_title": map[string]any{"type": "string"},
			"artist":     map[string]any{"type": "string"},
			"chords": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"lyrics_with_chords": map[string]any{"type": "string"},
		},
		"required": []string{"song_title", "artist", "lyrics_with_chords"},
	}
}
