package models

// SongChords is a validated lyrics-with-chords sheet returned by the scrape provider
type SongChords struct {
	SongTitle        string   `json:"song_title"`
	Artist           string   `json:"artist"`
	Chords           []string `json:"chords,omitempty"` // Optional: providers often omit the palette
	LyricsWithChords string   `json:"lyrics_with_chords"`
}

// SongPayload is the song shape exchanged with the web client
type SongPayload struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Artist   string    `json:"artist"`
	Source   string    `json:"source"`
	URL      string    `json:"url,omitempty"`
	Key      string    `json:"key,omitempty"`
	BPM      string    `json:"bpm,omitempty"`
	Tuning   string    `json:"tuning,omitempty"`
	Tags     []string  `json:"tags"`
	Notes    string    `json:"notes,omitempty"`
	Body     string    `json:"body"`
	Sections []Section `json:"sections"`
	Chords   []string  `json:"chords"`
}

// Section is a labelled block of a chord sheet ("Verse 1", "Chorus", ...)
type Section struct {
	Label string      `json:"label"`
	Lines []SheetLine `json:"lines"`
}

// SheetLine pairs a chord line with the lyric line sung under it
type SheetLine struct {
	Chords string `json:"chords"`
	Lyrics string `json:"lyrics"`
	Spacer bool   `json:"spacer,omitempty"`
}
