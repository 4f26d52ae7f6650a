package models

// ChordDiagram is the result of a chord lookup
type ChordDiagram struct {
	Chord   string   `json:"chord"`   // Chord name as requested (trimmed)
	Notes   []string `json:"notes"`   // Canonical note tokens, in the order the model listed them
	Diagram string   `json:"diagram"` // Base64 encoded PNG keyboard diagram
}
