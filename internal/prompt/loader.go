package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Conceptual-Machines/harmonix-api/pkg/embedded"
)

// Loader parses the embedded prompt templates
type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetChordSystemTemplate loads the system prompt shared by every chord lookup
func (l *Loader) GetChordSystemTemplate() (*template.Template, error) {
	return parse("chord_system", embedded.ChordSystemPromptTxt)
}

// GetChordNotesTemplate loads the chord-to-notes prompt
func (l *Loader) GetChordNotesTemplate() (*template.Template, error) {
	return parse("chord_notes", embedded.ChordNotesPromptTxt)
}

// GetEnhanceSheetTemplate loads the chord-sheet editing prompt
func (l *Loader) GetEnhanceSheetTemplate() (*template.Template, error) {
	return parse("enhance_sheet", embedded.EnhanceSheetPromptTxt)
}

func parse(name string, text []byte) (*template.Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(strings.TrimSpace(string(text)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s prompt: %w", name, err)
	}
	return tmpl, nil
}
