package music

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Conceptual-Machines/harmonix-api/internal/models"
)

const tabWidth = "    "

// chordToken matches a single chord symbol as written on Ultimate Guitar style
// sheets, plus the "N.C." and "x2" repeat markers that share chord lines.
var chordToken = regexp.MustCompile(
	`(?i)^(?:N\.C\.|x\d+|[A-G](?:#|b)?(?:maj|Maj|M|m|dim|aug|sus|add|mMaj)?[0-9#b()/+\-]*?(?:/[A-G](?:#|b)?)?)$`,
)

var repeatMarker = regexp.MustCompile(`(?i)^(?:N\.C\.|x\d+)$`)

// IsChordLine reports whether every whitespace separated token of line is a chord symbol.
func IsChordLine(line string) bool {
	tokens := strings.Fields(strings.ReplaceAll(line, "\t", tabWidth))
	if len(tokens) == 0 {
		return false
	}
	for _, token := range tokens {
		if !chordToken.MatchString(token) {
			return false
		}
	}
	return true
}

// ParseSheet splits a lyrics-with-chords sheet into labelled sections.
//
// "[Verse 1]" style lines open a new section. A chord line is paired with the
// lyric line that follows it; blank lines become spacer lines. Content before
// the first header goes into auto-numbered sections.
func ParseSheet(text string) []models.Section {
	if text == "" {
		return []models.Section{}
	}

	p := &sheetParser{sections: []models.Section{}}
	for _, row := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
		p.feed(strings.ReplaceAll(row, "\t", tabWidth))
	}
	p.flushPending()
	p.closeSection()

	return p.sections
}

type sheetParser struct {
	sections  []models.Section
	current   *models.Section
	pending   string
	hasChords bool
	autoIndex int
}

func (p *sheetParser) feed(line string) {
	trimmed := strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") && len(trimmed) >= 2:
		p.closeSection()
		label := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
		if label == "" {
			label = fmt.Sprintf("Section %d", p.autoIndex+1)
		}
		p.current = &models.Section{Label: label, Lines: []models.SheetLine{}}
		p.pending, p.hasChords = "", false

	case trimmed == "":
		p.flushPending()
		p.ensureSection()
		p.current.Lines = append(p.current.Lines, models.SheetLine{Spacer: true})

	case IsChordLine(line):
		p.flushPending()
		p.ensureSection()
		p.pending, p.hasChords = line, true

	default:
		p.ensureSection()
		p.current.Lines = append(p.current.Lines, models.SheetLine{Chords: p.pending, Lyrics: line})
		p.pending, p.hasChords = "", false
	}
}

func (p *sheetParser) ensureSection() {
	if p.current == nil {
		p.autoIndex++
		p.current = &models.Section{Label: fmt.Sprintf("Section %d", p.autoIndex), Lines: []models.SheetLine{}}
	}
}

// flushPending emits a chord line that has no lyric line under it.
func (p *sheetParser) flushPending() {
	if !p.hasChords {
		return
	}
	p.ensureSection()
	p.current.Lines = append(p.current.Lines, models.SheetLine{Chords: p.pending})
	p.pending, p.hasChords = "", false
}

func (p *sheetParser) closeSection() {
	if p.current != nil && len(p.current.Lines) > 0 {
		p.sections = append(p.sections, *p.current)
	}
	p.current = nil
}

// ExtractChords returns the unique chord symbols found on chord lines, in order
// of first appearance. Repeat markers and "N.C." are skipped.
func ExtractChords(text string) []string {
	var chords []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
		if !IsChordLine(line) {
			continue
		}
		for _, token := range strings.Fields(line) {
			if repeatMarker.MatchString(token) {
				continue
			}
			chords = append(chords, token)
		}
	}
	return Palette(chords)
}

// Palette trims and de-duplicates chord names while keeping their order.
func Palette(chords []string) []string {
	seen := make(map[string]bool, len(chords))
	palette := make([]string, 0, len(chords))
	for _, chord := range chords {
		name := strings.TrimSpace(chord)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		palette = append(palette, name)
	}
	return palette
}
