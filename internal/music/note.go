package music

import (
	"strings"
	"unicode"
)

// ChromaticScale lists the twelve semitone names in ascending order from C.
// Black keys are always spelled with sharps.
var ChromaticScale = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

const defaultOctave = "4"

// flatToSharp maps flat spellings of the five black keys onto the sharp spelling
var flatToSharp = map[string]string{
	"Db": "C#",
	"Eb": "D#",
	"Gb": "F#",
	"Ab": "G#",
	"Bb": "A#",
}

var semitones = func() map[string]int {
	m := make(map[string]int, len(ChromaticScale))
	for i, name := range ChromaticScale {
		m[name] = i
	}
	return m
}()

// NormalizeNote converts a free-form note name like "bb3", "E♭", "c#" or " G5 "
// to its canonical <Letter><#?><Octave> token. The octave defaults to 4.
// Returns false when the input cannot be mapped onto the chromatic scale.
func NormalizeNote(raw string) (string, bool) {
	runes := []rune(strings.TrimSpace(raw))
	if len(runes) == 0 {
		return "", false
	}

	letter := unicode.ToUpper(runes[0])
	if letter < 'A' || letter > 'G' {
		return "", false
	}
	rest := runes[1:]

	accidental := ""
	if len(rest) > 0 {
		switch rest[0] {
		case '#', '♯':
			accidental = "#"
			rest = rest[1:]
		case 'b', '♭':
			accidental = "b"
			rest = rest[1:]
		}
	}

	octave := defaultOctave
	if len(rest) == 1 && rest[0] >= '0' && rest[0] <= '9' {
		octave = string(rest[0])
		rest = rest[1:]
	}
	if len(rest) != 0 {
		return "", false
	}

	pitch := string(letter) + accidental
	if sharp, ok := flatToSharp[pitch]; ok {
		pitch = sharp
	}
	if _, ok := semitones[pitch]; !ok {
		return "", false
	}

	return pitch + octave, true
}

// IsSharp reports whether a pitch class or canonical token names a black key.
func IsSharp(note string) bool {
	return strings.Contains(note, "#")
}

// MIDINumber returns the MIDI note number of a canonical token (C4 = 60).
func MIDINumber(note string) (int, bool) {
	if len(note) < 2 {
		return 0, false
	}
	pitch, octave := note[:len(note)-1], note[len(note)-1]
	semitone, ok := semitones[pitch]
	if !ok || octave < '0' || octave > '9' {
		return 0, false
	}
	return (int(octave-'0')+1)*12 + semitone, true
}
