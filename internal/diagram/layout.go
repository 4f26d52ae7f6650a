// Package diagram renders piano keyboard chord diagrams.
package diagram

import (
	"fmt"

	"github.com/Conceptual-Machines/harmonix-api/internal/music"
)

const (
	// StartOctave is the octave of the left-most C on the keyboard
	StartOctave = 2
	// OctaveCount is how many full octaves the keyboard spans
	OctaveCount = 4
)

// Key is one key of the keyboard layout
type Key struct {
	Note  string // Canonical token, e.g. "C#4"
	Sharp bool   // Black key
	Index int    // Position in the left-to-right layout
	White int    // Index of the white key it sits on (black keys: the white key to its left)
}

// keyboard is computed once and only ever read.
var keyboard = buildLayout(StartOctave, OctaveCount)

var keyIndex = func() map[string]int {
	m := make(map[string]int, len(keyboard))
	for i, k := range keyboard {
		m[k.Note] = i
	}
	return m
}()

func buildLayout(startOctave, octaves int) []Key {
	keys := make([]Key, 0, octaves*len(music.ChromaticScale))
	white := -1
	for octave := startOctave; octave < startOctave+octaves; octave++ {
		for _, pitch := range music.ChromaticScale {
			sharp := music.IsSharp(pitch)
			if !sharp {
				white++
			}
			keys = append(keys, Key{
				Note:  fmt.Sprintf("%s%d", pitch, octave),
				Sharp: sharp,
				Index: len(keys),
				White: white,
			})
		}
	}
	return keys
}

// Keys returns a copy of the keyboard layout in left-to-right order.
func Keys() []Key {
	keys := make([]Key, len(keyboard))
	copy(keys, keyboard)
	return keys
}

// InLayout reports whether a canonical note token is drawn on the keyboard.
func InLayout(note string) bool {
	_, ok := keyIndex[note]
	return ok
}

func whiteKeyCount() int {
	count := 0
	for _, k := range keyboard {
		if !k.Sharp {
			count++
		}
	}
	return count
}
