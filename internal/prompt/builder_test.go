package prompt

import (
	"strings"
	"testing"
)

func TestNewPromptBuilder(t *testing.T) {
	builder := NewPromptBuilder()
	if builder == nil {
		t.Fatal("NewPromptBuilder() returned nil")
		return
	}
	if builder.chordSystem == nil || builder.chordNotes == nil || builder.enhanceText == nil {
		t.Fatal("NewPromptBuilder() left a template unparsed")
	}
}

func TestBuildChordSystemPrompt(t *testing.T) {
	prompt, err := NewPromptBuilder().BuildChordSystemPrompt()
	if err != nil {
		t.Fatalf("BuildChordSystemPrompt() returned error: %v", err)
	}

	for _, want := range []string{"music theory assistant", `{"notes":`, "octave digit"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt does not contain %q", want)
		}
	}
}

func TestBuildChordNotesPrompt(t *testing.T) {
	prompt, err := NewPromptBuilder().BuildChordNotesPrompt("Cmaj7")
	if err != nil {
		t.Fatalf("BuildChordNotesPrompt() returned error: %v", err)
	}

	for _, want := range []string{`"Cmaj7"`, "octave", "lowest note first"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt does not contain %q", want)
		}
	}
	if strings.Contains(prompt, "music theory assistant") {
		t.Error("persona belongs in the system prompt, not the chord prompt")
	}
	if strings.Contains(prompt, "{{") {
		t.Error("prompt still contains template actions")
	}
}

func TestBuildEnhancePrompt(t *testing.T) {
	sheet := "[Verse]\nG        D\nHello darkness"
	prompt, err := NewPromptBuilder().BuildEnhancePrompt(sheet, "transpose up a whole step")
	if err != nil {
		t.Fatalf("BuildEnhancePrompt() returned error: %v", err)
	}

	if !strings.HasPrefix(prompt, "The following are song lyrics with chords embedded.") {
		t.Errorf("unexpected prompt start: %q", prompt[:40])
	}
	if !strings.Contains(prompt, sheet) {
		t.Error("prompt does not contain the sheet verbatim")
	}
	if !strings.Contains(prompt, "user request: transpose up a whole step") {
		t.Error("prompt does not contain the user request")
	}
}
