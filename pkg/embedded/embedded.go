package embedded

import (
	_ "embed"
)

// Embed all prompt templates
//
//go:embed data/prompts/chord_system.txt
var ChordSystemPromptTxt []byte

//go:embed data/prompts/chord_notes.txt
var ChordNotesPromptTxt []byte

//go:embed data/prompts/enhance_sheet.txt
var EnhanceSheetPromptTxt []byte
