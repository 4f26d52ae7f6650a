package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"
	"testing"

	"github.com/Conceptual-Machines/harmonix-api/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedExtractor []string

func (f fixedExtractor) ExtractNotes(string) []string {
	return f
}

func TestChordService_Lookup(t *testing.T) {
	provider := replyWith(`{"notes":["C4","E4","G4","C5"]}`)
	svc := NewChordService(provider, "gemini-2.5-flash", nil)

	result, err := svc.Lookup(context.Background(), "  C major ")
	require.NoError(t, err)

	assert.Equal(t, "C major", result.Chord)
	assert.Equal(t, []string{"C4", "E4", "G4", "C5"}, result.Notes)
	require.NotEmpty(t, result.Diagram)

	raw, err := base64.StdEncoding.DecodeString(result.Diagram)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)

	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Equal(t, "gemini-2.5-flash", req.Model)
	assert.True(t, req.JSONOutput)
	assert.Contains(t, req.Prompt, `"C major"`)
	assert.Contains(t, req.SystemPrompt, "music theory assistant")
	assert.Contains(t, req.SystemPrompt, `{"notes":`)
}

func TestChordService_Errors(t *testing.T) {
	tests := []struct {
		name     string
		provider *mockProvider
		chord    string
		check    func(t *testing.T, err error)
	}{
		{
			name:     "empty chord",
			provider: replyWith(`{"notes":["C4"]}`),
			chord:    "   ",
			check: func(t *testing.T, err error) {
				var target *ValidationError
				assert.True(t, errors.As(err, &target))
			},
		},
		{
			name: "provider failure",
			provider: &mockProvider{generateFunc: func(context.Context, *llm.GenerationRequest) (*llm.GenerationResponse, error) {
				return nil, errors.New("503 overloaded")
			}},
			chord: "Am",
			check: func(t *testing.T, err error) {
				var target *ProviderError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "mock", target.Provider)
				assert.Contains(t, err.Error(), "503 overloaded")
			},
		},
		{
			name:     "unparseable reply",
			provider: replyWith("I think it is A, C and E"),
			chord:    "Am",
			check: func(t *testing.T, err error) {
				var target *ParseError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "unable to parse chord notes from AI response", err.Error())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewChordService(tt.provider, "m", nil)
			result, err := svc.Lookup(context.Background(), tt.chord)
			require.Error(t, err)
			assert.Nil(t, result)
			tt.check(t, err)
		})
	}
}

func TestChordService_EmptyChordSkipsProvider(t *testing.T) {
	provider := replyWith(`{"notes":["C4"]}`)
	_, err := NewChordService(provider, "m", nil).Lookup(context.Background(), "")
	require.Error(t, err)
	assert.Empty(t, provider.requests)
}

func TestChordService_CustomExtractor(t *testing.T) {
	svc := NewChordService(replyWith("anything"), "m", nil, WithNoteExtractor(fixedExtractor{"A3", "C4", "E4"}))

	result, err := svc.Lookup(context.Background(), "Am")
	require.NoError(t, err)
	assert.Equal(t, []string{"A3", "C4", "E4"}, result.Notes)
}
