package services

import (
	"context"
	"encoding/json"

	"github.com/Conceptual-Machines/harmonix-api/internal/firecrawl"
	"github.com/Conceptual-Machines/harmonix-api/internal/llm"
)

// mockProvider is a function-field implementation of llm.Provider
type mockProvider struct {
	generateFunc func(ctx context.Context, request *llm.GenerationRequest) (*llm.GenerationResponse, error)
	requests     []*llm.GenerationRequest
}

func (m *mockProvider) Name() string {
	return "mock"
}

func (m *mockProvider) Generate(ctx context.Context, request *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	m.requests = append(m.requests, request)
	if m.generateFunc != nil {
		return m.generateFunc(ctx, request)
	}
	return &llm.GenerationResponse{}, nil
}

func replyWith(text string) *mockProvider {
	return &mockProvider{
		generateFunc: func(context.Context, *llm.GenerationRequest) (*llm.GenerationResponse, error) {
			return &llm.GenerationResponse{Text: text, Usage: llm.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}}, nil
		},
	}
}

// mockSource is a function-field implementation of SongSource
type mockSource struct {
	searchFunc func(ctx context.Context, query string, limit int) ([]firecrawl.SearchResult, error)
	scrapeFunc func(ctx context.Context, url string, schema map[string]any) (json.RawMessage, error)
}

func (m *mockSource) Name() string {
	return "mock-source"
}

func (m *mockSource) Search(ctx context.Context, query string, limit int) ([]firecrawl.SearchResult, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockSource) Scrape(ctx context.Context, url string, schema map[string]any) (json.RawMessage, error) {
	if m.scrapeFunc != nil {
		return m.scrapeFunc(ctx, url, schema)
	}
	return nil, nil
}
