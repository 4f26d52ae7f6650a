// Package firecrawl is a small client for the Firecrawl v2 search and scrape API.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultBaseURL is the hosted Firecrawl API
const DefaultBaseURL = "https://api.firecrawl.dev"

const maxErrorBodyChars = 300

// Client calls the Firecrawl REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client. An empty baseURL uses the hosted API and a nil
// http.Client uses http.DefaultClient.
func NewClient(baseURL, apiKey string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: client,
	}
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string {
	return "firecrawl"
}

// SearchResult is one web hit from a search.
type SearchResult struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// APIError is a non-2xx answer or an explicit success=false from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("firecrawl: status %d: %s", e.StatusCode, e.Message)
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Web []SearchResult `json:"web"`
	} `json:"data"`
}

type scrapeFormat struct {
	Type   string         `json:"type"`
	Schema map[string]any `json:"schema,omitempty"`
}

type scrapeRequest struct {
	URL     string         `json:"url"`
	Formats []scrapeFormat `json:"formats"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		JSON json.RawMessage `json:"json"`
	} `json:"data"`
}

// Search runs a web search and returns at most limit results.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	var out searchResponse
	if err := c.post(ctx, "/v2/search", searchRequest{Query: query, Limit: limit}, &out); err != nil {
		return nil, err
	}
	if !out.Success && out.Error != "" {
		return nil, &APIError{StatusCode: http.StatusOK, Message: out.Error}
	}
	return out.Data.Web, nil
}

// Scrape extracts structured JSON matching schema from the page at url.
func (c *Client) Scrape(ctx context.Context, url string, schema map[string]any) (json.RawMessage, error) {
	req := scrapeRequest{
		URL:     url,
		Formats: []scrapeFormat{{Type: "json", Schema: schema}},
	}

	var out scrapeResponse
	if err := c.post(ctx, "/v2/scrape", req, &out); err != nil {
		return nil, err
	}
	if !out.Success && out.Error != "" {
		return nil, &APIError{StatusCode: http.StatusOK, Message: out.Error}
	}
	if len(out.Data.JSON) == 0 || string(out.Data.JSON) == "null" {
		return nil, fmt.Errorf("firecrawl: scrape of %s returned no json data", url)
	}
	return out.Data.JSON, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage prefers the API's "error" field and falls back to the raw body.
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBodyChars {
		msg = msg[:maxErrorBodyChars] + "..."
	}
	return msg
}
