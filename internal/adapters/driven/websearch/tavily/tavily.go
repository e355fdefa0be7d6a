// Package tavily provides a web search adapter using the Tavily API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.WebSearchProvider = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.tavily.com"
	DefaultTimeout    = 20 * time.Second
	DefaultMaxResults = 8
)

// recencyWords restrict results to the past year when present in the query.
var recencyWords = []string{"latest", "recent", "current", "today", "this year", "this month"}

// Config holds configuration for the Tavily client.
type Config struct {
	// APIKey is the Tavily API key (required).
	APIKey string

	// BaseURL overrides the API endpoint (default: https://api.tavily.com).
	BaseURL string

	// Timeout is the request timeout (default: 20s).
	Timeout time.Duration

	// MaxResults caps the number of results requested (default: 8).
	MaxResults int

	// Limiter throttles requests. Nil uses the Tavily defaults.
	Limiter *ratelimit.RateLimiter
}

// Client searches the web with Tavily.
type Client struct {
	http       *http.Client
	limiter    *ratelimit.RateLimiter
	apiKey     string
	baseURL    string
	maxResults int
}

type searchRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results"`
	SearchDepth       string `json:"search_depth"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
	TimeFilter        string `json:"time_filter,omitempty"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tavily: status %d: %s", e.StatusCode, e.Body)
}

// New creates a Tavily client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("tavily: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.Limiter == nil {
		cfg.Limiter = ratelimit.New(ratelimit.ServiceTavily)
	}

	return &Client{
		http:       &http.Client{Timeout: cfg.Timeout},
		limiter:    cfg.Limiter,
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		maxResults: cfg.MaxResults,
	}, nil
}

// Search returns results for query, most relevant first.
func (c *Client) Search(ctx context.Context, query string) ([]driven.WebSearchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("tavily: rate limit wait: %w", err)
	}

	body, err := json.Marshal(searchRequest{
		APIKey:            c.apiKey,
		Query:             query,
		MaxResults:        c.maxResults,
		SearchDepth:       "advanced",
		IncludeAnswer:     false,
		IncludeRawContent: true,
		TimeFilter:        timeFilter(query),
	})
	if err != nil {
		return nil, fmt.Errorf("tavily: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tavily: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			c.limiter.RecordRateLimitError(retryAfter(resp.Header.Get("Retry-After")))
		}
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("tavily: decode response: %w", err)
	}

	results := make([]driven.WebSearchResult, len(decoded.Results))
	for i, r := range decoded.Results {
		results[i] = driven.WebSearchResult{Title: r.Title, URL: r.URL, Content: r.Content}
	}
	return results, nil
}

// timeFilter returns "year" for queries asking about recent events.
func timeFilter(query string) string {
	q := strings.ToLower(query)
	for _, w := range recencyWords {
		if strings.Contains(q, w) {
			return "year"
		}
	}
	return ""
}

// retryAfter parses a Retry-After header in seconds. Zero means use the default backoff.
func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
