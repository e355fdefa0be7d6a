// Package youtubeapi looks up video details with the YouTube Data API v3.
package youtubeapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Metadata implements the interface.
var _ driven.VideoMetadata = (*Metadata)(nil)

// DefaultTimeout bounds each API request.
const DefaultTimeout = 10 * time.Second

// Config holds configuration for the Data API client.
type Config struct {
	// APIKey is a YouTube Data API key (required).
	APIKey string

	// Endpoint overrides the API base URL.
	Endpoint string

	// Timeout is the HTTP client timeout (default: 10s).
	Timeout time.Duration
}

// Metadata resolves video titles.
type Metadata struct {
	videos  *youtube.VideosService
	limiter *ratelimit.RateLimiter
}

// New creates a YouTube Data API client.
func New(ctx context.Context, cfg Config) (*Metadata, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("youtube api: API key is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := []option.ClientOption{
		option.WithHTTPClient(&http.Client{
			Timeout:   cfg.Timeout,
			Transport: &apiKeyTransport{key: cfg.APIKey, base: http.DefaultTransport},
		}),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube api: create service: %w", err)
	}

	return &Metadata{
		videos:  youtube.NewVideosService(svc),
		limiter: ratelimit.New(ratelimit.ServiceYouTube),
	}, nil
}

// Title returns the video's title.
func (m *Metadata) Title(ctx context.Context, videoID string) (string, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := m.videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		if IsRateLimited(err) {
			m.limiter.RecordRateLimitError(0)
		}
		return "", fmt.Errorf("list video %s: %w", videoID, WrapError(err))
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return "", fmt.Errorf("list video %s: %w", videoID, ErrNotFound)
	}
	return resp.Items[0].Snippet.Title, nil
}

// apiKeyTransport adds the key query parameter to every request.
type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	q := req.URL.Query()
	q.Set("key", t.key)
	req.URL.RawQuery = q.Encode()
	return t.base.RoundTrip(req)
}
