// Package openaiclient builds go-openai clients shared by the OpenAI
// embedding and LLM adapters.
package openaiclient

import (
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/ratelimit"
)

// DefaultBaseURL is the public OpenAI endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// New returns a client for apiKey. An empty baseURL uses DefaultBaseURL;
// other values target Azure-style or compatible gateways.
func New(apiKey, baseURL string, timeout time.Duration) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return openai.NewClientWithConfig(cfg)
}

// StatusCode extracts the HTTP status from a go-openai error, or 0.
func StatusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// Retryable returns a classifier for ratelimit.Retry. Rate limited
// responses also open a backoff window on rl.
func Retryable(rl *ratelimit.RateLimiter) func(error) bool {
	return func(err error) bool {
		code := StatusCode(err)
		switch {
		case code == http.StatusTooManyRequests:
			if rl != nil {
				rl.RecordRateLimitError(2 * time.Second)
			}
			return true
		case code >= http.StatusInternalServerError:
			return true
		default:
			return false
		}
	}
}
