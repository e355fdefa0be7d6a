// Package ratelimit provides client-side throttling and retry for
// external API adapters.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Service identifies an external API for rate limiting purposes.
type Service string

const (
	// ServiceOpenAI is the OpenAI API (embeddings, chat, vision).
	ServiceOpenAI Service = "openai"
	// ServiceOllama is a local Ollama server.
	ServiceOllama Service = "ollama"
	// ServiceTavily is the Tavily search API.
	ServiceTavily Service = "tavily"
	// ServiceYouTube covers transcript fetches and the Data API.
	ServiceYouTube Service = "youtube"
)

// Config holds rate limiting configuration for a service.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// Defaults provides conservative limits for each service.
var Defaults = map[Service]Config{
	ServiceOpenAI:  {RequestsPerSecond: 8.0, BurstSize: 16},
	ServiceOllama:  {RequestsPerSecond: 20.0, BurstSize: 20},
	ServiceTavily:  {RequestsPerSecond: 2.0, BurstSize: 4},
	ServiceYouTube: {RequestsPerSecond: 2.0, BurstSize: 4},
}

// DefaultBackoff is used when a 429 carries no Retry-After hint.
const DefaultBackoff = 30 * time.Second

// RateLimiter is a token bucket with an optional backoff window that is
// opened when a service reports rate limiting.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	service Service
}

// New creates a rate limiter for the specified service.
func New(service Service) *RateLimiter {
	cfg, ok := Defaults[service]
	if !ok {
		cfg = Config{RequestsPerSecond: 5.0, BurstSize: 10}
	}
	rl := NewWithConfig(cfg)
	rl.service = service
	return rl
}

// NewWithConfig creates a rate limiter with custom configuration.
// A non-positive rate disables throttling.
func NewWithConfig(cfg Config) *RateLimiter {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Service returns the service this limiter was created for.
func (r *RateLimiter) Service() Service {
	return r.service
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by RecordRateLimitError.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError opens a backoff window. Call this on a 429 response.
func (r *RateLimiter) RecordRateLimitError(retryAfter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if retryAfter <= 0 {
		retryAfter = DefaultBackoff
	}
	r.retryAt = time.Now().Add(retryAfter)
}

// Allow reports whether a request can be made immediately without blocking.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}

	return r.limiter.Allow()
}

// RetryPolicy bounds Retry.
type RetryPolicy struct {
	// Attempts is the total number of calls, including the first.
	Attempts int
	// BaseDelay doubles after every failed attempt.
	BaseDelay time.Duration
}

// DefaultRetryPolicy makes three attempts over roughly 1.5 seconds.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, BaseDelay: 500 * time.Millisecond}

// Retry calls fn until it succeeds, returns an error retryable rejects,
// or the policy is exhausted. Every attempt waits on the limiter first.
// A nil limiter only retries.
func Retry(
	ctx context.Context, rl *RateLimiter, policy RetryPolicy,
	retryable func(error) bool, fn func(context.Context) error,
) error {
	attempts := max(policy.Attempts, 1)

	var err error
	for i := range attempts {
		if rl != nil {
			if werr := rl.Wait(ctx); werr != nil {
				if err != nil {
					return err
				}
				return werr
			}
		}
		if err = fn(ctx); err == nil || retryable == nil || !retryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		delay := policy.BaseDelay << i
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
	return err
}
