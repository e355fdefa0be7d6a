// Package openai provides LLM and image captioning adapters using the OpenAI API.
package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/openaiclient"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure LLMService implements the interfaces.
var (
	_ driven.LLMService = (*LLMService)(nil)
	_ driven.Captioner  = (*LLMService)(nil)
)

// Default configuration values.
const (
	DefaultLLMModel   = "gpt-4.1"
	DefaultLLMTimeout = 120 * time.Second
)

// defaultCaptionPrompt is the fallback prompt when no PromptStore is configured.
const defaultCaptionPrompt = "Describe this image concisely as if for a science textbook caption."

// LLMConfig holds configuration for the OpenAI LLM service.
type LLMConfig struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the chat model to use (default: gpt-4.1).
	Model string

	// Timeout is the HTTP client timeout (default: 120s).
	Timeout time.Duration

	// Retry controls retries on 429 and 5xx responses.
	Retry ratelimit.RetryPolicy

	// Limiter throttles requests. Nil uses the OpenAI defaults.
	Limiter *ratelimit.RateLimiter
}

// LLMService provides chat completions and vision captions using the OpenAI API.
type LLMService struct {
	client      *goopenai.Client
	limiter     *ratelimit.RateLimiter
	retry       ratelimit.RetryPolicy
	model       string
	promptStore driven.PromptStore
}

// NewLLMService creates a new OpenAI LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	if cfg.Retry.Attempts == 0 {
		cfg.Retry = ratelimit.DefaultRetryPolicy
	}
	if cfg.Limiter == nil {
		cfg.Limiter = ratelimit.New(ratelimit.ServiceOpenAI)
	}

	return &LLMService{
		client:  openaiclient.New(cfg.APIKey, cfg.BaseURL, cfg.Timeout),
		limiter: cfg.Limiter,
		retry:   cfg.Retry,
		model:   cfg.Model,
	}, nil
}

// Generate produces a completion for a single user prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	messages := []goopenai.ChatCompletionMessage{
		{Role: goopenai.ChatMessageRoleUser, Content: prompt},
	}
	return s.chatCompletion(ctx, messages, opts.MaxTokens, opts.Temperature)
}

// Chat conducts a multi-turn conversation.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	chatMessages := make([]goopenai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = goopenai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content}
	}
	return s.chatCompletion(ctx, chatMessages, opts.MaxTokens, opts.Temperature)
}

// Caption describes a PNG image with the vision-capable chat model.
func (s *LLMService) Caption(ctx context.Context, png []byte) (string, error) {
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	messages := []goopenai.ChatCompletionMessage{{
		Role: goopenai.ChatMessageRoleUser,
		MultiContent: []goopenai.ChatMessagePart{
			{Type: goopenai.ChatMessagePartTypeText, Text: s.loadPrompt(driven.PromptCaption, defaultCaptionPrompt)},
			{Type: goopenai.ChatMessagePartTypeImageURL, ImageURL: &goopenai.ChatMessageImageURL{URL: dataURL}},
		},
	}}
	caption, err := s.chatCompletion(ctx, messages, 0, nil)
	if err != nil {
		return "", fmt.Errorf("caption: %w", err)
	}
	return strings.TrimSpace(caption), nil
}

func (s *LLMService) chatCompletion(
	ctx context.Context, messages []goopenai.ChatCompletionMessage, maxTokens int, temperature *float64,
) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model:    s.model,
		Messages: messages,
	}
	if maxTokens > 0 {
		req.MaxTokens = maxTokens
	}
	if temperature != nil {
		req.Temperature = wireTemperature(*temperature)
	}

	var resp goopenai.ChatCompletionResponse
	err := ratelimit.Retry(ctx, s.limiter, s.retry, openaiclient.Retryable(s.limiter),
		func(ctx context.Context) error {
			var err error
			resp, err = s.client.CreateChatCompletion(ctx, req)
			return err
		})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// wireTemperature maps an explicit temperature to the request field.
// The field is omitted when zero, so zero is sent as the smallest
// positive float32 instead.
func wireTemperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *LLMService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// SetPromptStore sets the prompt store for loading the caption prompt.
func (s *LLMService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the API key by listing models, without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
