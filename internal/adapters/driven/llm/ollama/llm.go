// Package ollama provides LLM and image captioning adapters using Ollama.
package ollama

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/ollamaclient"
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
	DefaultBaseURL    = ollamaclient.DefaultBaseURL
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

// defaultCaptionPrompt is the fallback prompt when no PromptStore is configured.
const defaultCaptionPrompt = "Describe this image concisely as if for a science textbook caption."

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the LLM model to use (default: llama3.2).
	// Captioning needs a vision model such as llava.
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// Retry controls retries on 429 and 5xx responses.
	Retry ratelimit.RetryPolicy
}

// LLMService provides LLM operations using Ollama.
type LLMService struct {
	client      *ollamaclient.Client
	limiter     *ratelimit.RateLimiter
	retry       ratelimit.RetryPolicy
	model       string
	promptStore driven.PromptStore
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Images  []string `json:"images,omitempty"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

// options holds generation parameters.
type options struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *options      `json:"options,omitempty"`
}

// chatMessage is the Ollama chat message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the Ollama /api/chat response format.
type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	if cfg.Retry.Attempts == 0 {
		cfg.Retry = ratelimit.DefaultRetryPolicy
	}

	return &LLMService{
		client:  ollamaclient.New(cfg.BaseURL, cfg.Timeout),
		limiter: ratelimit.New(ratelimit.ServiceOllama),
		retry:   cfg.Retry,
		model:   cfg.Model,
	}
}

func buildOptions(maxTokens int, temperature *float64) *options {
	if maxTokens <= 0 && temperature == nil {
		return nil
	}
	return &options{NumPredict: maxTokens, Temperature: temperature}
}

// Generate produces text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	return s.generate(ctx, generateRequest{
		Model:   s.model,
		Prompt:  prompt,
		Options: buildOptions(opts.MaxTokens, opts.Temperature),
	})
}

// Caption describes a PNG image using a multimodal model.
func (s *LLMService) Caption(ctx context.Context, png []byte) (string, error) {
	caption, err := s.generate(ctx, generateRequest{
		Model:  s.model,
		Prompt: s.loadPrompt(driven.PromptCaption, defaultCaptionPrompt),
		Images: []string{base64.StdEncoding.EncodeToString(png)},
	})
	if err != nil {
		return "", fmt.Errorf("caption: %w", err)
	}
	return strings.TrimSpace(caption), nil
}

func (s *LLMService) generate(ctx context.Context, req generateRequest) (string, error) {
	var resp generateResponse
	err := ratelimit.Retry(ctx, s.limiter, s.retry, ollamaclient.Retryable, func(ctx context.Context) error {
		return s.client.Post(ctx, "/api/generate", req, &resp)
	})
	if err != nil {
		return "", fmt.Errorf("ollama: generate: %w", err)
	}
	return resp.Response, nil
}

// Chat conducts a multi-turn conversation.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	chatMessages := make([]chatMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = chatMessage{Role: msg.Role, Content: msg.Content}
	}

	req := chatRequest{
		Model:    s.model,
		Messages: chatMessages,
		Options:  buildOptions(opts.MaxTokens, opts.Temperature),
	}

	var resp chatResponse
	err := ratelimit.Retry(ctx, s.limiter, s.retry, ollamaclient.Retryable, func(ctx context.Context) error {
		return s.client.Post(ctx, "/api/chat", req, &resp)
	})
	if err != nil {
		return "", fmt.Errorf("ollama: chat: %w", err)
	}
	return resp.Message.Content, nil
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

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// SetPromptStore sets the prompt store for loading the caption prompt.
// If not set, the service uses the built-in default.
func (s *LLMService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
