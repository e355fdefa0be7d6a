package driven

import "context"

// LLMService provides language model completions.
// It backs answer composition, tool routing, web search synthesis,
// UI generation and transcript summaries.
//
// Implementations may include:
//   - OpenAI (gpt-4.1, gpt-4.1-mini)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces a completion for a single user prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Chat completes a multi-message conversation.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate. Zero uses the provider default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	// Nil uses the provider default.
	Temperature *float64
}

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of RoleSystem, RoleUser or RoleAssistant.
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness. Nil uses the provider default.
	Temperature *float64
}

// Temperature returns a pointer for use in GenerateOptions and ChatOptions.
func Temperature(t float64) *float64 {
	return &t
}
