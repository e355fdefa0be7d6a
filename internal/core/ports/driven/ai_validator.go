package driven

import "github.com/custodia-labs/sercha-rag/internal/core/domain"

// AIConfigValidator checks provider settings by pinging the configured service.
type AIConfigValidator interface {
	// ValidateEmbedding returns nil if the embedding provider answers.
	ValidateEmbedding(settings *domain.ProviderSettings) error

	// ValidateLLM returns nil if the chat provider answers.
	ValidateLLM(settings *domain.ProviderSettings) error
}
