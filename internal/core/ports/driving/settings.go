package driving

import "github.com/custodia-labs/sercha-rag/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, with environment overrides applied.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the chat provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetVisionProvider configures the captioning provider.
	SetVisionProvider(provider domain.AIProvider, model, apiKey string) error

	// SetVectorBackend selects the vector index backend.
	SetVectorBackend(backend domain.VectorBackend, dsn string) error

	// SetWebSearchKey stores the Tavily API key.
	SetWebSearchKey(apiKey string) error

	// Validate checks the settings are complete enough to serve requests.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig pings the configured LLM provider.
	ValidateLLMConfig() error
}
