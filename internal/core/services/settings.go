package services

import (
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyVisionProvider = "vision.provider"
	keyVisionModel    = "vision.model"
	keyVisionBaseURL  = "vision.base_url"
	keyVisionAPIKey   = "vision.api_key"
	keyVectorBackend  = "vector_store.backend"
	keyVectorDataDir  = "vector_store.data_dir"
	keyVectorDSN      = "vector_store.dsn"
	keyVectorDims     = "vector_store.dimensions"
	keyWebSearchKey   = "web_search.api_key"
	keyWebSearchURL   = "web_search.base_url"
	keyYouTubeKey     = "youtube.api_key"
	keyChunkSize      = "ingest.chunk_size"
	keyConcurrency    = "ingest.concurrency"
	keyFailurePolicy  = "ingest.failure_policy"
	keyCallTimeout    = "ingest.call_timeout"
	keyServerAddr     = "server.addr"
)

// Environment variables that override the config file.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
	EnvTavilyAPIKey  = "TAVILY_API_KEY"
	EnvYouTubeAPIKey = "YOUTUBE_API_KEY"
	EnvPostgresDSN   = "SERCHA_RAG_PG_DSN"
	EnvOllamaHost    = "OLLAMA_HOST"
)

const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current settings. Environment variables fill in values
// the config file leaves empty.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: s.getProviderSettings(keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey,
			defaults.Embedding, domain.DefaultEmbeddingModels()),
		LLM: s.getProviderSettings(keyLLMProvider, keyLLMModel, keyLLMBaseURL, keyLLMAPIKey,
			defaults.LLM, domain.DefaultLLMModels()),
		Vision: s.getProviderSettings(keyVisionProvider, keyVisionModel, keyVisionBaseURL, keyVisionAPIKey,
			defaults.Vision, domain.DefaultVisionModels()),
		VectorStore: domain.VectorStoreSettings{
			Backend:    s.getVectorBackend(defaults.VectorStore.Backend),
			DataDir:    s.configStore.GetString(keyVectorDataDir),
			DSN:        s.getStringEnv(keyVectorDSN, EnvPostgresDSN),
			Dimensions: s.getInt(keyVectorDims, 0),
		},
		WebSearch: domain.WebSearchSettings{
			APIKey:  s.getStringEnv(keyWebSearchKey, EnvTavilyAPIKey),
			BaseURL: s.configStore.GetString(keyWebSearchURL),
		},
		YouTube: domain.YouTubeSettings{
			APIKey: s.getStringEnv(keyYouTubeKey, EnvYouTubeAPIKey),
		},
		Ingest: domain.IngestSettings{
			ChunkSize:     s.getInt(keyChunkSize, defaults.Ingest.ChunkSize),
			Concurrency:   s.getInt(keyConcurrency, defaults.Ingest.Concurrency),
			FailurePolicy: s.getFailurePolicy(defaults.Ingest.FailurePolicy),
			CallTimeout:   s.getDuration(keyCallTimeout, defaults.Ingest.CallTimeout),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, defaults.Server.Addr),
		},
	}

	// Dimensions follow the embedding model unless pinned.
	if settings.VectorStore.Dimensions == 0 {
		if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
			settings.VectorStore.Dimensions = d
		} else {
			settings.VectorStore.Dimensions = defaults.VectorStore.Dimensions
		}
	}

	return settings, nil
}

// Save persists application settings. Empty secrets are not written.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	pairs := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyVisionProvider, settings.Vision.Provider.String()},
		{keyVisionModel, settings.Vision.Model},
		{keyVisionBaseURL, settings.Vision.BaseURL},
		{keyVectorBackend, settings.VectorStore.Backend.String()},
		{keyVectorDataDir, settings.VectorStore.DataDir},
		{keyVectorDims, settings.VectorStore.Dimensions},
		{keyWebSearchURL, settings.WebSearch.BaseURL},
		{keyChunkSize, settings.Ingest.ChunkSize},
		{keyConcurrency, settings.Ingest.Concurrency},
		{keyFailurePolicy, settings.Ingest.FailurePolicy.String()},
		{keyCallTimeout, settings.Ingest.CallTimeout.String()},
		{keyServerAddr, settings.Server.Addr},
	}
	for _, p := range pairs {
		if err := s.configStore.Set(p.key, p.value); err != nil {
			return fmt.Errorf("save %s: %w", p.key, err)
		}
	}

	// Secrets that came from the environment stay there.
	secrets := []struct {
		key, env, value string
	}{
		{keyEmbedAPIKey, EnvOpenAIAPIKey, settings.Embedding.APIKey},
		{keyLLMAPIKey, EnvOpenAIAPIKey, settings.LLM.APIKey},
		{keyVisionAPIKey, EnvOpenAIAPIKey, settings.Vision.APIKey},
		{keyVectorDSN, EnvPostgresDSN, settings.VectorStore.DSN},
		{keyWebSearchKey, EnvTavilyAPIKey, settings.WebSearch.APIKey},
		{keyYouTubeKey, EnvYouTubeAPIKey, settings.YouTube.APIKey},
	}
	for _, sec := range secrets {
		if sec.value == "" || sec.value == s.getenv(sec.env) {
			continue
		}
		if err := s.configStore.Set(sec.key, sec.value); err != nil {
			return fmt.Errorf("save %s: %w", sec.key, err)
		}
	}

	return s.configStore.Save()
}

// SetEmbeddingProvider configures the embedding provider and matching dimensions.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	ps, err := configureProvider("embedding", settings.Embedding, provider, model, apiKey, domain.DefaultEmbeddingModels())
	if err != nil {
		return err
	}
	settings.Embedding = ps
	if d, ok := domain.EmbeddingDimensions()[ps.Model]; ok {
		settings.VectorStore.Dimensions = d
	}
	return s.Save(settings)
}

// SetLLMProvider configures the chat provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	ps, err := configureProvider("LLM", settings.LLM, provider, model, apiKey, domain.DefaultLLMModels())
	if err != nil {
		return err
	}
	settings.LLM = ps
	return s.Save(settings)
}

// SetVisionProvider configures the captioning provider.
func (s *SettingsService) SetVisionProvider(provider domain.AIProvider, model, apiKey string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	ps, err := configureProvider("vision", settings.Vision, provider, model, apiKey, domain.DefaultVisionModels())
	if err != nil {
		return err
	}
	settings.Vision = ps
	return s.Save(settings)
}

// SetVectorBackend selects the vector index backend.
func (s *SettingsService) SetVectorBackend(backend domain.VectorBackend, dsn string) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid vector backend: %s", backend)
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if backend == domain.VectorBackendPgvector && dsn == "" && settings.VectorStore.DSN == "" {
		return fmt.Errorf("backend %s requires a DSN (or %s)", backend, EnvPostgresDSN)
	}
	settings.VectorStore.Backend = backend
	if dsn != "" {
		settings.VectorStore.DSN = dsn
	}
	return s.Save(settings)
}

// SetWebSearchKey stores the Tavily API key.
func (s *SettingsService) SetWebSearchKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("API key required for web search")
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.WebSearch.APIKey = apiKey
	return s.Save(settings)
}

// Validate checks that the settings can serve chat and ingestion.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is not configured (set %s or embedding.api_key)",
			settings.Embedding.Provider, EnvOpenAIAPIKey)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q is not configured (set %s or llm.api_key)",
			settings.LLM.Provider, EnvOpenAIAPIKey)
	}
	if !settings.VectorStore.Backend.IsValid() {
		return fmt.Errorf("invalid vector backend: %s", settings.VectorStore.Backend)
	}
	if settings.VectorStore.Backend == domain.VectorBackendPgvector && settings.VectorStore.DSN == "" {
		return fmt.Errorf("vector backend pgvector requires a DSN (set %s)", EnvPostgresDSN)
	}
	if settings.Ingest.ChunkSize <= 0 {
		return fmt.Errorf("ingest.chunk_size must be positive")
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig pings the configured embedding provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig pings the configured LLM provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// configureProvider applies a provider change with model and base URL defaults.
func configureProvider(
	label string, current domain.ProviderSettings, provider domain.AIProvider, model, apiKey string,
	defaultModels map[domain.AIProvider]string,
) (domain.ProviderSettings, error) {
	if !provider.IsValid() {
		return current, fmt.Errorf("invalid %s provider: %s", label, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return current, fmt.Errorf("API key required for %s", provider)
	}

	ps := domain.ProviderSettings{Provider: provider, Model: model, APIKey: apiKey}
	if ps.Model == "" {
		ps.Model = defaultModels[provider]
	}
	if provider.IsLocal() {
		ps.BaseURL = current.BaseURL
		if ps.BaseURL == "" || current.Provider != provider {
			ps.BaseURL = defaultOllamaURL
		}
	}
	return ps, nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getProviderSettings(
	providerKey, modelKey, baseURLKey, apiKeyKey string,
	defaults domain.ProviderSettings, defaultModels map[domain.AIProvider]string,
) domain.ProviderSettings {
	ps := domain.ProviderSettings{
		Provider: s.getProvider(providerKey, defaults.Provider),
		BaseURL:  s.configStore.GetString(baseURLKey),
		APIKey:   s.configStore.GetString(apiKeyKey),
	}
	ps.Model = s.getString(modelKey, defaultModels[ps.Provider])

	switch ps.Provider {
	case domain.AIProviderOpenAI:
		if ps.APIKey == "" {
			ps.APIKey = s.getenv(EnvOpenAIAPIKey)
		}
	case domain.AIProviderOllama:
		if ps.BaseURL == "" {
			ps.BaseURL = s.getenv(EnvOllamaHost)
		}
		if ps.BaseURL == "" {
			ps.BaseURL = defaultOllamaURL
		}
	}
	return ps
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStringEnv(key, env string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return s.getenv(env)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetDuration(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getVectorBackend(defaultVal domain.VectorBackend) domain.VectorBackend {
	backend := domain.VectorBackend(s.configStore.GetString(keyVectorBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getFailurePolicy(defaultVal domain.FailurePolicy) domain.FailurePolicy {
	policy := domain.FailurePolicy(s.configStore.GetString(keyFailurePolicy))
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}
