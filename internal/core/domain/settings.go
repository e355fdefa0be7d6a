package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings, chat or vision.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// ProviderSettings configures one AI capability (embedding, chat or vision).
type ProviderSettings struct {
	// Provider is the service provider.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the provider is set up.
func (s ProviderSettings) IsConfigured() bool {
	if !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// VectorBackend selects the vector index implementation.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendMemory keeps records in process memory.
	VectorBackendMemory VectorBackend = "memory"

	// VectorBackendSQLite persists records to a local SQLite file.
	VectorBackendSQLite VectorBackend = "sqlite"

	// VectorBackendPgvector stores records in PostgreSQL with the pgvector extension.
	VectorBackendPgvector VectorBackend = "pgvector"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendMemory, VectorBackendSQLite, VectorBackendPgvector:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b VectorBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b VectorBackend) Description() string {
	switch b {
	case VectorBackendMemory:
		return "Memory (lost on restart)"
	case VectorBackendSQLite:
		return "SQLite (local file)"
	case VectorBackendPgvector:
		return "PostgreSQL + pgvector"
	default:
		return unknownDescription
	}
}

// VectorStoreSettings holds vector index configuration.
type VectorStoreSettings struct {
	// Backend is the index implementation.
	Backend VectorBackend

	// DataDir is the SQLite data directory. Empty uses the default.
	DataDir string

	// DSN is the PostgreSQL connection string for pgvector.
	DSN string

	// Dimensions is the embedding vector size; pgvector needs it for the column type.
	Dimensions int
}

// WebSearchSettings configures the Tavily web search tool.
type WebSearchSettings struct {
	// APIKey is the Tavily API key. Empty disables web search.
	APIKey string

	// BaseURL overrides the Tavily endpoint.
	BaseURL string
}

// IsConfigured returns true if web search can be used.
func (s WebSearchSettings) IsConfigured() bool {
	return s.APIKey != ""
}

// YouTubeSettings configures optional YouTube Data API lookups.
type YouTubeSettings struct {
	// APIKey enables video title lookup. Empty falls back to a generated title.
	APIKey string
}

// IngestSettings controls the ingestion pipeline.
type IngestSettings struct {
	// ChunkSize is the maximum number of characters per text chunk.
	ChunkSize int

	// Concurrency bounds parallel per-page work.
	Concurrency int

	// FailurePolicy is the default batch failure policy.
	FailurePolicy FailurePolicy

	// CallTimeout bounds every external call.
	CallTimeout time.Duration
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding   ProviderSettings
	LLM         ProviderSettings
	Vision      ProviderSettings
	VectorStore VectorStoreSettings
	WebSearch   WebSearchSettings
	YouTube     YouTubeSettings
	Ingest      IngestSettings
	Server      ServerSettings
}

// Default values.
const (
	DefaultChunkSize   = 2000
	DefaultConcurrency = 4
	DefaultCallTimeout = 60 * time.Second
	DefaultServerAddr  = ":8000"
)

// DefaultAppSettings returns settings with sensible defaults.
// API keys are left empty; they come from the config file or the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: ProviderSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultEmbeddingModels()[AIProviderOpenAI],
		},
		LLM: ProviderSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultLLMModels()[AIProviderOpenAI],
		},
		Vision: ProviderSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultVisionModels()[AIProviderOpenAI],
		},
		VectorStore: VectorStoreSettings{
			Backend:    VectorBackendSQLite,
			Dimensions: EmbeddingDimensions()[DefaultEmbeddingModels()[AIProviderOpenAI]],
		},
		Ingest: IngestSettings{
			ChunkSize:     DefaultChunkSize,
			Concurrency:   DefaultConcurrency,
			FailurePolicy: FailurePolicyAbort,
			CallTimeout:   DefaultCallTimeout,
		},
		Server: ServerSettings{
			Addr: DefaultServerAddr,
		},
	}
}

// AllAIProviders returns every supported provider.
func AllAIProviders() []AIProvider {
	return []AIProvider{AIProviderOpenAI, AIProviderOllama}
}

// AllVectorBackends returns every supported vector backend.
func AllVectorBackends() []VectorBackend {
	return []VectorBackend{VectorBackendMemory, VectorBackendSQLite, VectorBackendPgvector}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-large",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.2",
		AIProviderOpenAI: "gpt-4.1",
	}
}

// DefaultVisionModels returns default captioning models for each provider.
func DefaultVisionModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llava",
		AIProviderOpenAI: "gpt-4.1-mini",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
