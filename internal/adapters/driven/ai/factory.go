// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/sercha-rag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/sercha-rag/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/sercha-rag/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/sercha-rag/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// settingsHint is appended to configuration errors.
const settingsHint = "Run 'sercha-rag settings' to fix"

// InitResult contains the AI services used by the server.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Captioner        driven.Captioner // Nil disables image and PDF ingestion.
	Warnings         []string         // Non-fatal issues that disabled a feature.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates the embedding, chat and vision services and checks that
// embedding and chat answer. Both are required. A vision provider that
// cannot be created is reported as a warning.
func Init(ctx context.Context, settings *domain.AppSettings, prompts driven.PromptStore) (*InitResult, error) {
	result := &InitResult{}

	embedder, err := CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return nil, err
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding provider not configured. %s", domain.ErrEmbeddingUnavailable, settingsHint)
	}
	result.EmbeddingService = embedder

	llm, err := CreateAndValidateLLMService(ctx, &settings.LLM)
	if err != nil {
		result.Close()
		return nil, err
	}
	if llm == nil {
		result.Close()
		return nil, fmt.Errorf("%w: LLM provider not configured. %s", domain.ErrLLMUnavailable, settingsHint)
	}
	result.LLMService = llm

	captioner, err := CreateCaptioner(&settings.Vision)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, fmt.Sprintf("image captioning disabled: %v", err))
	case captioner == nil:
		result.Warnings = append(result.Warnings, "image captioning disabled: vision provider not configured")
	default:
		result.Captioner = captioner
	}

	SetPromptStore(prompts, result.LLMService, result.Captioner)
	return result, nil
}

// promptAware is implemented by adapters that load prompts themselves.
type promptAware interface {
	SetPromptStore(store driven.PromptStore)
}

// SetPromptStore hands store to every service that loads its own prompts.
func SetPromptStore(store driven.PromptStore, services ...any) {
	if store == nil {
		return
	}
	for _, svc := range services {
		if pa, ok := svc.(promptAware); ok {
			pa.SetPromptStore(store)
		}
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(
	ctx context.Context, settings *domain.ProviderSettings,
) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrEmbeddingUnavailable, err, settingsHint)
	}
	if svc == nil {
		return nil, nil
	}

	if err := ping(ctx, svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s", domain.ErrEmbeddingUnavailable, err, settingsHint)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.ProviderSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrLLMUnavailable, err, settingsHint)
	}
	if svc == nil {
		return nil, nil
	}

	if err := ping(ctx, svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s", domain.ErrLLMUnavailable, err, settingsHint)
	}
	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.ProviderSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()
	return ping(context.Background(), svc.Ping)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.ProviderSettings) error {
	svc, err := CreateLLMService(settings)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()
	return ping(context.Background(), svc.Ping)
}

func ping(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return fn(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.ProviderSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil
	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.ProviderSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil
	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateCaptioner creates an image captioner backed by a vision-capable chat model.
// Returns nil if the provider is not configured.
func CreateCaptioner(settings *domain.ProviderSettings) (driven.Captioner, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	model := settings.Model
	if model == "" {
		model = domain.DefaultVisionModels()[settings.Provider]
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   model,
		}), nil
	case domain.AIProviderOpenAI:
		svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unsupported vision provider: %s", settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.ProviderSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.ProviderSettings) (driven.EmbeddingService, error) {
	svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: domain.EmbeddingDimensions()[settings.Model],
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.ProviderSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.ProviderSettings) (driven.LLMService, error) {
	svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}
