// Package app wires the driven adapters into the core services.
// It is the composition root shared by every driving adapter.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/ai"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/extract"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/imaging"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/pdf/poppler"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/transcript/youtube"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/video/youtubeapi"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/websearch/tavily"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/services"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// App holds the configuration layer. Opening it does no network I/O,
// so settings commands work even when providers are misconfigured.
type App struct {
	ConfigDir   string
	ConfigStore *file.ConfigStore
	Settings    *services.SettingsService
	Prompts     *file.PromptStore
}

// New opens the config store and prompt store under configDir.
// An empty configDir uses ~/.sercha-rag.
func New(configDir string) (*App, error) {
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config directory: %w", err)
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"), services.DefaultPrompts())
	if err != nil {
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	return &App{
		ConfigDir:   configDir,
		ConfigStore: configStore,
		Settings:    services.NewSettingsService(configStore, ai.NewConfigValidator()),
		Prompts:     prompts,
	}, nil
}

// Runtime holds the services that answer requests.
type Runtime struct {
	Settings  *domain.AppSettings
	Chat      *services.ChatService
	Ingest    *services.IngestService
	Documents *services.DocumentService
	YouTube   *services.YouTubeService

	// Warnings lists optional features that were disabled.
	Warnings []string

	ai      *ai.InitResult
	indexes *storage.Indexes
}

// Start creates the AI providers and vector indexes and builds the services.
func (a *App) Start(ctx context.Context) (*Runtime, error) {
	settings, err := a.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if settings.VectorStore.Backend == domain.VectorBackendSQLite && settings.VectorStore.DataDir == "" {
		settings.VectorStore.DataDir = filepath.Join(a.ConfigDir, "data")
	}

	logger.Section("Startup")
	aiResult, err := ai.Init(ctx, settings, a.Prompts)
	if err != nil {
		return nil, err
	}

	indexes, err := storage.Open(ctx, settings.VectorStore)
	if err != nil {
		aiResult.Close()
		return nil, err
	}
	logger.Debug("vector backend: %s (%d dimensions)", settings.VectorStore.Backend, settings.VectorStore.Dimensions)

	rt := &Runtime{
		Settings: settings,
		Warnings: append([]string(nil), aiResult.Warnings...),
		ai:       aiResult,
		indexes:  indexes,
	}
	timeout := settings.Ingest.CallTimeout

	ingestOpts := []services.IngestOption{
		services.WithChunkSize(settings.Ingest.ChunkSize),
		services.WithConcurrency(settings.Ingest.Concurrency),
		services.WithFailurePolicy(settings.Ingest.FailurePolicy),
		services.WithCallTimeout(timeout),
		services.WithPDFRenderer(poppler.New()),
		services.WithImageNormaliser(imaging.New(0)),
		services.WithTextExtractor(extract.New()),
	}
	if aiResult.Captioner != nil {
		ingestOpts = append(ingestOpts, services.WithCaptioner(aiResult.Captioner))
	}
	rt.Ingest = services.NewIngestService(aiResult.EmbeddingService, indexes.Text, indexes.Image, ingestOpts...)
	rt.Documents = services.NewDocumentService(indexes.Text, indexes.Image, timeout)

	var webSearch driven.WebSearchProvider
	if settings.WebSearch.IsConfigured() {
		client, err := tavily.New(tavily.Config{
			APIKey:  settings.WebSearch.APIKey,
			BaseURL: settings.WebSearch.BaseURL,
		})
		if err != nil {
			rt.Warnings = append(rt.Warnings, fmt.Sprintf("web search disabled: %v", err))
		} else {
			webSearch = client
		}
	} else {
		rt.Warnings = append(rt.Warnings, "web search disabled: no Tavily API key")
	}

	tools := services.NewToolRegistry(
		services.NewWebSearchTool(webSearch, aiResult.LLMService, a.Prompts, timeout),
		services.NewUIGeneratorTool(aiResult.LLMService, a.Prompts, timeout),
	)
	rt.Chat = services.NewChatService(
		aiResult.EmbeddingService,
		aiResult.LLMService,
		services.NewRetriever(indexes.Text, indexes.Image, timeout),
		services.NewAnswerComposer(aiResult.LLMService, a.Prompts, timeout),
		tools,
		a.Prompts,
		timeout,
	)

	var metadata driven.VideoMetadata
	if settings.YouTube.APIKey != "" {
		md, err := youtubeapi.New(ctx, youtubeapi.Config{APIKey: settings.YouTube.APIKey})
		if err != nil {
			rt.Warnings = append(rt.Warnings, fmt.Sprintf("video titles disabled: %v", err))
		} else {
			metadata = md
		}
	}
	rt.YouTube = services.NewYouTubeService(
		youtube.New(0), metadata, rt.Ingest, aiResult.LLMService, a.Prompts, timeout,
	)

	for _, w := range rt.Warnings {
		logger.Warn("%s", w)
	}
	return rt, nil
}

// Close releases provider clients and the vector store.
func (r *Runtime) Close() error {
	var errs []error
	if r.ai != nil {
		r.ai.Close()
	}
	if r.indexes != nil {
		if err := r.indexes.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing vector store: %w", err))
		}
	}
	return errors.Join(errs...)
}
