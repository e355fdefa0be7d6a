package services

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// letterVector embeds text as lowercase letter counts, so texts sharing
// letters are similar.
func letterVector(text string) []float32 {
	v := make([]float32, 27)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			v[r-'a']++
		} else if !unicode.IsSpace(r) {
			v[26]++
		}
	}
	return v
}

// mockEmbedder is a test double for driven.EmbeddingService.
type mockEmbedder struct {
	mu      sync.Mutex
	err     error
	failOn  string
	calls   int
	batches int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.failOn != "" && strings.Contains(text, m.failOn) {
		return nil, errEmbed
	}
	return letterVector(text), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batches++
	m.mu.Unlock()
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int            { return 27 }
func (m *mockEmbedder) ModelName() string          { return "letters" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error               { return nil }

type mockError string

func (e mockError) Error() string { return string(e) }

const (
	errEmbed   = mockError("embed failed")
	errCaption = mockError("caption failed")
	errLLM     = mockError("llm failed")
	errSearch  = mockError("search failed")
	errIndex   = mockError("index down")
)

// mockLLM is a test double for driven.LLMService.
type mockLLM struct {
	mu sync.Mutex

	// generate returns the reply for a prompt. Nil returns "".
	generate func(prompt string) (string, error)
	chatResp string
	chatErr  error

	prompts      []string
	chatMessages [][]driven.ChatMessage
	genOpts      []driven.GenerateOptions
	chatOpts     []driven.ChatOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.genOpts = append(m.genOpts, opts)
	m.mu.Unlock()
	if m.generate == nil {
		return "", nil
	}
	return m.generate(prompt)
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.chatMessages = append(m.chatMessages, messages)
	m.chatOpts = append(m.chatOpts, opts)
	m.mu.Unlock()
	return m.chatResp, m.chatErr
}

func (m *mockLLM) ModelName() string            { return "mock" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) promptCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// routingLLM answers the tool-decision prompt with decision and every
// other prompt with answer.
func routingLLM(decision, answer string) *mockLLM {
	return &mockLLM{generate: func(prompt string) (string, error) {
		if strings.HasPrefix(prompt, "User query:") {
			return decision, nil
		}
		return answer, nil
	}}
}

// mockCaptioner is a test double for driven.Captioner.
type mockCaptioner struct {
	mu      sync.Mutex
	caption string
	err     error
	// failFor fails calls whose image bytes equal one of these values.
	failFor map[string]bool
	calls   int
}

func (m *mockCaptioner) Caption(_ context.Context, png []byte) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	if m.failFor[string(png)] {
		return "", errCaption
	}
	if m.caption != "" {
		return m.caption, nil
	}
	return "figure of " + string(png), nil
}

// mockIndex wraps a real index and injects errors.
type mockIndex struct {
	driven.VectorIndex
	upsertErr error
	queryErr  error
	deleteErr error
	queries   int
	mu        sync.Mutex
}

func (m *mockIndex) Upsert(ctx context.Context, records []domain.Record) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	return m.VectorIndex.Upsert(ctx, records)
}

func (m *mockIndex) Query(ctx context.Context, v []float32, k int, f domain.Filter) ([]domain.Match, error) {
	m.mu.Lock()
	m.queries++
	m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.VectorIndex.Query(ctx, v, k, f)
}

func (m *mockIndex) DeleteByFilter(ctx context.Context, f domain.Filter) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	return m.VectorIndex.DeleteByFilter(ctx, f)
}

func (m *mockIndex) queryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queries
}

// mockPDF is a test double for driven.PDFRenderer.
type mockPDF struct {
	texts     []string
	pages     [][]byte
	textErr   error
	renderErr error
	zoom      float64
}

func (m *mockPDF) PageTexts(_ context.Context, _ []byte) ([]string, error) {
	return m.texts, m.textErr
}

func (m *mockPDF) RenderPages(_ context.Context, _ []byte, zoom float64) ([][]byte, error) {
	m.zoom = zoom
	return m.pages, m.renderErr
}

// mockNormaliser is a test double for driven.ImageNormaliser.
type mockNormaliser struct {
	err error
}

func (m *mockNormaliser) ToPNG(data []byte) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]byte("png:"), data...), nil
}

// mockWebSearch is a test double for driven.WebSearchProvider.
type mockWebSearch struct {
	results []driven.WebSearchResult
	err     error
	queries []string
}

func (m *mockWebSearch) Search(_ context.Context, query string) ([]driven.WebSearchResult, error) {
	m.queries = append(m.queries, query)
	return m.results, m.err
}

// mockTranscripts is a test double for driven.TranscriptFetcher.
type mockTranscripts struct {
	segments  []driven.TranscriptSegment
	err       error
	languages []string
}

func (m *mockTranscripts) Fetch(_ context.Context, _ string, languages []string) ([]driven.TranscriptSegment, error) {
	m.languages = languages
	return m.segments, m.err
}

// mockVideoMetadata is a test double for driven.VideoMetadata.
type mockVideoMetadata struct {
	title string
	err   error
}

func (m *mockVideoMetadata) Title(_ context.Context, _ string) (string, error) {
	return m.title, m.err
}

// mockPromptStore is a test double for driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", domain.ErrNotFound
}

func (m *mockPromptStore) Reload() {}

// mockValidator is a test double for driven.AIConfigValidator.
type mockValidator struct {
	embedErr error
	llmErr   error
}

func (m *mockValidator) ValidateEmbedding(_ *domain.ProviderSettings) error { return m.embedErr }
func (m *mockValidator) ValidateLLM(_ *domain.ProviderSettings) error       { return m.llmErr }
