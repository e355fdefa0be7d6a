package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// User-facing tool messages.
const (
	MsgWebSearchNotConfigured = "Web search is not configured. Please set TAVILY_API_KEY in your environment or .env file."
	MsgWebSearchFailed        = "Web search failed while contacting Tavily."
	MsgWebSearchNoResults     = "No reliable web search results were found for this query."
	MsgUIGeneratorEmpty       = "UI generator did not return any code. Try rephrasing your request."
	MsgUIGeneratorFailed      = "UI generator failed while contacting OpenAI."
)

// webSearchSnippets is how many results are passed to synthesis.
const webSearchSnippets = 5

// Tool is a single registered capability.
// Tools report provider failures as user-facing text rather than errors.
type Tool interface {
	Run(ctx context.Context, input string) string
}

// ToolRegistry dispatches a ToolKind to its implementation.
type ToolRegistry struct {
	webSearch Tool
	generate  Tool
}

// NewToolRegistry creates a registry with one implementation per ToolKind.
func NewToolRegistry(webSearch, generateUI Tool) *ToolRegistry {
	return &ToolRegistry{webSearch: webSearch, generate: generateUI}
}

// Invoke runs the tool for kind. Unregistered kinds return domain.ErrUnknownTool.
func (r *ToolRegistry) Invoke(ctx context.Context, kind domain.ToolKind, input string) (string, error) {
	var tool Tool
	switch kind {
	case domain.ToolWebSearch:
		tool = r.webSearch
	case domain.ToolGenerateUI:
		tool = r.generate
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownTool, kind)
	}
	if tool == nil {
		return "", fmt.Errorf("%w: %q has no implementation", domain.ErrUnknownTool, kind)
	}
	logger.Debug("invoking tool %s", kind)
	return tool.Run(ctx, input), nil
}

// WebSearchTool searches the web and synthesises a sourced answer.
type WebSearchTool struct {
	provider    driven.WebSearchProvider
	llm         driven.LLMService
	prompts     prompts
	callTimeout time.Duration
}

// NewWebSearchTool creates the web search tool. A nil provider means not configured.
func NewWebSearchTool(
	provider driven.WebSearchProvider, llm driven.LLMService, store driven.PromptStore, callTimeout time.Duration,
) *WebSearchTool {
	return &WebSearchTool{provider: provider, llm: llm, prompts: prompts{store: store}, callTimeout: callTimeout}
}

// Run searches for query and returns a synthesised answer, or the raw
// results when synthesis is unavailable.
func (t *WebSearchTool) Run(ctx context.Context, query string) string {
	if t.provider == nil {
		return MsgWebSearchNotConfigured
	}

	logger.Section("Web Search")
	cctx, cancel := callContext(ctx, t.callTimeout)
	results, err := t.provider.Search(cctx, query)
	cancel()
	if err != nil {
		logger.Warn("web search failed: %v", err)
		return MsgWebSearchFailed
	}
	if len(results) == 0 {
		return MsgWebSearchNoResults
	}

	snippets := FormatSearchResults(results, webSearchSnippets)
	logger.Debug("web search: %d results", len(results))

	if t.llm == nil {
		return snippets
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: t.prompts.load(driven.PromptWebSearchSystem)},
		{Role: driven.RoleUser, Content: t.prompts.render(driven.PromptWebSearchUser,
			"question", query, "results", snippets)},
	}
	cctx, cancel = callContext(ctx, t.callTimeout)
	defer cancel()
	answer, err := t.llm.Chat(cctx, messages, driven.ChatOptions{Temperature: driven.Temperature(0)})
	if err != nil {
		logger.Warn("web search synthesis failed: %v", err)
		return snippets
	}
	if answer = strings.TrimSpace(answer); answer == "" {
		return snippets
	}
	return answer
}

// FormatSearchResults renders the first n results as numbered snippets.
func FormatSearchResults(results []driven.WebSearchResult, n int) string {
	if len(results) > n {
		results = results[:n]
	}
	parts := make([]string, len(results))
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "Untitled"
		}
		parts[i] = strconv.Itoa(i+1) + ". " + title + "\nURL: " + r.URL + "\n" + r.Content
	}
	return strings.Join(parts, "\n\n")
}

// UIGeneratorTool asks the LLM for a self-contained UI component.
type UIGeneratorTool struct {
	llm         driven.LLMService
	prompts     prompts
	callTimeout time.Duration
}

// NewUIGeneratorTool creates the UI generation tool.
func NewUIGeneratorTool(llm driven.LLMService, store driven.PromptStore, callTimeout time.Duration) *UIGeneratorTool {
	return &UIGeneratorTool{llm: llm, prompts: prompts{store: store}, callTimeout: callTimeout}
}

// Run returns generated code, or a user-facing message on failure.
func (t *UIGeneratorTool) Run(ctx context.Context, spec string) string {
	if t.llm == nil {
		return MsgUIGeneratorFailed
	}
	cctx, cancel := callContext(ctx, t.callTimeout)
	defer cancel()

	prompt := t.prompts.render(driven.PromptGenerateUI, "spec", spec)
	out, err := t.llm.Generate(cctx, prompt, driven.GenerateOptions{Temperature: driven.Temperature(0.3)})
	if err != nil {
		logger.Warn("ui generator failed: %v", err)
		return MsgUIGeneratorFailed
	}
	if strings.TrimSpace(out) == "" {
		return MsgUIGeneratorEmpty
	}
	return out
}
