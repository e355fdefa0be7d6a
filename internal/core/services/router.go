package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService routes a query to a mode-forced tool, a model-chosen tool, or RAG.
type ChatService struct {
	embedder    driven.EmbeddingService
	llm         driven.LLMService
	retriever   *Retriever
	composer    *AnswerComposer
	tools       *ToolRegistry
	prompts     prompts
	callTimeout time.Duration
}

// NewChatService creates the chat router.
func NewChatService(
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	retriever *Retriever,
	composer *AnswerComposer,
	tools *ToolRegistry,
	store driven.PromptStore,
	callTimeout time.Duration,
) *ChatService {
	return &ChatService{
		embedder:    embedder,
		llm:         llm,
		retriever:   retriever,
		composer:    composer,
		tools:       tools,
		prompts:     prompts{store: store},
		callTimeout: callTimeout,
	}
}

// Chat answers req. Priority: mode override, then model decision, then RAG.
// Failures in the decision step fall through to RAG and are recorded in
// ChatResult.Decision.
func (s *ChatService) Chat(ctx context.Context, req domain.ChatRequest) (domain.ChatResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return domain.ChatResult{}, &domain.ValidationError{Field: "message", Message: "is required"}
	}

	logger.Section("Chat")
	mode := domain.ParseChatMode(req.Mode.String())
	logger.Debug("mode=%q doc=%q", mode, req.DocID)

	if tool, source, ok := mode.OverrideTool(); ok {
		logger.Info("Mode override: %s", tool)
		out, err := s.tools.Invoke(ctx, tool, req.Message)
		if err != nil {
			return domain.ChatResult{}, fmt.Errorf("chat: %w", err)
		}
		return domain.ChatResult{Response: out, Source: source}, nil
	}
	if !mode.IsKnown() {
		logger.Warn("unknown chat mode %q, routing automatically", mode)
	}

	decision := s.Decide(ctx, req.Message)
	logger.Debug("decision=%s tool=%q err=%v", decision.Kind, decision.Tool, decision.Err)

	if decision.Kind == domain.DecisionTool {
		out, err := s.tools.Invoke(ctx, decision.Tool, decision.Input)
		if err != nil {
			return domain.ChatResult{Decision: decision}, fmt.Errorf("chat: %w", err)
		}
		return domain.ChatResult{Response: out, Source: domain.SourceTool, Decision: decision}, nil
	}

	answer, err := s.RAG(ctx, req.Message, req.DocID)
	if err != nil {
		return domain.ChatResult{Decision: decision}, err
	}
	return domain.ChatResult{Response: answer, Source: domain.SourceRAG, Decision: decision}, nil
}

// Decide asks the LLM whether a tool is needed and parses the reply.
// It never returns an error; failures become DecisionInvalid.
func (s *ChatService) Decide(ctx context.Context, query string) domain.ToolDecision {
	if s.llm == nil {
		return domain.ToolDecision{Kind: domain.DecisionInvalid, Err: domain.ErrLLMUnavailable}
	}
	cctx, cancel := callContext(ctx, s.callTimeout)
	defer cancel()

	raw, err := s.llm.Generate(cctx, s.prompts.render(driven.PromptToolDecision, "query", query), driven.GenerateOptions{})
	if err != nil {
		return domain.ToolDecision{
			Kind: domain.DecisionInvalid,
			Err:  domain.NewProviderError("llm", "decide", err),
		}
	}
	return ParseToolDecision(raw)
}

// RAG embeds the query, retrieves context scoped to docID and composes an answer.
func (s *ChatService) RAG(ctx context.Context, query, docID string) (string, error) {
	if s.embedder == nil {
		return "", domain.ErrEmbeddingUnavailable
	}

	cctx, cancel := callContext(ctx, s.callTimeout)
	vector, err := s.embedder.Embed(cctx, query)
	cancel()
	if err != nil {
		return "", fmt.Errorf("rag: %w", domain.NewProviderError("embedding", "embed", err))
	}

	texts, err := s.retriever.RetrieveText(ctx, vector, DefaultTextTopK, docID)
	if err != nil {
		return "", fmt.Errorf("rag: %w", err)
	}
	captions, err := s.retriever.RetrieveImages(ctx, vector, DefaultImageTopK, docID)
	if err != nil {
		return "", fmt.Errorf("rag: %w", err)
	}

	return s.composer.Answer(ctx, query, texts, captions)
}

// ParseToolDecision interprets the routing reply.
//
//   - "" or "none" (any case) is DecisionNone.
//   - {"tool": <registered>, "input": <non-null>} is DecisionTool.
//   - Anything else is DecisionInvalid with a *domain.ParseError.
func ParseToolDecision(raw string) domain.ToolDecision {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "none") {
		return domain.ToolDecision{Kind: domain.DecisionNone, Raw: raw}
	}

	invalid := func(err error) domain.ToolDecision {
		return domain.ToolDecision{
			Kind: domain.DecisionInvalid,
			Raw:  raw,
			Err:  &domain.ParseError{Input: trimmed, Err: err},
		}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return invalid(err)
	}

	var name string
	if err := json.Unmarshal(fields["tool"], &name); err != nil {
		return invalid(errors.New("tool must be a string"))
	}
	kind, ok := domain.ParseToolKind(name)
	if !ok {
		return invalid(fmt.Errorf("%w: %q", domain.ErrUnknownTool, name))
	}

	rawInput, present := fields["input"]
	if !present || string(rawInput) == "null" {
		return invalid(errors.New("input is missing"))
	}
	input := string(rawInput)
	var s string
	if json.Unmarshal(rawInput, &s) == nil {
		input = s
	}

	return domain.ToolDecision{Kind: domain.DecisionTool, Tool: kind, Input: input, Raw: raw}
}
