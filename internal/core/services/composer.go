package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// AnswerComposer builds the grounded prompt and asks the LLM for an answer.
type AnswerComposer struct {
	llm         driven.LLMService
	prompts     prompts
	callTimeout time.Duration
}

// NewAnswerComposer creates a composer. store may be nil.
func NewAnswerComposer(llm driven.LLMService, store driven.PromptStore, callTimeout time.Duration) *AnswerComposer {
	return &AnswerComposer{llm: llm, prompts: prompts{store: store}, callTimeout: callTimeout}
}

// ComposePrompt renders the grounded answer prompt.
// Texts are joined by newlines; captions are listed only when present.
func (c *AnswerComposer) ComposePrompt(query string, texts, captions []string) string {
	images := ""
	if len(captions) > 0 {
		lines := make([]string, len(captions))
		for i, caption := range captions {
			lines[i] = "- " + caption
		}
		images = "\n\nImage descriptions (from similar figures or diagrams):\n" + strings.Join(lines, "\n")
	}
	return c.prompts.render(driven.PromptRAGAnswer,
		"text_context", strings.Join(texts, "\n"),
		"images_section", images,
		"query", query,
	)
}

// Answer makes one completion call and returns the reply verbatim.
func (c *AnswerComposer) Answer(ctx context.Context, query string, texts, captions []string) (string, error) {
	if c.llm == nil {
		return "", domain.ErrLLMUnavailable
	}
	cctx, cancel := callContext(ctx, c.callTimeout)
	defer cancel()

	reply, err := c.llm.Generate(cctx, c.ComposePrompt(query, texts, captions), driven.GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("compose answer: %w", domain.NewProviderError("llm", "generate", err))
	}
	return reply, nil
}
