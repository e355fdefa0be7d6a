package driving

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// ChatService answers a user query, routing to a tool or to RAG.
type ChatService interface {
	// Chat returns the answer and the branch that produced it.
	Chat(ctx context.Context, req domain.ChatRequest) (domain.ChatResult, error)
}
