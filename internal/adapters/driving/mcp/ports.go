package mcp

import (
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// Ports aggregates the services the MCP server exposes.
type Ports struct {
	// Chat answers questions. Required.
	Chat driving.ChatService

	// Ingest indexes text. Optional.
	Ingest driving.IngestService

	// Documents deletes documents. Optional.
	Documents driving.DocumentService

	// YouTube indexes video transcripts. Optional.
	YouTube driving.YouTubeService

	// Prompts backs the prompt resources. Optional.
	Prompts driven.PromptStore
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
