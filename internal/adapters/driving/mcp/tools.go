package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/services"
)

// ChatInput is the input schema for the chat tool.
type ChatInput struct {
	Message string `json:"message" jsonschema:"the question to answer"`
	DocID   string `json:"doc_id,omitempty" jsonschema:"restrict retrieval to this document"`
	Mode    string `json:"mode,omitempty" jsonschema:"force a tool: web_search or ui_generator"`
}

// ChatOutput is the output schema for the chat tool.
type ChatOutput struct {
	Response string `json:"response"`
	Source   string `json:"source"`
}

// IngestTextInput is the input schema for the ingest_text tool.
type IngestTextInput struct {
	Text  string `json:"text" jsonschema:"the text to index"`
	DocID string `json:"doc_id,omitempty" jsonschema:"document id to tag chunks with (generated when empty)"`
}

// IngestOutput reports what was indexed.
type IngestOutput struct {
	DocID  string `json:"doc_id"`
	Chunks int    `json:"chunks"`
}

// DeleteInput is the input schema for the delete_document tool.
type DeleteInput struct {
	DocID string `json:"doc_id" jsonschema:"the document to delete"`
}

// DeleteOutput is the output schema for the delete_document tool.
type DeleteOutput struct {
	Status string `json:"status"`
	DocID  string `json:"doc_id"`
}

// YouTubeInput is the input schema for the youtube_ingest tool.
type YouTubeInput struct {
	URL string `json:"url" jsonschema:"a youtube.com or youtu.be video URL"`
}

// YouTubeOutput is the output schema for the youtube_ingest tool.
type YouTubeOutput struct {
	DocID   string `json:"doc_id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "chat",
		Description: "Answer a question from the indexed documents, the web, or by generating UI code",
	}, s.handleChat)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest_text",
			Description: "Chunk, embed and index a block of text",
		}, s.handleIngestText)
	}
	if s.ports.Documents != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "delete_document",
			Description: "Remove every text chunk and image caption of a document",
		}, s.handleDelete)
	}
	if s.ports.YouTube != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "youtube_ingest",
			Description: "Index a YouTube video's transcript and summarise it",
		}, s.handleYouTube)
	}
}

// handleChat handles the chat tool invocation.
func (s *Server) handleChat(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChatInput,
) (*mcp.CallToolResult, ChatOutput, error) {
	result, err := s.ports.Chat.Chat(ctx, domain.ChatRequest{
		Message: input.Message,
		DocID:   input.DocID,
		Mode:    domain.ParseChatMode(input.Mode),
	})
	if err != nil {
		return nil, ChatOutput{}, err
	}
	return nil, ChatOutput{Response: result.Response, Source: result.Source.String()}, nil
}

// handleIngestText handles the ingest_text tool invocation.
func (s *Server) handleIngestText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestTextInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if input.Text == "" {
		return nil, IngestOutput{}, &domain.ValidationError{Field: "text", Message: "is required"}
	}
	docID := input.DocID
	if docID == "" {
		docID = services.NewDocID()
	}

	report, err := s.ports.Ingest.IngestText(ctx, input.Text, docID)
	if err != nil {
		return nil, IngestOutput{}, err
	}
	return nil, IngestOutput{DocID: docID, Chunks: report.TextChunks}, nil
}

// handleDelete handles the delete_document tool invocation.
func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	result, err := s.ports.Documents.Delete(ctx, input.DocID)
	if err != nil {
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{Status: "deleted", DocID: result.DocID}, nil
}

// handleYouTube handles the youtube_ingest tool invocation.
func (s *Server) handleYouTube(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input YouTubeInput,
) (*mcp.CallToolResult, YouTubeOutput, error) {
	result, err := s.ports.YouTube.Ingest(ctx, input.URL)
	if err != nil {
		msg, _ := services.YouTubeErrorMessage(err)
		return nil, YouTubeOutput{}, errors.New(msg)
	}
	return nil, YouTubeOutput{DocID: result.DocID, Title: result.Title, Summary: result.Summary}, nil
}
