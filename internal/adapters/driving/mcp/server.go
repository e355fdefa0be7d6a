package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

const shutdownTimeout = 5 * time.Second

// Server exposes the RAG services as MCP tools and prompt resources.
type Server struct {
	ports        *Ports
	server       *mcp.Server
	instructions string
}

// NewServer creates an MCP server. Tools are registered only for the
// ports that are set, and the instructions sent to clients say so.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:        ports,
		instructions: instructions(ports),
	}
	s.server = mcp.NewServer(
		&mcp.Implementation{Name: "sercha-rag", Version: Version},
		&mcp.ServerOptions{Instructions: s.instructions},
	)

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Instructions returns the usage notes sent to clients on initialise.
func (s *Server) Instructions() string {
	return s.instructions
}

// instructions describes how the registered tools fit together.
func instructions(p *Ports) string {
	lines := []string{
		"Answers questions over the documents indexed in sercha-rag.",
		"Use chat to ask a question. Pass doc_id to answer from one document only;" +
			" mode web_search or ui_generator forces that tool.",
	}
	if p.Ingest != nil {
		lines = append(lines, "Use ingest_text to index text. Keep the returned doc_id to scope later questions.")
	}
	if p.YouTube != nil {
		lines = append(lines, "Use youtube_ingest to index a video transcript; it returns a doc_id and summary.")
	}
	if p.Documents != nil {
		lines = append(lines, "Use delete_document to remove every chunk and image of a doc_id.")
	}
	if p.Prompts != nil {
		lines = append(lines, "Prompt templates are readable as sercha-rag://prompts/{name} resources.")
	}
	return strings.Join(lines, "\n")
}

// Run serves over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: shutdown: %v", err)
		}
	}()

	logger.Info("MCP listening on %s", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("mcp http: %w", err)
	}
	return nil
}
