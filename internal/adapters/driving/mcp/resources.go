package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

const (
	// uriScheme is the custom URI scheme for sercha-rag resources.
	uriScheme = "sercha-rag://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "tools",
		Name:        "tools",
		Description: "Tools the chat router can select",
		MIMEType:    "application/json",
	}, s.handleToolsResource)

	if s.ports.Prompts == nil {
		return
	}
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "prompts",
		Name:        "prompts",
		Description: "Names of the prompt templates",
		MIMEType:    "application/json",
	}, s.handlePromptsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "prompts/{name}",
		Name:        "prompt",
		Description: "The current text of a prompt template",
		MIMEType:    "text/plain",
	}, s.handlePromptResource)
}

// handleToolsResource lists the tool registry.
func (s *Server) handleToolsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type toolInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	kinds := domain.AllToolKinds()
	infos := make([]toolInfo, len(kinds))
	for i, k := range kinds {
		infos[i] = toolInfo{Name: k.String(), Description: k.Description()}
	}
	return jsonResult(req.Params.URI, infos)
}

// handlePromptsResource lists the prompt names.
func (s *Server) handlePromptsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResult(req.Params.URI, driven.AllPromptNames())
}

// handlePromptResource returns one prompt template.
func (s *Server) handlePromptResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractPromptName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	text, err := s.ports.Prompts.Load(name)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     text,
		}},
	}, nil
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractPromptName extracts the name from sercha-rag://prompts/{name}.
func extractPromptName(uri string) string {
	name, ok := strings.CutPrefix(uri, uriScheme+"prompts/")
	if !ok || strings.Contains(name, "/") {
		return ""
	}
	return name
}
