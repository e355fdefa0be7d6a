// Package mcp provides an MCP (Model Context Protocol) server adapter for sercha-rag.
// It lets AI assistants chat with, feed and prune the document index.
package mcp

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")
