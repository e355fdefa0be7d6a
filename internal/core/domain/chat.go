package domain

import "strings"

// ChatMode is the optional mode flag sent with a chat request.
type ChatMode string

// Chat modes. Only WebSearch and UIGenerator override routing;
// the rest are accepted from clients and routed automatically.
const (
	// ChatModeAuto lets the router decide.
	ChatModeAuto ChatMode = ""

	// ChatModeRAG is sent by clients that want the default behaviour.
	ChatModeRAG ChatMode = "rag"

	// ChatModeYouTube is sent while a transcript is the active document.
	ChatModeYouTube ChatMode = "youtube"

	// ChatModeWebSearch forces the web search tool.
	ChatModeWebSearch ChatMode = "web_search"

	// ChatModeUIGenerator forces the UI generation tool.
	ChatModeUIGenerator ChatMode = "ui_generator"
)

// ParseChatMode normalises a client-supplied mode string.
func ParseChatMode(s string) ChatMode {
	return ChatMode(strings.ToLower(strings.TrimSpace(s)))
}

// IsKnown returns true if the mode is one clients are expected to send.
func (m ChatMode) IsKnown() bool {
	switch m {
	case ChatModeAuto, ChatModeRAG, ChatModeYouTube, ChatModeWebSearch, ChatModeUIGenerator:
		return true
	default:
		return false
	}
}

// OverrideTool returns the tool a mode forces and the source tag to report.
// ok is false when the mode does not override routing.
func (m ChatMode) OverrideTool() (ToolKind, Source, bool) {
	switch m {
	case ChatModeWebSearch:
		return ToolWebSearch, SourceWebSearch, true
	case ChatModeUIGenerator:
		return ToolGenerateUI, SourceUIGenerator, true
	default:
		return "", "", false
	}
}

// String returns the string representation.
func (m ChatMode) String() string {
	return string(m)
}

// Source tags where a chat response came from.
type Source string

// Response sources.
const (
	SourceWebSearch   Source = "web_search"
	SourceUIGenerator Source = "ui_generator"
	SourceTool        Source = "tool"
	SourceRAG         Source = "rag"
)

// String returns the string representation.
func (s Source) String() string {
	return string(s)
}

// ChatRequest is a single user query.
type ChatRequest struct {
	// Message is the user's question.
	Message string

	// DocID scopes retrieval to one document when set.
	DocID string

	// Mode optionally overrides routing.
	Mode ChatMode
}

// ChatResult is the routed answer.
type ChatResult struct {
	// Response is the text returned to the client.
	Response string

	// Source identifies the branch that produced Response.
	Source Source

	// Decision records the model-driven routing step.
	// It is the zero value when a mode override short-circuited routing.
	Decision ToolDecision
}
