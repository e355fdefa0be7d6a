// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// ChatRequested is a command to send a message to the chat service.
type ChatRequested struct {
	Request domain.ChatRequest
}

// ChatCompleted carries the routed answer back to the model.
type ChatCompleted struct {
	Request domain.ChatRequest
	Result  domain.ChatResult
	Err     error
}

// ModeChanged is sent when the routing mode is cycled.
type ModeChanged struct {
	Mode domain.ChatMode
}

// ScopeChanged is sent when retrieval is scoped to a document, or unscoped.
type ScopeChanged struct {
	DocID string
}

// DocumentDeleted signals the scoped document was deleted.
type DocumentDeleted struct {
	Result domain.DeleteResult
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the conversation view.
	ViewChat ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
