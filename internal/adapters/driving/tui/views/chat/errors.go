package chat

import "errors"

// Error definitions for the chat view.
var (
	// ErrNoChatService indicates that no chat service was provided.
	ErrNoChatService = errors.New("chat service is required")

	// ErrNoDocumentService indicates that deletion is unavailable.
	ErrNoDocumentService = errors.New("document deletion is not available")

	// ErrNoScope indicates there is no scoped document to delete.
	ErrNoScope = errors.New("no document in scope; press ctrl+o to set one")
)
