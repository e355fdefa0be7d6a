// Package tui provides an interactive terminal chat for sercha-rag.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Chat answers questions. Required.
	Chat driving.ChatService

	// Documents deletes the scoped document. Optional.
	Documents driving.DocumentService
}

// NewPorts creates a new Ports aggregate.
func NewPorts(chat driving.ChatService, documents driving.DocumentService) *Ports {
	return &Ports{
		Chat:      chat,
		Documents: documents,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
