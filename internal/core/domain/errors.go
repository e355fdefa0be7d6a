package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown content, provider or backend type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrProvider indicates an external provider call failed or timed out.
	ErrProvider = errors.New("provider error")

	// ErrParse indicates a model response could not be parsed.
	ErrParse = errors.New("parse error")

	// ErrUnknownTool indicates a tool name outside the registry.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Transcript Errors.

	// ErrTranscriptsDisabled indicates the video owner disabled captions.
	ErrTranscriptsDisabled = errors.New("transcripts disabled")

	// ErrTranscriptNotFound indicates no transcript exists for the video.
	ErrTranscriptNotFound = errors.New("transcript not found")

	// ErrLanguageUnavailable indicates transcripts exist but none in the requested languages.
	ErrLanguageUnavailable = errors.New("transcript language not available")
)

// ProviderError wraps a failure of an external collaborator
// (embedding, index, LLM, search, transcript).
type ProviderError struct {
	// Provider names the collaborator, e.g. "embedding" or "tavily".
	Provider string

	// Op is the operation that failed, e.g. "embed" or "query".
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *ProviderError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrProvider.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// NewProviderError wraps err as a ProviderError. A nil err returns nil.
func NewProviderError(provider, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Op: op, Err: err}
}

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements error.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is reports whether target is ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NotFoundError reports that a resource (transcript, captions) is unavailable.
type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

// Error implements error.
func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q not found", e.Resource, e.ID)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ParseError reports a malformed tool-decision response.
// It is always recovered by the router and never reaches a client.
type ParseError struct {
	Input string
	Err   error
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", truncate(e.Input, 80), e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
