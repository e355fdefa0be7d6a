// Package domain defines the core business entities for sercha-rag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: A vector with text or image-caption metadata
//   - ChatRequest / ChatResult: A routed query and its tagged answer
//   - ToolKind / ToolDecision: The closed tool registry and routing outcome
//   - IngestReport / DeleteResult: Explicit results of batch and best-effort operations
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
