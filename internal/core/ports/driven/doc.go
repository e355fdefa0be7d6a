// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: turns text and captions into vectors
//   - VectorIndex: one instance each for text and image records
//   - LLMService: answer composition and tool routing
//   - ConfigStore: application configuration
//   - PromptStore: prompt templates
//
// # Optional Interfaces
//
// These can be nil; the features that need them degrade or report an error:
//
//   - Captioner: image and PDF page ingestion
//   - PDFRenderer: PDF uploads
//   - ImageNormaliser: non-PNG image uploads are passed through unchanged
//   - WebSearchProvider: the web_search tool answers with a configuration hint
//   - TranscriptFetcher: YouTube ingestion
//   - VideoMetadata: YouTube titles fall back to a generated title
//   - TextExtractor: rich text uploads are indexed as raw text
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
