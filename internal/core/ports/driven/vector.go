package driven

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// VectorIndex stores records and answers top-k cosine similarity queries.
// The application keeps two independent indexes, one per RecordKind.
type VectorIndex interface {
	// Upsert inserts or replaces records by ID.
	Upsert(ctx context.Context, records []domain.Record) error

	// Query returns up to topK matches ordered by descending score.
	// Ties are broken by ascending ID so results are deterministic.
	// An empty index returns an empty slice and no error.
	Query(ctx context.Context, vector []float32, topK int, filter domain.Filter) ([]domain.Match, error)

	// DeleteByFilter removes every record matching filter.
	// Deleting with no matches is not an error. An empty filter is rejected.
	DeleteByFilter(ctx context.Context, filter domain.Filter) error

	// Close releases resources.
	Close() error
}

// Index names the two vector indexes.
const (
	IndexText  = "text"
	IndexImage = "image"
)
