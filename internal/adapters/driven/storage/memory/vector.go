package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory driven.VectorIndex with exact cosine search.
// Contents are lost when the process exits.
type VectorIndex struct {
	mu      sync.RWMutex
	records map[string]domain.Record
}

// NewVectorIndex creates an empty in-memory index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{records: make(map[string]domain.Record)}
}

// Upsert inserts or replaces records by ID.
func (v *VectorIndex) Upsert(ctx context.Context, records []domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range records {
		r.Vector = append([]float32(nil), r.Vector...)
		v.records[r.ID] = r
	}
	return nil
}

// Query returns the topK most similar records matching filter.
func (v *VectorIndex) Query(
	ctx context.Context, vector []float32, topK int, filter domain.Filter,
) ([]domain.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v.mu.RLock()
	matches := make([]domain.Match, 0, len(v.records))
	for id, r := range v.records {
		if !filter.Matches(r.Metadata) {
			continue
		}
		matches = append(matches, domain.Match{
			ID:       id,
			Score:    similarity.Cosine(vector, r.Vector),
			Metadata: r.Metadata,
		})
	}
	v.mu.RUnlock()

	ranked := similarity.Rank(matches, topK)
	if ranked == nil {
		return []domain.Match{}, nil
	}
	return ranked, nil
}

// DeleteByFilter removes every record matching filter.
func (v *VectorIndex) DeleteByFilter(ctx context.Context, filter domain.Filter) error {
	if filter.IsEmpty() {
		return domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	for id, r := range v.records {
		if filter.Matches(r.Metadata) {
			delete(v.records, id)
		}
	}
	return nil
}

// Len returns the number of stored records.
func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.records)
}

// Close is a no-op.
func (v *VectorIndex) Close() error {
	return nil
}
