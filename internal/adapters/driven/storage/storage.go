// Package storage opens the text and image vector indexes for the configured backend.
package storage

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/pgvector"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Indexes holds the two vector indexes and the store that backs them.
type Indexes struct {
	Text  driven.VectorIndex
	Image driven.VectorIndex

	closeFn func() error
}

// Close releases the backing store.
func (i *Indexes) Close() error {
	if i.closeFn == nil {
		return nil
	}
	return i.closeFn()
}

// Open creates both indexes on the configured backend.
func Open(ctx context.Context, settings domain.VectorStoreSettings) (*Indexes, error) {
	switch settings.Backend {
	case domain.VectorBackendMemory:
		return &Indexes{
			Text:  memory.NewVectorIndex(),
			Image: memory.NewVectorIndex(),
		}, nil

	case domain.VectorBackendSQLite, "":
		store, err := sqlite.NewStore(settings.DataDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
		}
		return &Indexes{
			Text:    store.VectorIndex(driven.IndexText),
			Image:   store.VectorIndex(driven.IndexImage),
			closeFn: store.Close,
		}, nil

	case domain.VectorBackendPgvector:
		store, err := pgvector.New(ctx, pgvector.Config{
			DSN:        settings.DSN,
			Dimensions: settings.Dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
		}
		return &Indexes{
			Text:    store.VectorIndex(driven.IndexText),
			Image:   store.VectorIndex(driven.IndexImage),
			closeFn: store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported vector backend %q", domain.ErrVectorIndexUnavailable, settings.Backend)
	}
}
