package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Default result counts per index.
const (
	DefaultTextTopK  = 5
	DefaultImageTopK = 4
)

// Retriever runs top-k queries against the text and image indexes.
type Retriever struct {
	textIndex   driven.VectorIndex
	imageIndex  driven.VectorIndex
	callTimeout time.Duration
}

// NewRetriever creates a retriever.
func NewRetriever(textIndex, imageIndex driven.VectorIndex, callTimeout time.Duration) *Retriever {
	return &Retriever{textIndex: textIndex, imageIndex: imageIndex, callTimeout: callTimeout}
}

// RetrieveText returns the content of the k nearest text chunks.
// A non-empty docID restricts results to that document.
func (r *Retriever) RetrieveText(ctx context.Context, vector []float32, k int, docID string) ([]string, error) {
	if k <= 0 {
		k = DefaultTextTopK
	}
	matches, err := r.query(ctx, r.textIndex, driven.IndexText, vector, k, docID)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Metadata.Content)
	}
	logger.Debug("retrieved %d text chunks (doc=%q)", len(texts), docID)
	return texts, nil
}

// RetrieveImages returns the captions of the k nearest image records.
// Records without a caption are skipped.
func (r *Retriever) RetrieveImages(ctx context.Context, vector []float32, k int, docID string) ([]string, error) {
	if k <= 0 {
		k = DefaultImageTopK
	}
	matches, err := r.query(ctx, r.imageIndex, driven.IndexImage, vector, k, docID)
	if err != nil {
		return nil, err
	}
	captions := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Metadata.Caption == "" {
			continue
		}
		captions = append(captions, m.Metadata.Caption)
	}
	logger.Debug("retrieved %d captions (doc=%q)", len(captions), docID)
	return captions, nil
}

func (r *Retriever) query(
	ctx context.Context, index driven.VectorIndex, name string, vector []float32, k int, docID string,
) ([]domain.Match, error) {
	if index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	cctx, cancel := callContext(ctx, r.callTimeout)
	defer cancel()
	matches, err := index.Query(cctx, vector, k, domain.Filter{DocID: docID})
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", domain.NewProviderError("index:"+name, "query", err))
	}
	return matches, nil
}
