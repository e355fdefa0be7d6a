package pgvector

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

func TestNew_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, Config{Dimensions: 3})
	assert.ErrorContains(t, err, "dsn is required")

	_, err = New(ctx, Config{DSN: "postgres://localhost/db"})
	assert.ErrorContains(t, err, "dimensions must be > 0")
}

func TestSchemaStatements(t *testing.T) {
	stmts := schemaStatements("vecs", 768)

	require.Len(t, stmts, 3)
	assert.Contains(t, stmts[0], "CREATE EXTENSION IF NOT EXISTS vector")
	assert.Contains(t, stmts[1], "CREATE TABLE IF NOT EXISTS vecs")
	assert.Contains(t, stmts[1], "VECTOR(768)")
	assert.Contains(t, stmts[2], "vecs_doc_idx")
}

// Integration test - only runs against a real database.
func TestVectorIndex_Integration(t *testing.T) {
	dsn := os.Getenv("SERCHA_RAG_PG_DSN")
	if dsn == "" {
		t.Skip("SERCHA_RAG_PG_DSN not set, skipping pgvector integration test")
	}

	ctx := context.Background()
	store, err := New(ctx, Config{DSN: dsn, Table: "sercha_records_test", Dimensions: 2})
	require.NoError(t, err)
	defer store.Close()

	idx := store.VectorIndex(driven.IndexText)
	_ = idx.DeleteByFilter(ctx, domain.Filter{DocID: "it-doc"})

	require.NoError(t, idx.Upsert(ctx, []domain.Record{
		{ID: "it-a", Vector: []float32{1, 0}, Metadata: domain.Metadata{Type: domain.RecordKindText, Content: "a", DocID: "it-doc"}},
		{ID: "it-b", Vector: []float32{0, 1}, Metadata: domain.Metadata{Type: domain.RecordKindText, Content: "b", DocID: "it-doc"}},
	}))

	matches, err := idx.Query(ctx, []float32{1, 0}, 1, domain.Filter{DocID: "it-doc"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "it-a", matches[0].ID)
	assert.Equal(t, "a", matches[0].Metadata.Content)

	require.NoError(t, idx.DeleteByFilter(ctx, domain.Filter{DocID: "it-doc"}))
	matches, err = idx.Query(ctx, []float32{1, 0}, 5, domain.Filter{DocID: "it-doc"})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestVectorIndex_DeleteRejectsEmptyFilter(t *testing.T) {
	idx := (&Store{dims: 2}).VectorIndex(driven.IndexText)
	err := idx.DeleteByFilter(context.Background(), domain.Filter{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorIndex_QueryDimensionMismatch(t *testing.T) {
	idx := (&Store{dims: 3}).VectorIndex(driven.IndexText)
	_, err := idx.Query(context.Background(), []float32{1}, 5, domain.Filter{})
	assert.ErrorContains(t, err, "dimension mismatch")
}
