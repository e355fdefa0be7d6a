package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func textRecord(id, docID string, vec ...float32) domain.Record {
	return domain.Record{
		ID:       id,
		Vector:   vec,
		Metadata: domain.Metadata{Type: domain.RecordKindText, Content: "content " + id, DocID: docID},
	}
}

func TestVectorIndex_QueryEmpty(t *testing.T) {
	idx := NewVectorIndex()

	matches, err := idx.Query(context.Background(), []float32{1, 0}, 5, domain.Filter{})

	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestVectorIndex_UpsertAndQuery(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()

	require.NoError(t, idx.Upsert(ctx, []domain.Record{
		textRecord("a", "doc1", 1, 0),
		textRecord("b", "doc1", 0, 1),
		textRecord("c", "doc2", 0.9, 0.1),
	}))

	matches, err := idx.Query(ctx, []float32{1, 0}, 2, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "c", matches[1].ID)
	assert.Equal(t, "content a", matches[0].Metadata.Content)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
}

func TestVectorIndex_QueryFilter(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()
	require.NoError(t, idx.Upsert(ctx, []domain.Record{
		textRecord("a", "doc1", 1, 0),
		textRecord("b", "doc2", 1, 0),
		textRecord("c", "", 1, 0),
	}))

	matches, err := idx.Query(ctx, []float32{1, 0}, 10, domain.Filter{DocID: "doc2"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "b", matches[0].ID)
}

func TestVectorIndex_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()
	require.NoError(t, idx.Upsert(ctx, []domain.Record{textRecord("a", "d", 1, 0)}))
	require.NoError(t, idx.Upsert(ctx, []domain.Record{textRecord("a", "d", 0, 1)}))

	assert.Equal(t, 1, idx.Len())
	matches, err := idx.Query(ctx, []float32{0, 1}, 1, domain.Filter{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
}

func TestVectorIndex_DeleteByFilter(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()
	require.NoError(t, idx.Upsert(ctx, []domain.Record{
		textRecord("a", "doc1", 1, 0),
		textRecord("b", "doc2", 1, 0),
	}))

	require.NoError(t, idx.DeleteByFilter(ctx, domain.Filter{DocID: "doc1"}))
	assert.Equal(t, 1, idx.Len())

	// Deleting again is a no-op.
	require.NoError(t, idx.DeleteByFilter(ctx, domain.Filter{DocID: "doc1"}))
	assert.Equal(t, 1, idx.Len())
}

func TestVectorIndex_DeleteRejectsEmptyFilter(t *testing.T) {
	idx := NewVectorIndex()
	err := idx.DeleteByFilter(context.Background(), domain.Filter{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorIndex_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	idx := NewVectorIndex()

	_, err := idx.Query(ctx, []float32{1}, 1, domain.Filter{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, idx.Upsert(ctx, nil), context.Canceled)
}
