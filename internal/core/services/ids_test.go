package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func TestNewDocID(t *testing.T) {
	a, b := NewDocID(), NewDocID()

	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	require.NoError(t, err)
}

func TestRecordID(t *testing.T) {
	text, image := domain.RecordKindText, domain.RecordKindImage

	assert.Equal(t, RecordID("d1", "b1", text, 0), RecordID("d1", "b1", text, 0))
	assert.NotEqual(t, RecordID("d1", "b1", text, 0), RecordID("d1", "b1", text, 1))
	assert.NotEqual(t, RecordID("d1", "b1", text, 0), RecordID("d1", "b1", image, 0))
	assert.NotEqual(t, RecordID("d1", "b1", text, 0), RecordID("d2", "b1", text, 0))
	assert.NotEqual(t, RecordID("d1", "b1", text, 0), RecordID("d1", "b2", text, 0))

	assert.NotEqual(t, RecordID("", "b1", text, 0), RecordID("", "b1", text, 0))
}

func TestNewBatchID(t *testing.T) {
	assert.NotEqual(t, NewBatchID(), NewBatchID())
}
