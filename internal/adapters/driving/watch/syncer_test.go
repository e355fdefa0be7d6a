package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// ==================== Mocks ====================

type mockIngest struct {
	mu      sync.Mutex
	uploads []domain.Upload
	policy  domain.FailurePolicy
	err     error
}

func (m *mockIngest) IngestText(context.Context, string, string) (domain.IngestReport, error) {
	return domain.IngestReport{}, nil
}

func (m *mockIngest) IngestImage(context.Context, []byte, string) (domain.IngestReport, error) {
	return domain.IngestReport{}, nil
}

func (m *mockIngest) IngestPDF(context.Context, []byte, string, domain.FailurePolicy) (domain.IngestReport, error) {
	return domain.IngestReport{}, nil
}

func (m *mockIngest) IngestTranscript(context.Context, string, string) (domain.IngestReport, error) {
	return domain.IngestReport{}, nil
}

func (m *mockIngest) IngestUpload(_ context.Context, u domain.Upload, p domain.FailurePolicy) (domain.UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.UploadResult{}, m.err
	}
	m.uploads = append(m.uploads, u)
	m.policy = p
	return domain.UploadResult{
		DocID:    fmt.Sprintf("doc-%d", len(m.uploads)),
		FileName: u.FileName,
		Kind:     domain.UploadKindText,
	}, nil
}

type mockDocuments struct {
	deleted []string
}

func (m *mockDocuments) Delete(_ context.Context, docID string) (domain.DeleteResult, error) {
	m.deleted = append(m.deleted, docID)
	return domain.DeleteResult{DocID: docID}, nil
}

// ==================== Tests ====================

func TestSyncer_CreateThenUpdateThenDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

	ingest := &mockIngest{}
	docs := &mockDocuments{}
	s := NewSyncer(ingest, docs, domain.FailurePolicyIsolate)
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, Change{Type: ChangeCreated, Path: path}))
	id, ok := s.DocID(path)
	require.True(t, ok)
	assert.Equal(t, "doc-1", id)
	assert.Equal(t, "diagram.png", ingest.uploads[0].FileName)
	assert.Equal(t, "png", string(ingest.uploads[0].Data))
	assert.Equal(t, "image/png", ingest.uploads[0].ContentType)
	assert.Equal(t, domain.FailurePolicyIsolate, ingest.policy)
	assert.Empty(t, docs.deleted)

	require.NoError(t, s.Apply(ctx, Change{Type: ChangeUpdated, Path: path}))
	id, _ = s.DocID(path)
	assert.Equal(t, "doc-2", id)
	assert.Equal(t, []string{"doc-1"}, docs.deleted)

	require.NoError(t, s.Apply(ctx, Change{Type: ChangeDeleted, Path: path}))
	_, ok = s.DocID(path)
	assert.False(t, ok)
	assert.Equal(t, []string{"doc-1", "doc-2"}, docs.deleted)
}

func TestSyncer_DeleteUnknownPath(t *testing.T) {
	docs := &mockDocuments{}
	s := NewSyncer(&mockIngest{}, docs, "")

	assert.NoError(t, s.Apply(context.Background(), Change{Type: ChangeDeleted, Path: "/nope"}))
	assert.Empty(t, docs.deleted)
}

func TestSyncer_IngestError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	s := NewSyncer(&mockIngest{err: errors.New("embedding down")}, &mockDocuments{}, "")

	err := s.Apply(context.Background(), Change{Type: ChangeCreated, Path: path})

	assert.ErrorContains(t, err, "embedding down")
	_, ok := s.DocID(path)
	assert.False(t, ok)
}

func TestSyncer_MissingFile(t *testing.T) {
	s := NewSyncer(&mockIngest{}, &mockDocuments{}, "")

	err := s.Apply(context.Background(), Change{Type: ChangeCreated, Path: "/does/not/exist.txt"})

	assert.ErrorContains(t, err, "reading")
}

func TestSyncer_UnknownChange(t *testing.T) {
	s := NewSyncer(&mockIngest{}, &mockDocuments{}, "")

	assert.Error(t, s.Apply(context.Background(), Change{Type: "moved"}))
}

func TestSyncer_Run(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))

	ingest := &mockIngest{}
	s := NewSyncer(ingest, &mockDocuments{}, "")

	changes := make(chan Change, 3)
	changes <- Change{Type: ChangeCreated, Path: a}
	changes <- Change{Type: ChangeCreated, Path: filepath.Join(dir, "missing.txt")}
	close(changes)

	s.Run(context.Background(), changes)

	assert.Len(t, ingest.uploads, 1)
	_, ok := s.DocID(a)
	assert.True(t, ok)
}
