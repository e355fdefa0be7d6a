package watch

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Syncer applies file changes to the indexes.
// Each file is indexed under its own doc_id; updating a file replaces it.
type Syncer struct {
	ingest    driving.IngestService
	documents driving.DocumentService
	policy    domain.FailurePolicy

	mu     sync.Mutex
	docIDs map[string]string
}

// NewSyncer creates a syncer.
func NewSyncer(ingest driving.IngestService, documents driving.DocumentService, policy domain.FailurePolicy) *Syncer {
	return &Syncer{
		ingest:    ingest,
		documents: documents,
		policy:    policy,
		docIDs:    make(map[string]string),
	}
}

// DocID returns the doc_id currently indexed for path.
func (s *Syncer) DocID(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.docIDs[path]
	return id, ok
}

// Apply ingests or deletes the file named by c.
func (s *Syncer) Apply(ctx context.Context, c Change) error {
	switch c.Type {
	case ChangeDeleted:
		return s.remove(ctx, c.Path)
	case ChangeCreated, ChangeUpdated:
		if err := s.remove(ctx, c.Path); err != nil {
			return err
		}
		return s.add(ctx, c.Path)
	default:
		return fmt.Errorf("unknown change type %q", c.Type)
	}
}

// Run applies changes until the channel closes. Failures are logged and skipped.
func (s *Syncer) Run(ctx context.Context, changes <-chan Change) {
	for c := range changes {
		if err := s.Apply(ctx, c); err != nil {
			logger.Error("sync %s (%s): %v", c.Path, c.Type, err)
		}
	}
}

func (s *Syncer) add(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := s.ingest.IngestUpload(ctx, domain.Upload{
		FileName:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	}, s.policy)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", path, err)
	}

	s.mu.Lock()
	s.docIDs[path] = result.DocID
	s.mu.Unlock()

	logger.Info("indexed %s as %s (%s)", path, result.DocID, result.Kind)
	return nil
}

func (s *Syncer) remove(ctx context.Context, path string) error {
	s.mu.Lock()
	docID, ok := s.docIDs[path]
	delete(s.docIDs, path)
	s.mu.Unlock()
	if !ok {
		return nil
	}

	result, err := s.documents.Delete(ctx, docID)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", docID, err)
	}
	if !result.Complete() {
		logger.Warn("partial delete of %s: text=%v image=%v", docID, result.Text.Err, result.Image.Err)
	}
	logger.Debug("removed %s (%s)", path, docID)
	return nil
}
