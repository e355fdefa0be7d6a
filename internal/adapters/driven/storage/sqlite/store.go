package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Store owns the SQLite database shared by every vector index.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the vector database in dataDir.
// If dataDir is empty, defaults to ~/.sercha-rag/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sercha-rag", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vectors.db")

	// WAL lets the HTTP server read while an upload is writing.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// VectorIndex returns the index with the given name (driven.IndexText or driven.IndexImage).
// Closing the returned index does not close the store.
func (s *Store) VectorIndex(name string) driven.VectorIndex {
	return &vectorIndex{store: s, name: name}
}

// migrate runs all pending up migrations in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Vector Index ====================

// vectorIndex implements driven.VectorIndex over one index name.
type vectorIndex struct {
	store *Store
	name  string
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// Upsert inserts or replaces records in a single transaction.
func (v *vectorIndex) Upsert(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (index_name, id, doc_id, kind, vector, dimensions, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(index_name, id) DO UPDATE SET
			doc_id = excluded.doc_id,
			kind = excluded.kind,
			vector = excluded.vector,
			dimensions = excluded.dimensions,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		md, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata for %s: %w", r.ID, err)
		}
		_, err = stmt.ExecContext(ctx,
			v.name, r.ID, r.Metadata.DocID, r.Metadata.Type.String(),
			float32SliceToBytes(r.Vector), len(r.Vector), string(md),
		)
		if err != nil {
			return fmt.Errorf("upserting record %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// Query scores every candidate row and returns the topK best.
func (v *vectorIndex) Query(
	ctx context.Context, vector []float32, topK int, filter domain.Filter,
) ([]domain.Match, error) {
	query := "SELECT id, vector, metadata FROM records WHERE index_name = ?"
	args := []any{v.name}
	if !filter.IsEmpty() {
		query += " AND doc_id = ?"
		args = append(args, filter.DocID)
	}

	rows, err := v.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var (
			id     string
			blob   []byte
			mdJSON string
		)
		if err := rows.Scan(&id, &blob, &mdJSON); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		var md domain.Metadata
		if err := json.Unmarshal([]byte(mdJSON), &md); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata for %s: %w", id, err)
		}
		matches = append(matches, domain.Match{
			ID:       id,
			Score:    similarity.Cosine(vector, bytesToFloat32Slice(blob)),
			Metadata: md,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	ranked := similarity.Rank(matches, topK)
	if ranked == nil {
		return []domain.Match{}, nil
	}
	return ranked, nil
}

// DeleteByFilter removes every record for the filter's document.
func (v *vectorIndex) DeleteByFilter(ctx context.Context, filter domain.Filter) error {
	if filter.IsEmpty() {
		return errors.Join(domain.ErrInvalidInput, errors.New("delete requires a doc_id filter"))
	}
	_, err := v.store.db.ExecContext(ctx,
		"DELETE FROM records WHERE index_name = ? AND doc_id = ?", v.name, filter.DocID)
	if err != nil {
		return fmt.Errorf("deleting records: %w", err)
	}
	return nil
}

// Close is a no-op; the Store owns the connection.
func (v *vectorIndex) Close() error {
	return nil
}

// count returns the number of records in the index.
func (v *vectorIndex) count(ctx context.Context) (int, error) {
	var n int
	err := v.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM records WHERE index_name = ?", v.name).Scan(&n)
	return n, err
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
