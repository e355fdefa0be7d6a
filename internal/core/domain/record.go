package domain

// RecordKind distinguishes the two vector indexes a record can live in.
type RecordKind string

// Record kinds.
const (
	// RecordKindText is a chunk of document text.
	RecordKindText RecordKind = "text"

	// RecordKindImage is an image represented by its caption.
	RecordKindImage RecordKind = "image"
)

// IsValid returns true if the kind is recognised.
func (k RecordKind) IsValid() bool {
	return k == RecordKindText || k == RecordKindImage
}

// String returns the string representation.
func (k RecordKind) String() string {
	return string(k)
}

// Metadata is stored alongside every vector.
// Content is set for text records, Caption for image records.
type Metadata struct {
	// Type is the record kind.
	Type RecordKind `json:"type"`

	// Content is the chunk text (text records only).
	Content string `json:"content,omitempty"`

	// Caption is the generated image description (image records only).
	Caption string `json:"caption,omitempty"`

	// DocID ties the record to a logical document. Empty when ingested without one.
	DocID string `json:"doc_id,omitempty"`
}

// Record is a single upsertable vector with metadata.
// Records are never updated in place; they are created at ingestion
// and removed only by a doc_id scoped delete.
type Record struct {
	// ID is unique within an index.
	ID string

	// Vector is the embedding. Image records embed the caption text.
	Vector []float32

	// Metadata is returned with query matches.
	Metadata Metadata
}

// Match is a ranked query result.
type Match struct {
	// ID is the matched record ID.
	ID string

	// Score is the cosine similarity, higher is closer.
	Score float64

	// Metadata is the stored record metadata.
	Metadata Metadata
}

// Filter scopes index queries and deletes.
// The zero value matches every record.
type Filter struct {
	// DocID restricts to records tagged with this document.
	DocID string
}

// IsEmpty returns true if the filter matches every record.
func (f Filter) IsEmpty() bool {
	return f.DocID == ""
}

// Matches reports whether metadata satisfies the filter.
func (f Filter) Matches(md Metadata) bool {
	return f.DocID == "" || md.DocID == f.DocID
}
