package domain

import (
	"errors"
	"fmt"
)

// FailurePolicy controls how batch ingestion reacts to a failing item.
type FailurePolicy string

// Failure policies.
const (
	// FailurePolicyAbort stops at the first failure and fails the whole call.
	FailurePolicyAbort FailurePolicy = "abort"

	// FailurePolicyIsolate attempts every item and reports failures individually.
	FailurePolicyIsolate FailurePolicy = "isolate"
)

// IsValid returns true if the policy is recognised.
func (p FailurePolicy) IsValid() bool {
	return p == FailurePolicyAbort || p == FailurePolicyIsolate
}

// String returns the string representation.
func (p FailurePolicy) String() string {
	return string(p)
}

// ItemFailure is one isolated ingestion failure.
type ItemFailure struct {
	// Item names the failed unit, e.g. "text" or "page 3".
	Item string

	// Err is the cause.
	Err error
}

// Error implements error.
func (f ItemFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Item, f.Err)
}

// IngestReport summarises an ingestion call.
type IngestReport struct {
	// DocID is the document the records were tagged with.
	DocID string

	// TextChunks is the number of text records upserted.
	TextChunks int

	// Images is the number of image records upserted.
	Images int

	// Failures lists isolated failures. Always empty under FailurePolicyAbort.
	Failures []ItemFailure
}

// Partial returns true if some items failed under isolation.
func (r IngestReport) Partial() bool {
	return len(r.Failures) > 0
}

// Merge adds counts and failures from other.
func (r *IngestReport) Merge(other IngestReport) {
	r.TextChunks += other.TextChunks
	r.Images += other.Images
	r.Failures = append(r.Failures, other.Failures...)
}

// Err joins all failures, or returns nil.
func (r IngestReport) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// UploadKind is the ingestion route chosen for an uploaded file.
type UploadKind string

// Upload routes.
const (
	UploadKindText  UploadKind = "text"
	UploadKindImage UploadKind = "image"
	UploadKindPDF   UploadKind = "pdf"
)

// Upload is a file submitted for ingestion.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// UploadResult is returned for an ingested upload.
type UploadResult struct {
	DocID    string
	FileName string
	Kind     UploadKind
	Report   IngestReport
}

// SubResult is the outcome of one step of a best-effort operation.
type SubResult struct {
	Err error
}

// OK returns true if the step succeeded.
func (r SubResult) OK() bool {
	return r.Err == nil
}

// DeleteResult reports a best-effort delete across both indexes.
// Callers report success regardless; the per-index errors are kept for inspection.
type DeleteResult struct {
	DocID string
	Text  SubResult
	Image SubResult
}

// Complete returns true if both indexes were cleared without error.
func (r DeleteResult) Complete() bool {
	return r.Text.OK() && r.Image.OK()
}

// YouTubeResult is returned after a transcript has been indexed.
type YouTubeResult struct {
	DocID   string
	VideoID string
	Title   string
	Summary string

	// SummaryErr is set when the placeholder summary was used.
	SummaryErr error
}
