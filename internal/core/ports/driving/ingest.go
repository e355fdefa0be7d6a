package driving

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// IngestService turns raw content into indexed records.
type IngestService interface {
	// IngestText chunks, embeds and upserts text into the text index.
	IngestText(ctx context.Context, text, docID string) (domain.IngestReport, error)

	// IngestImage captions, embeds and upserts a PNG into the image index.
	IngestImage(ctx context.Context, png []byte, docID string) (domain.IngestReport, error)

	// IngestPDF ingests a PDF's text and every rendered page.
	IngestPDF(ctx context.Context, pdf []byte, docID string, policy domain.FailurePolicy) (domain.IngestReport, error)

	// IngestTranscript ingests joined transcript text.
	IngestTranscript(ctx context.Context, transcript, docID string) (domain.IngestReport, error)

	// IngestUpload routes an uploaded file by extension and content type.
	// A new doc_id is assigned to every upload.
	IngestUpload(ctx context.Context, upload domain.Upload, policy domain.FailurePolicy) (domain.UploadResult, error)
}

// DocumentService removes documents from both indexes.
type DocumentService interface {
	// Delete removes every record tagged with docID. Best effort.
	Delete(ctx context.Context, docID string) (domain.DeleteResult, error)
}
