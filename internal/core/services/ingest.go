package services

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
	"github.com/custodia-labs/sercha-rag/internal/postprocessors/chunker"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// PDFRenderZoom is the rasterisation scale for PDF pages.
const PDFRenderZoom = 2.0

// IngestService chunks, captions, embeds and upserts content.
type IngestService struct {
	embedder   driven.EmbeddingService
	textIndex  driven.VectorIndex
	imageIndex driven.VectorIndex

	captioner driven.Captioner
	pdf       driven.PDFRenderer
	images    driven.ImageNormaliser
	extractor driven.TextExtractor

	chunker     *chunker.Chunker
	policy      domain.FailurePolicy
	concurrency int
	callTimeout time.Duration
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithCaptioner enables image and PDF page ingestion.
func WithCaptioner(c driven.Captioner) IngestOption {
	return func(s *IngestService) { s.captioner = c }
}

// WithPDFRenderer enables PDF ingestion.
func WithPDFRenderer(r driven.PDFRenderer) IngestOption {
	return func(s *IngestService) { s.pdf = r }
}

// WithImageNormaliser converts non-PNG uploads before captioning.
func WithImageNormaliser(n driven.ImageNormaliser) IngestOption {
	return func(s *IngestService) { s.images = n }
}

// WithTextExtractor converts HTML, Markdown, DOCX and email uploads to plain text.
func WithTextExtractor(x driven.TextExtractor) IngestOption {
	return func(s *IngestService) { s.extractor = x }
}

// WithChunkSize sets the text chunk size in characters.
func WithChunkSize(size int) IngestOption {
	return func(s *IngestService) { s.chunker = chunker.New(chunker.WithChunkSize(size)) }
}

// WithFailurePolicy sets the policy used when callers pass an empty one.
func WithFailurePolicy(p domain.FailurePolicy) IngestOption {
	return func(s *IngestService) {
		if p.IsValid() {
			s.policy = p
		}
	}
}

// WithConcurrency bounds parallel PDF page work.
func WithConcurrency(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithCallTimeout bounds every embedding, caption and upsert call.
func WithCallTimeout(d time.Duration) IngestOption {
	return func(s *IngestService) { s.callTimeout = d }
}

// NewIngestService creates an ingestion service over the two indexes.
func NewIngestService(
	embedder driven.EmbeddingService,
	textIndex driven.VectorIndex,
	imageIndex driven.VectorIndex,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		embedder:    embedder,
		textIndex:   textIndex,
		imageIndex:  imageIndex,
		chunker:     chunker.New(),
		policy:      domain.FailurePolicyAbort,
		concurrency: domain.DefaultConcurrency,
		callTimeout: domain.DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestText chunks text and upserts one record per chunk.
func (s *IngestService) IngestText(ctx context.Context, text, docID string) (domain.IngestReport, error) {
	report := domain.IngestReport{DocID: docID}

	chunks := slices.Collect(s.chunker.Split(text))
	if len(chunks) == 0 {
		logger.Debug("ingest text: nothing to index for doc %q", docID)
		return report, nil
	}
	if s.embedder == nil {
		return report, domain.ErrEmbeddingUnavailable
	}
	if s.textIndex == nil {
		return report, domain.ErrVectorIndexUnavailable
	}

	logger.Section("Ingest Text")
	logger.Debug("doc=%q chunks=%d size=%d", docID, len(chunks), s.chunker.Size())

	vectors, err := s.embedBatch(ctx, chunks)
	if err != nil {
		return report, fmt.Errorf("ingest text: %w", err)
	}

	batch := NewBatchID()
	records := make([]domain.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = domain.Record{
			ID:     RecordID(docID, batch, domain.RecordKindText, i),
			Vector: vectors[i],
			Metadata: domain.Metadata{
				Type:    domain.RecordKindText,
				Content: chunk,
				DocID:   docID,
			},
		}
	}

	if err := s.upsert(ctx, s.textIndex, driven.IndexText, records); err != nil {
		return report, fmt.Errorf("ingest text: %w", err)
	}

	report.TextChunks = len(records)
	logger.Info("Indexed %d text chunks for doc %q", len(records), docID)
	return report, nil
}

// IngestTranscript indexes joined transcript text.
func (s *IngestService) IngestTranscript(ctx context.Context, transcript, docID string) (domain.IngestReport, error) {
	return s.IngestText(ctx, transcript, docID)
}

// IngestImage captions an image and indexes the caption embedding.
func (s *IngestService) IngestImage(ctx context.Context, data []byte, docID string) (domain.IngestReport, error) {
	report := domain.IngestReport{DocID: docID}
	indexed, err := s.ingestImage(ctx, data, docID, NewBatchID(), 0)
	if err != nil {
		return report, err
	}
	if indexed {
		report.Images = 1
	}
	return report, nil
}

// ingestImage reports whether a record was written. An image whose caption
// comes back empty is skipped: it could never be retrieved.
func (s *IngestService) ingestImage(
	ctx context.Context, data []byte, docID, batch string, ordinal int,
) (bool, error) {
	if s.captioner == nil {
		return false, fmt.Errorf("ingest image: captioner: %w", domain.ErrNotImplemented)
	}
	if s.embedder == nil {
		return false, domain.ErrEmbeddingUnavailable
	}
	if s.imageIndex == nil {
		return false, domain.ErrVectorIndexUnavailable
	}

	png := data
	if s.images != nil {
		converted, err := s.images.ToPNG(data)
		if err != nil {
			return false, fmt.Errorf("ingest image: %w", err)
		}
		png = converted
	}

	caption, err := s.caption(ctx, png)
	if err != nil {
		return false, fmt.Errorf("ingest image: %w", err)
	}
	if caption == "" {
		logger.Warn("image %d of doc %q: empty caption, skipped", ordinal, docID)
		return false, nil
	}
	logger.Debug("caption[%d]: %q", ordinal, caption)

	vector, err := s.embed(ctx, caption)
	if err != nil {
		return false, fmt.Errorf("ingest image: %w", err)
	}

	record := domain.Record{
		ID:     RecordID(docID, batch, domain.RecordKindImage, ordinal),
		Vector: vector,
		Metadata: domain.Metadata{
			Type:    domain.RecordKindImage,
			Caption: caption,
			DocID:   docID,
		},
	}
	if err := s.upsert(ctx, s.imageIndex, driven.IndexImage, []domain.Record{record}); err != nil {
		return false, fmt.Errorf("ingest image: %w", err)
	}
	return true, nil
}

// IngestPDF indexes a PDF's text, then every rendered page as an image.
// Under FailurePolicyAbort the first failure cancels outstanding page work.
// Under FailurePolicyIsolate every item is attempted and failures are reported.
func (s *IngestService) IngestPDF(
	ctx context.Context, pdf []byte, docID string, policy domain.FailurePolicy,
) (domain.IngestReport, error) {
	report := domain.IngestReport{DocID: docID}
	if s.pdf == nil {
		return report, fmt.Errorf("ingest pdf: renderer: %w", domain.ErrNotImplemented)
	}
	if !policy.IsValid() {
		policy = s.policy
	}
	isolate := policy == domain.FailurePolicyIsolate

	logger.Section("Ingest PDF")
	logger.Debug("doc=%q policy=%s bytes=%d", docID, policy, len(pdf))

	attempted := 0

	// Text pass.
	attempted++
	textReport, err := s.ingestPDFText(ctx, pdf, docID)
	switch {
	case err == nil:
		report.Merge(textReport)
	case isolate:
		logger.Warn("pdf text failed (isolated): %v", err)
		report.Failures = append(report.Failures, domain.ItemFailure{Item: "text", Err: err})
	default:
		return report, err
	}

	// Image pass.
	pages, err := s.pdf.RenderPages(ctx, pdf, PDFRenderZoom)
	if err != nil {
		err = fmt.Errorf("ingest pdf: render: %w", err)
		if !isolate {
			return report, err
		}
		attempted++
		report.Failures = append(report.Failures, domain.ItemFailure{Item: "render", Err: err})
		return report, isolatedResult(report, attempted)
	}
	logger.Debug("rendered %d pages", len(pages))
	attempted += len(pages)

	batch := NewBatchID()
	var images int
	if isolate {
		images, report.Failures = s.ingestPagesIsolated(ctx, pages, docID, batch, report.Failures)
	} else {
		images, err = s.ingestPagesAbort(ctx, pages, docID, batch)
		if err != nil {
			return report, err
		}
	}
	report.Images += images

	if isolate {
		return report, isolatedResult(report, attempted)
	}
	logger.Info("Indexed pdf doc %q: %d chunks, %d pages", docID, report.TextChunks, report.Images)
	return report, nil
}

func (s *IngestService) ingestPDFText(ctx context.Context, pdf []byte, docID string) (domain.IngestReport, error) {
	texts, err := s.pdf.PageTexts(ctx, pdf)
	if err != nil {
		return domain.IngestReport{DocID: docID}, fmt.Errorf("ingest pdf: extract text: %w", err)
	}
	return s.IngestText(ctx, strings.Join(texts, "\n"), docID)
}

func (s *IngestService) ingestPagesAbort(ctx context.Context, pages [][]byte, docID, batch string) (int, error) {
	indexed := make([]bool, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, page := range pages {
		g.Go(func() error {
			ok, err := s.ingestImage(gctx, page, docID, batch, i)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			indexed[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("ingest pdf: %w", err)
	}
	images := 0
	for _, ok := range indexed {
		if ok {
			images++
		}
	}
	return images, nil
}

func (s *IngestService) ingestPagesIsolated(
	ctx context.Context, pages [][]byte, docID, batch string, failures []domain.ItemFailure,
) (int, []domain.ItemFailure) {
	errs := make([]error, len(pages))
	indexed := make([]bool, len(pages))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, page := range pages {
		g.Go(func() error {
			indexed[i], errs[i] = s.ingestImage(ctx, page, docID, batch, i)
			return nil
		})
	}
	_ = g.Wait()

	images := 0
	for i, err := range errs {
		if err == nil {
			if indexed[i] {
				images++
			}
			continue
		}
		logger.Warn("page %d failed (isolated): %v", i+1, err)
		failures = append(failures, domain.ItemFailure{Item: "page " + strconv.Itoa(i+1), Err: err})
	}
	return images, failures
}

// isolatedResult fails the call only when every attempted item failed.
func isolatedResult(report domain.IngestReport, attempted int) error {
	if len(report.Failures) == 0 || len(report.Failures) < attempted {
		return nil
	}
	return fmt.Errorf("ingest pdf: all %d items failed: %w", attempted, report.Failures[0].Err)
}

// IngestUpload routes an upload to the matching ingestion path under a new doc ID.
func (s *IngestService) IngestUpload(
	ctx context.Context, upload domain.Upload, policy domain.FailurePolicy,
) (domain.UploadResult, error) {
	result := domain.UploadResult{
		DocID:    NewDocID(),
		FileName: upload.FileName,
		Kind:     ClassifyUpload(upload),
	}
	logger.Debug("upload %q type=%q routed as %s", upload.FileName, upload.ContentType, result.Kind)

	var err error
	switch result.Kind {
	case domain.UploadKindImage:
		result.Report, err = s.IngestImage(ctx, upload.Data, result.DocID)
	case domain.UploadKindPDF:
		result.Report, err = s.IngestPDF(ctx, upload.Data, result.DocID, policy)
	default:
		var text string
		text, err = s.uploadText(upload)
		if err != nil {
			return result, fmt.Errorf("ingest upload: %w", err)
		}
		result.Report, err = s.IngestText(ctx, text, result.DocID)
	}
	return result, err
}

// uploadText returns the plain text of a text upload.
func (s *IngestService) uploadText(upload domain.Upload) (string, error) {
	if s.extractor != nil {
		text, ok, err := s.extractor.Extract(upload.FileName, upload.ContentType, upload.Data)
		if err != nil {
			return "", err
		}
		if ok {
			return text, nil
		}
	}
	return decodeText(upload.Data), nil
}

// ClassifyUpload picks the ingestion route for an upload.
func ClassifyUpload(u domain.Upload) domain.UploadKind {
	ct := strings.ToLower(strings.TrimSpace(u.ContentType))
	switch {
	case strings.HasPrefix(ct, "image"):
		return domain.UploadKindImage
	case ct == "application/pdf", strings.EqualFold(filepath.Ext(u.FileName), ".pdf"):
		return domain.UploadKindPDF
	default:
		return domain.UploadKindText
	}
}

// decodeText interprets data as UTF-8, dropping invalid bytes.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r != utf8.RuneError || size > 1 {
			b.WriteRune(r)
		}
		data = data[size:]
	}
	return b.String()
}

func (s *IngestService) embed(ctx context.Context, text string) ([]float32, error) {
	cctx, cancel := callContext(ctx, s.callTimeout)
	defer cancel()
	v, err := s.embedder.Embed(cctx, text)
	return v, domain.NewProviderError("embedding", "embed", err)
}

func (s *IngestService) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	cctx, cancel := callContext(ctx, s.callTimeout)
	defer cancel()
	vectors, err := s.embedder.EmbedBatch(cctx, texts)
	if err != nil {
		return nil, domain.NewProviderError("embedding", "embed", err)
	}
	if len(vectors) != len(texts) {
		return nil, domain.NewProviderError("embedding", "embed",
			fmt.Errorf("got %d vectors for %d inputs", len(vectors), len(texts)))
	}
	return vectors, nil
}

func (s *IngestService) caption(ctx context.Context, png []byte) (string, error) {
	cctx, cancel := callContext(ctx, s.callTimeout)
	defer cancel()
	caption, err := s.captioner.Caption(cctx, png)
	if err != nil {
		return "", domain.NewProviderError("caption", "describe", err)
	}
	return strings.TrimSpace(caption), nil
}

func (s *IngestService) upsert(
	ctx context.Context, index driven.VectorIndex, name string, records []domain.Record,
) error {
	cctx, cancel := callContext(ctx, s.callTimeout)
	defer cancel()
	return domain.NewProviderError("index:"+name, "upsert", index.Upsert(cctx, records))
}

// DocumentService deletes documents from both indexes.
type DocumentService struct {
	textIndex   driven.VectorIndex
	imageIndex  driven.VectorIndex
	callTimeout time.Duration
}

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// NewDocumentService creates a document service.
func NewDocumentService(textIndex, imageIndex driven.VectorIndex, callTimeout time.Duration) *DocumentService {
	return &DocumentService{textIndex: textIndex, imageIndex: imageIndex, callTimeout: callTimeout}
}

// Delete removes every record tagged with docID from both indexes.
// Index failures are reported per index in the result, not as an error.
func (s *DocumentService) Delete(ctx context.Context, docID string) (domain.DeleteResult, error) {
	docID = strings.TrimSpace(docID)
	if docID == "" {
		return domain.DeleteResult{}, &domain.ValidationError{Message: "Missing doc_id"}
	}

	filter := domain.Filter{DocID: docID}
	result := domain.DeleteResult{DocID: docID}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		result.Text.Err = s.deleteFrom(ctx, s.textIndex, driven.IndexText, filter)
	}()
	go func() {
		defer wg.Done()
		result.Image.Err = s.deleteFrom(ctx, s.imageIndex, driven.IndexImage, filter)
	}()
	wg.Wait()

	if !result.Complete() {
		logger.Warn("delete %q incomplete: text=%v image=%v", docID, result.Text.Err, result.Image.Err)
	} else {
		logger.Info("Deleted doc %q", docID)
	}
	return result, nil
}

func (s *DocumentService) deleteFrom(
	ctx context.Context, index driven.VectorIndex, name string, filter domain.Filter,
) error {
	if index == nil {
		return domain.ErrVectorIndexUnavailable
	}
	cctx, cancel := callContext(ctx, s.callTimeout)
	defer cancel()
	return domain.NewProviderError("index:"+name, "delete", index.DeleteByFilter(cctx, filter))
}
