package driven

import "context"

// PDFRenderer extracts text and page images from PDF documents.
type PDFRenderer interface {
	// PageTexts returns the extracted text of every page in order.
	PageTexts(ctx context.Context, pdf []byte) ([]string, error)

	// RenderPages rasterises every page to PNG at the given zoom factor.
	RenderPages(ctx context.Context, pdf []byte, zoom float64) ([][]byte, error)
}
