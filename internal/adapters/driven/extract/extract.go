// Package extract converts structured text uploads to plain text.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.TextExtractor = (*Registry)(nil)

// Format extracts text from one document format.
type Format interface {
	// Name identifies the format in logs and errors.
	Name() string

	// MIMETypes lists the content types this format handles.
	MIMETypes() []string

	// Extensions lists the file extensions this format handles, with the dot.
	Extensions() []string

	// Text returns the readable text of data.
	Text(data []byte) (string, error)
}

// Registry picks a Format by content type, then by file extension.
type Registry struct {
	formats []Format
}

// New creates a registry with the given formats.
// With no arguments it uses HTML, Markdown, DOCX and EML.
func New(formats ...Format) *Registry {
	if len(formats) == 0 {
		formats = []Format{HTML{}, Markdown{}, DOCX{}, EML{}}
	}
	return &Registry{formats: formats}
}

// Extract implements driven.TextExtractor.
func (r *Registry) Extract(fileName, contentType string, data []byte) (string, bool, error) {
	f := r.lookup(fileName, contentType)
	if f == nil {
		return "", false, nil
	}
	text, err := f.Text(data)
	if err != nil {
		return "", true, fmt.Errorf("extract %s: %w", f.Name(), err)
	}
	return text, true, nil
}

func (r *Registry) lookup(fileName, contentType string) Format {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	ext := strings.ToLower(filepath.Ext(fileName))

	for _, f := range r.formats {
		for _, mt := range f.MIMETypes() {
			if mt == mediaType {
				return f
			}
		}
	}
	for _, f := range r.formats {
		for _, e := range f.Extensions() {
			if e == ext {
				return f
			}
		}
	}
	return nil
}

func invalid(format string, err error) error {
	return &domain.ValidationError{Field: "file", Message: fmt.Sprintf("not a valid %s document: %v", format, err)}
}
