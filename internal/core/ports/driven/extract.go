package driven

// TextExtractor converts structured text uploads (HTML, Markdown, DOCX, email)
// to plain text before chunking.
type TextExtractor interface {
	// Extract returns the plain text of data. ok is false when no format
	// matches, in which case the caller treats data as plain UTF-8 text.
	Extract(fileName, contentType string, data []byte) (text string, ok bool, err error)
}
