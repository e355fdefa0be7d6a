package driven

import "context"

// Captioner describes an image in natural language.
// The caption is what gets embedded and retrieved for image records.
type Captioner interface {
	// Caption returns a concise description of a PNG image.
	Caption(ctx context.Context, png []byte) (string, error)
}
