package driven

import "context"

// TranscriptSegment is one caption line.
type TranscriptSegment struct {
	Text string
}

// TranscriptFetcher retrieves captions for a video.
// Implementations return errors that match domain.ErrTranscriptsDisabled,
// domain.ErrTranscriptNotFound or domain.ErrLanguageUnavailable when
// no usable transcript exists.
type TranscriptFetcher interface {
	// Fetch returns the transcript in the first available preferred language.
	Fetch(ctx context.Context, videoID string, languages []string) ([]TranscriptSegment, error)
}

// VideoMetadata looks up descriptive information about a video.
// It is optional; when nil a generated title is used.
type VideoMetadata interface {
	// Title returns the video title.
	Title(ctx context.Context, videoID string) (string, error)
}
