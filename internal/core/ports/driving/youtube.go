package driving

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// YouTubeService indexes a video's transcript as a document.
type YouTubeService interface {
	// Ingest fetches, indexes and summarises the transcript of url.
	Ingest(ctx context.Context, url string) (domain.YouTubeResult, error)
}
