// Package youtube fetches YouTube caption transcripts.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	ytdl "github.com/kkdai/youtube/v2"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.TranscriptFetcher = (*Fetcher)(nil)

// DefaultTimeout bounds each request to YouTube.
const DefaultTimeout = 30 * time.Second

// videoClient is the part of the YouTube client the fetcher uses.
type videoClient interface {
	GetVideoContext(ctx context.Context, id string) (*ytdl.Video, error)
	GetTranscriptCtx(ctx context.Context, video *ytdl.Video, lang string) (ytdl.VideoTranscript, error)
}

// Fetcher retrieves transcripts through YouTube's public endpoints.
type Fetcher struct {
	client  videoClient
	limiter *ratelimit.RateLimiter
}

// New creates a fetcher. A zero timeout uses DefaultTimeout.
func New(timeout time.Duration) *Fetcher {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client:  &ytdl.Client{HTTPClient: &http.Client{Timeout: timeout}},
		limiter: ratelimit.New(ratelimit.ServiceYouTube),
	}
}

// Fetch returns the transcript in the first preferred language the video has.
func (f *Fetcher) Fetch(ctx context.Context, videoID string, languages []string) ([]driven.TranscriptSegment, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	video, err := f.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("get video %s: %w", videoID, mapError(err))
	}
	if len(video.CaptionTracks) == 0 {
		return nil, domain.ErrTranscriptNotFound
	}

	lang, ok := pickLanguage(video.CaptionTracks, languages)
	if !ok {
		return nil, fmt.Errorf("%w: have %s", domain.ErrLanguageUnavailable, trackLanguages(video.CaptionTracks))
	}

	transcript, err := f.client.GetTranscriptCtx(ctx, video, lang)
	if err != nil {
		return nil, fmt.Errorf("get transcript %s/%s: %w", videoID, lang, mapError(err))
	}

	segments := make([]driven.TranscriptSegment, 0, len(transcript))
	for _, seg := range transcript {
		text := strings.TrimSpace(seg.Text)
		if text != "" {
			segments = append(segments, driven.TranscriptSegment{Text: text})
		}
	}
	return segments, nil
}

// pickLanguage returns the first preferred language with a caption track.
// Matching ignores case.
func pickLanguage(tracks []ytdl.CaptionTrack, preferred []string) (string, bool) {
	for _, want := range preferred {
		for _, track := range tracks {
			if strings.EqualFold(track.LanguageCode, want) {
				return track.LanguageCode, true
			}
		}
	}
	return "", false
}

func trackLanguages(tracks []ytdl.CaptionTrack) string {
	codes := make([]string, len(tracks))
	for i, t := range tracks {
		codes[i] = t.LanguageCode
	}
	return strings.Join(codes, ", ")
}

func mapError(err error) error {
	if errors.Is(err, ytdl.ErrTranscriptDisabled) {
		return fmt.Errorf("%w: %w", domain.ErrTranscriptsDisabled, err)
	}
	return err
}
