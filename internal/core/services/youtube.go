package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure YouTubeService implements the interface.
var _ driving.YouTubeService = (*YouTubeService)(nil)

// YouTube messages returned to clients.
const (
	MsgYouTubeMissingURL   = "Missing YouTube URL."
	MsgYouTubeBadURL       = "Could not parse YouTube video ID from URL."
	MsgYouTubeNoTranscript = "Transcript is not available for this YouTube video (no subtitles found)."
	MsgYouTubeEmpty        = "Transcript for this video was empty."
	MsgYouTubeSummaryError = "Summary generation failed, but the transcript has been indexed. " +
		"You can still ask questions about this video."
)

// summarySnippetChars caps the transcript text sent for summarisation.
const summarySnippetChars = 6000

// ErrEmptyTranscript reports a transcript with no text.
var ErrEmptyTranscript = errors.New("transcript was empty")

// TranscriptLanguages are tried in order.
var TranscriptLanguages = []string{"en", "en-US", "en-GB", "en-IN"}

// YouTubeService indexes video transcripts.
type YouTubeService struct {
	transcripts driven.TranscriptFetcher
	metadata    driven.VideoMetadata
	ingest      driving.IngestService
	llm         driven.LLMService
	prompts     prompts
	callTimeout time.Duration
}

// NewYouTubeService creates the service. metadata may be nil.
func NewYouTubeService(
	transcripts driven.TranscriptFetcher,
	metadata driven.VideoMetadata,
	ingest driving.IngestService,
	llm driven.LLMService,
	store driven.PromptStore,
	callTimeout time.Duration,
) *YouTubeService {
	return &YouTubeService{
		transcripts: transcripts,
		metadata:    metadata,
		ingest:      ingest,
		llm:         llm,
		prompts:     prompts{store: store},
		callTimeout: callTimeout,
	}
}

// Ingest fetches the transcript for rawURL, indexes it under a new doc ID
// and summarises it. A failed summary is replaced by a placeholder.
func (s *YouTubeService) Ingest(ctx context.Context, rawURL string) (domain.YouTubeResult, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return domain.YouTubeResult{}, &domain.ValidationError{Message: MsgYouTubeMissingURL}
	}
	videoID, ok := ExtractVideoID(rawURL)
	if !ok {
		return domain.YouTubeResult{}, &domain.ValidationError{Message: MsgYouTubeBadURL}
	}

	logger.Section("YouTube Ingest")
	logger.Debug("video=%s", videoID)

	if s.transcripts == nil {
		return domain.YouTubeResult{}, fmt.Errorf("youtube: transcripts: %w", domain.ErrNotImplemented)
	}

	cctx, cancel := callContext(ctx, s.callTimeout)
	segments, err := s.transcripts.Fetch(cctx, videoID, TranscriptLanguages)
	cancel()
	if err != nil {
		if isTranscriptUnavailable(err) {
			return domain.YouTubeResult{}, &domain.NotFoundError{Resource: "transcript", ID: videoID, Err: err}
		}
		return domain.YouTubeResult{}, domain.NewProviderError("transcript", "fetch", err)
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Text != "" {
			parts = append(parts, seg.Text)
		}
	}
	fullText := strings.TrimSpace(strings.Join(parts, " "))
	if fullText == "" {
		return domain.YouTubeResult{}, &domain.NotFoundError{Resource: "transcript", ID: videoID, Err: ErrEmptyTranscript}
	}

	result := domain.YouTubeResult{DocID: NewDocID(), VideoID: videoID}
	if _, err := s.ingest.IngestTranscript(ctx, fullText, result.DocID); err != nil {
		return domain.YouTubeResult{}, fmt.Errorf("youtube: %w", err)
	}

	result.Summary, result.SummaryErr = s.summarise(ctx, fullText)
	if result.SummaryErr != nil {
		logger.Warn("summary failed: %v", result.SummaryErr)
		result.Summary = MsgYouTubeSummaryError
	}
	result.Title = s.title(ctx, videoID)

	logger.Info("Indexed video %s as doc %q", videoID, result.DocID)
	return result, nil
}

func (s *YouTubeService) summarise(ctx context.Context, text string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}
	if r := []rune(text); len(r) > summarySnippetChars {
		text = string(r[:summarySnippetChars])
	}
	cctx, cancel := callContext(ctx, s.callTimeout)
	defer cancel()

	prompt := s.prompts.render(driven.PromptYouTubeSummary, "transcript", text)
	summary, err := s.llm.Generate(cctx, prompt, driven.GenerateOptions{Temperature: driven.Temperature(0.3)})
	if err != nil {
		return "", domain.NewProviderError("llm", "summarise", err)
	}
	return strings.TrimSpace(summary), nil
}

func (s *YouTubeService) title(ctx context.Context, videoID string) string {
	fallback := "YouTube video (" + videoID + ")"
	if s.metadata == nil {
		return fallback
	}
	cctx, cancel := callContext(ctx, s.callTimeout)
	defer cancel()
	title, err := s.metadata.Title(cctx, videoID)
	if err != nil || strings.TrimSpace(title) == "" {
		logger.Debug("title lookup failed for %s: %v", videoID, err)
		return fallback
	}
	return title
}

// ExtractVideoID returns the video ID from a youtube.com or youtu.be URL.
func ExtractVideoID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(u.Hostname()) {
	case "www.youtube.com", "youtube.com", "m.youtube.com":
		id := u.Query().Get("v")
		return id, id != ""
	case "youtu.be":
		id := strings.TrimLeft(u.Path, "/")
		return id, id != ""
	default:
		return "", false
	}
}

func isTranscriptUnavailable(err error) bool {
	return errors.Is(err, domain.ErrTranscriptsDisabled) ||
		errors.Is(err, domain.ErrTranscriptNotFound) ||
		errors.Is(err, domain.ErrLanguageUnavailable)
}

// YouTubeErrorMessage maps an Ingest error to the message shown to clients.
// client is false for server-side failures such as indexing errors.
func YouTubeErrorMessage(err error) (msg string, client bool) {
	var validation *domain.ValidationError
	var provider *domain.ProviderError
	switch {
	case errors.As(err, &validation):
		return validation.Message, true
	case errors.Is(err, ErrEmptyTranscript):
		return MsgYouTubeEmpty, true
	case isTranscriptUnavailable(err):
		return MsgYouTubeNoTranscript, true
	case errors.As(err, &provider) && provider.Provider == "transcript":
		return fmt.Sprintf("Failed to fetch transcript from YouTube: %v", provider.Err), true
	default:
		return err.Error(), false
	}
}
