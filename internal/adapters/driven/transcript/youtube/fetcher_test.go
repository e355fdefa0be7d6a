package youtube

import (
	"context"
	"errors"
	"testing"

	ytdl "github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

type fakeClient struct {
	video         *ytdl.Video
	videoErr      error
	transcript    ytdl.VideoTranscript
	transcriptErr error
	gotLang       string
}

func (f *fakeClient) GetVideoContext(_ context.Context, id string) (*ytdl.Video, error) {
	if f.videoErr != nil {
		return nil, f.videoErr
	}
	f.video.ID = id
	return f.video, nil
}

func (f *fakeClient) GetTranscriptCtx(_ context.Context, _ *ytdl.Video, lang string) (ytdl.VideoTranscript, error) {
	f.gotLang = lang
	return f.transcript, f.transcriptErr
}

func newTestFetcher(client *fakeClient) *Fetcher {
	return &Fetcher{client: client, limiter: ratelimit.NewWithConfig(ratelimit.Config{})}
}

func tracks(codes ...string) []ytdl.CaptionTrack {
	out := make([]ytdl.CaptionTrack, len(codes))
	for i, c := range codes {
		out[i] = ytdl.CaptionTrack{LanguageCode: c}
	}
	return out
}

var preferred = []string{"en", "en-US", "en-GB", "en-IN"}

func TestFetcher_Fetch(t *testing.T) {
	client := &fakeClient{
		video: &ytdl.Video{CaptionTracks: tracks("de", "en-GB")},
		transcript: ytdl.VideoTranscript{
			{Text: "hello"},
			{Text: "  "},
			{Text: " world "},
		},
	}

	segs, err := newTestFetcher(client).Fetch(t.Context(), "abc123def45", preferred)

	require.NoError(t, err)
	assert.Equal(t, []driven.TranscriptSegment{{Text: "hello"}, {Text: "world"}}, segs)
	assert.Equal(t, "en-GB", client.gotLang)
}

func TestFetcher_Fetch_PrefersEarlierLanguage(t *testing.T) {
	client := &fakeClient{video: &ytdl.Video{CaptionTracks: tracks("en-US", "EN")}}

	_, err := newTestFetcher(client).Fetch(t.Context(), "v", preferred)

	require.NoError(t, err)
	assert.Equal(t, "EN", client.gotLang)
}

func TestFetcher_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeClient
		want   error
	}{
		{
			name:   "no caption tracks",
			client: &fakeClient{video: &ytdl.Video{}},
			want:   domain.ErrTranscriptNotFound,
		},
		{
			name:   "no preferred language",
			client: &fakeClient{video: &ytdl.Video{CaptionTracks: tracks("fr", "es")}},
			want:   domain.ErrLanguageUnavailable,
		},
		{
			name: "transcripts disabled",
			client: &fakeClient{
				video:         &ytdl.Video{CaptionTracks: tracks("en")},
				transcriptErr: ytdl.ErrTranscriptDisabled,
			},
			want: domain.ErrTranscriptsDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestFetcher(tt.client).Fetch(t.Context(), "v", preferred)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestFetcher_Fetch_VideoError(t *testing.T) {
	boom := errors.New("network down")
	client := &fakeClient{videoErr: boom}

	_, err := newTestFetcher(client).Fetch(t.Context(), "v", preferred)

	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, domain.ErrTranscriptNotFound))
}

func TestNew(t *testing.T) {
	f := New(0)
	assert.NotNil(t, f.client)
	assert.Equal(t, ratelimit.ServiceYouTube, f.limiter.Service())
}
