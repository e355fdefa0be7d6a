package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil chat service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingChatService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Chat: &mockChatService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestNewServer_Instructions(t *testing.T) {
	t.Run("chat only", func(t *testing.T) {
		server, err := NewServer(&Ports{Chat: &mockChatService{}})
		require.NoError(t, err)

		got := server.Instructions()
		assert.Contains(t, got, "doc_id")
		assert.NotContains(t, got, "ingest_text")
		assert.NotContains(t, got, "delete_document")
		assert.NotContains(t, got, "youtube_ingest")
	})

	t.Run("all ports", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Chat:      &mockChatService{},
			Ingest:    &mockIngestService{},
			Documents: &mockDocumentService{},
			YouTube:   &mockYouTubeService{},
			Prompts:   &mockPromptStore{},
		})
		require.NoError(t, err)

		got := server.Instructions()
		for _, want := range []string{"ingest_text", "delete_document", "youtube_ingest", "sercha-rag://prompts/"} {
			assert.Contains(t, got, want)
		}
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil chat service returns error", func(t *testing.T) {
		ports := &Ports{Ingest: &mockIngestService{}}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingChatService)
	})

	t.Run("chat only is valid", func(t *testing.T) {
		ports := &Ports{
			Chat: &mockChatService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Chat:      &mockChatService{},
			Ingest:    &mockIngestService{},
			Documents: &mockDocumentService{},
			YouTube:   &mockYouTubeService{},
			Prompts:   &mockPromptStore{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}
