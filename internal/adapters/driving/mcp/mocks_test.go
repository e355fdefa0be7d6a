package mcp

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	result  domain.ChatResult
	err     error
	lastReq domain.ChatRequest
}

func (m *mockChatService) Chat(_ context.Context, req domain.ChatRequest) (domain.ChatResult, error) {
	m.lastReq = req
	return m.result, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	report    domain.IngestReport
	err       error
	lastText  string
	lastDocID string
}

func (m *mockIngestService) IngestText(_ context.Context, text, docID string) (domain.IngestReport, error) {
	m.lastText = text
	m.lastDocID = docID
	return m.report, m.err
}

func (m *mockIngestService) IngestImage(_ context.Context, _ []byte, _ string) (domain.IngestReport, error) {
	return m.report, m.err
}

func (m *mockIngestService) IngestPDF(
	_ context.Context,
	_ []byte,
	_ string,
	_ domain.FailurePolicy,
) (domain.IngestReport, error) {
	return m.report, m.err
}

func (m *mockIngestService) IngestTranscript(_ context.Context, _, _ string) (domain.IngestReport, error) {
	return m.report, m.err
}

func (m *mockIngestService) IngestUpload(
	_ context.Context,
	_ domain.Upload,
	_ domain.FailurePolicy,
) (domain.UploadResult, error) {
	return domain.UploadResult{}, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	err error
}

func (m *mockDocumentService) Delete(_ context.Context, docID string) (domain.DeleteResult, error) {
	if m.err != nil {
		return domain.DeleteResult{}, m.err
	}
	return domain.DeleteResult{DocID: docID}, nil
}

// mockYouTubeService is a mock implementation of driving.YouTubeService.
type mockYouTubeService struct {
	result domain.YouTubeResult
	err    error
}

func (m *mockYouTubeService) Ingest(_ context.Context, _ string) (domain.YouTubeResult, error) {
	return m.result, m.err
}

// mockPromptStore is a mock implementation of driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}
