package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// ==================== settings commands ====================

func TestSettingsShow(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.settings.Embedding.APIKey = "sk-1234567890abcdef"
	ts.settings.settings.WebSearch.APIKey = "tvly-1234567890"

	out, err := execute(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Embedding]")
	assert.Contains(t, out, "text-embedding-3-large")
	assert.Contains(t, out, "sk-1...cdef")
	assert.NotContains(t, out, "sk-1234567890abcdef")
	assert.Contains(t, out, "SQLite (local file)")
	assert.Contains(t, out, "tvly...7890")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShow_ValidationWarning(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.validateErr = errors.New("embedding provider not configured")

	out, err := execute(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: embedding provider not configured")
	assert.Contains(t, out, "sercha-rag settings wizard")
}

func TestSettingsBackend_Arg(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "", "settings", "backend", "pgvector", "--dsn", "postgres://localhost/rag")

	require.NoError(t, err)
	assert.Equal(t, domain.VectorBackendPgvector, ts.settings.backend)
	assert.Equal(t, "postgres://localhost/rag", ts.settings.dsn)
	assert.Contains(t, out, "PostgreSQL + pgvector")
}

func TestSettingsBackend_Interactive(t *testing.T) {
	ts := setupTestServices(t)

	_, err := execute(t, "1\n", "settings", "backend")

	require.NoError(t, err)
	assert.Equal(t, domain.VectorBackendMemory, ts.settings.backend)
}

func TestSettingsBackend_Unknown(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "", "settings", "backend", "pinecone")

	assert.ErrorContains(t, err, `unknown backend "pinecone"`)
}

func TestSettingsWebSearch(t *testing.T) {
	ts := setupTestServices(t)

	_, err := execute(t, "tvly-secret\n", "settings", "websearch")

	require.NoError(t, err)
	assert.Equal(t, "tvly-secret", ts.settings.webKey)
}

func TestSettingsWebSearch_EmptyKey(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "\n", "settings", "websearch")

	assert.ErrorContains(t, err, "API key is required")
}

func TestSettingsEmbedding_Interactive(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "1\n\nsk-test-key\n", "settings", "embedding")

	require.NoError(t, err)
	assert.Equal(t, []string{"openai", "text-embedding-3-large", "sk-test-key"}, ts.settings.embedding)
	assert.Contains(t, out, "Validating configuration... OK")
}

func TestSettingsEmbedding_OllamaNeedsNoKey(t *testing.T) {
	ts := setupTestServices(t)

	_, err := execute(t, "2\nnomic-embed-text\n", "settings", "embedding")

	require.NoError(t, err)
	assert.Equal(t, []string{"ollama", "nomic-embed-text", ""}, ts.settings.embedding)
}

func TestSettingsEmbedding_MissingKey(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "1\n\n\n", "settings", "embedding")

	assert.ErrorContains(t, err, "API key is required")
}
