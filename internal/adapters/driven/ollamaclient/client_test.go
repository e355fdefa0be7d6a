package ollamaclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/echo", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"value":"pong"}`))
	}))
	t.Cleanup(srv.Close)

	var out struct{ Value string }
	err := New(srv.URL, time.Second).Post(t.Context(), "/api/echo", map[string]string{"v": "ping"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "pong", out.Value)
}

func TestClient_Post_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	var out struct{}
	err := New(srv.URL, time.Second).Post(t.Context(), "/api/x", nil, &out)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "model not found", se.Body)
	assert.False(t, Retryable(err))
}

func TestClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	t.Cleanup(srv.Close)

	assert.NoError(t, New(srv.URL, time.Second).Ping(t.Context()))
}

func TestNew_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("", time.Second).baseURL)
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err   error
		retry bool
	}{
		{&StatusError{StatusCode: 500}, true},
		{fmt.Errorf("wrapped: %w", &StatusError{StatusCode: 429}), true},
		{&StatusError{StatusCode: 400}, false},
		{errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.retry, Retryable(tt.err), tt.err.Error())
	}
}
