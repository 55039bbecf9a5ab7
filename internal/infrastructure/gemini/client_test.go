package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"fourwheeler-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-test",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}).WithBackoff([]time.Duration{time.Millisecond, time.Millisecond})
	return c, &calls
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{"parts": []map[string]string{{"text": text}}}},
		},
	})
}

func TestGenerateTextSuccess(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "compare", req.Contents[0].Parts[0].Text)

		writeText(w, "Car A is faster.")
	})

	text, err := client.GenerateText(context.Background(), "compare")
	require.NoError(t, err)
	assert.Equal(t, "Car A is faster.", text)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestGenerateTextRetriesOnServiceUnavailable(t *testing.T) {
	var n int32
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeText(w, "ok")
	})

	text, err := client.GenerateText(context.Background(), "compare")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestGenerateTextStopsAfterThreeAttempts(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.GenerateText(context.Background(), "compare")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestGenerateTextDoesNotRetryOtherStatuses(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad prompt"}`))
	})

	_, err := client.GenerateText(context.Background(), "compare")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "bad prompt")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestGenerateTextEmptyCandidates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	text, err := client.GenerateText(context.Background(), "compare")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewClient(config.GeminiConfig{}).Configured())
	assert.True(t, NewClient(config.GeminiConfig{APIKey: "k"}).Configured())
}
