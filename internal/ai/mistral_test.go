package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMistralTestServer(t *testing.T, handler http.HandlerFunc) *MistralProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewMistralProvider("test-key", "test-model")
	p.apiURL = srv.URL
	return p
}

func chatRequest() Request {
	return Request{
		Messages:    []Message{{Role: "user", Content: "hi"}},
		MaxTokens:   50,
		Temperature: 0.5,
	}
}

func TestMistralGenerate(t *testing.T) {
	p := newMistralTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "test-model", payload["model"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "a fine reply"}},
			},
		})
	})

	text, err := p.Generate(context.Background(), chatRequest())
	require.NoError(t, err)
	assert.Equal(t, "a fine reply", text)
}

func TestMistralErrorMapping(t *testing.T) {
	t.Run("429 carries the retry hint", func(t *testing.T) {
		p := newMistralTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := p.Generate(context.Background(), chatRequest())
		var rl *RateLimitError
		require.ErrorAs(t, err, &rl)
		assert.Equal(t, 7*time.Second, rl.RetryAfter)
	})

	t.Run("huge retry hint is capped", func(t *testing.T) {
		p := newMistralTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "3600")
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := p.Generate(context.Background(), chatRequest())
		var rl *RateLimitError
		require.ErrorAs(t, err, &rl)
		assert.Equal(t, 30*time.Second, rl.RetryAfter)
	})

	t.Run("5xx is unavailable", func(t *testing.T) {
		p := newMistralTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := p.Generate(context.Background(), chatRequest())
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("4xx is malformed", func(t *testing.T) {
		p := newMistralTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := p.Generate(context.Background(), chatRequest())
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("empty choices are malformed", func(t *testing.T) {
		p := newMistralTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		})

		_, err := p.Generate(context.Background(), chatRequest())
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("garbage body is malformed", func(t *testing.T) {
		p := newMistralTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>not json</html>"))
		})

		_, err := p.Generate(context.Background(), chatRequest())
		assert.ErrorIs(t, err, ErrMalformed)
	})
}
