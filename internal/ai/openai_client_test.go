package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fakeOpenAI(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "¿Qué es la PGN?", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-test",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 5, "completion_tokens": 3, "total_tokens": 8},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string) *OpenAIClient {
	t.Helper()
	c, err := NewOpenAIClient(Config{APIKey: "test-key", Model: "gpt-test", BaseURL: baseURL + "/v1"}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestOpenAIClient_GetReply(t *testing.T) {
	srv := fakeOpenAI(t, "  La Procuraduría General de la Nación.  ", http.StatusOK)

	reply, err := newTestClient(t, srv.URL).GetReply(context.Background(), "sistema", "¿Qué es la PGN?")
	require.NoError(t, err)
	assert.Equal(t, "La Procuraduría General de la Nación.", reply)
}

func TestOpenAIClient_EmptyReply(t *testing.T) {
	srv := fakeOpenAI(t, "   ", http.StatusOK)

	_, err := newTestClient(t, srv.URL).GetReply(context.Background(), "sistema", "¿Qué es la PGN?")
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestOpenAIClient_ServerError(t *testing.T) {
	srv := fakeOpenAI(t, "", http.StatusInternalServerError)

	_, err := newTestClient(t, srv.URL).GetReply(context.Background(), "sistema", "¿Qué es la PGN?")
	require.Error(t, err)
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(Config{}, zap.NewNop())
	require.Error(t, err)
}
