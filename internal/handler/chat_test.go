package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, content string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1760608800,
			"model":   DefaultChatModel,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestChatAnswerer(t *testing.T) {
	var body map[string]any
	srv := chatServer(t, "  Los programas Tec Lean te ayudan a crecer tu idea. ¿Qué deseas saber?  ", &body)

	a := NewChatAnswerer("test-key", "", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	answer, err := a.Answer(context.Background(), "qué es tec lean")
	require.NoError(t, err)
	assert.Equal(t, "Los programas Tec Lean te ayudan a crecer tu idea. ¿Qué deseas saber?", answer)

	assert.Equal(t, DefaultChatModel, body["model"])
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "qué es tec lean", msgs[1].(map[string]any)["content"])
}

func TestChatAnswerer_EmptyAnswerFallsBack(t *testing.T) {
	srv := chatServer(t, "", nil)

	a := NewChatAnswerer("test-key", "gpt-4o", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	answer, err := a.Answer(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, fallbackSpeech, answer)
}

func TestChatAnswerer_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	t.Cleanup(srv.Close)

	a := NewChatAnswerer("test-key", "", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	_, err := a.Answer(context.Background(), "hola")
	assert.Error(t, err)
}

func TestStaticAnswerer(t *testing.T) {
	answer, err := StaticAnswerer{}.Answer(context.Background(), "lo que sea")
	require.NoError(t, err)
	assert.Equal(t, fallbackSpeech, answer)
}
