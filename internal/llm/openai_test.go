package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youtools/youtools-backend/internal/apperr"
)

func TestOpenAIGenerate(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"llama3.2",
			"choices":[{"index":0,"message":{"role":"assistant","content":"In this YouTube video, grace."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	gen := NewOpenAIGenerator(srv.URL, "llama3.2", "", srv.Client())
	text, err := gen.Generate(context.Background(), "prompt text")

	require.NoError(t, err)
	assert.Equal(t, "In this YouTube video, grace.", text)
	assert.Equal(t, "llama3.2", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, got.Messages[0].Role)
	assert.Equal(t, "prompt text", got.Messages[0].Content)
}

func TestOpenAIGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`},
		{"no choices", http.StatusOK, `{"id":"c1","choices":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			gen := NewOpenAIGenerator(srv.URL+"/v1", "m", "key", srv.Client())
			_, err := gen.Generate(context.Background(), "p")
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindGeneration))
		})
	}
}
