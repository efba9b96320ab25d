package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youtools/youtools-backend/internal/apperr"
	"github.com/youtools/youtools-backend/internal/retry"
)

func ollamaServer(t *testing.T, status int, stream string) (*httptest.Server, *ollamaRequest) {
	t.Helper()
	var got ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(stream))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestOllamaGenerateConcatenatesStream(t *testing.T) {
	stream := `{"response":"In this ","done":false}` + "\n" +
		"\n" +
		`{"response":"YouTube video,","done":false}` + "\n" +
		`{"response":"","done":true}` + "\n"
	srv, got := ollamaServer(t, http.StatusOK, stream)

	gen := NewOllamaGenerator(srv.URL+"/", "llama3.2", srv.Client(), retry.Config{})
	text, err := gen.Generate(context.Background(), "summarize this")

	require.NoError(t, err)
	assert.Equal(t, "In this YouTube video,", text)
	assert.Equal(t, "llama3.2", got.Model)
	assert.Equal(t, "summarize this", got.Prompt)
}

func TestNewOllamaGeneratorBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "http://127.0.0.1:11434"},
		{"127.0.0.1:11434", "http://127.0.0.1:11434"},
		{"https://ollama.internal/", "https://ollama.internal"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			gen := NewOllamaGenerator(tt.in, "", nil, retry.Config{})
			assert.Equal(t, tt.want, gen.baseURL)
		})
	}
}

func TestOllamaGenerateFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		stream string
	}{
		{"malformed chunk", http.StatusOK, `{"response":"partial"}` + "\n" + `{not json` + "\n"},
		{"error chunk", http.StatusOK, `{"error":"model not found"}` + "\n"},
		{"non-success status", http.StatusNotFound, `{"error":"missing"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := ollamaServer(t, tt.status, tt.stream)
			gen := NewOllamaGenerator(srv.URL, "llama3.2", srv.Client(), retry.Config{})

			text, err := gen.Generate(context.Background(), "p")
			require.Error(t, err)
			assert.Empty(t, text)
			assert.True(t, apperr.Is(err, apperr.KindGeneration))
		})
	}
}

func TestOllamaGenerateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	gen := NewOllamaGenerator(url, "", nil, retry.Config{})
	_, err := gen.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindGeneration))
}
