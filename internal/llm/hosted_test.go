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

func TestHostedGenerate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"object", `{"summary_text":"a short summary"}`, "a short summary"},
		{"list", `[{"summary_text":"from a list"}]`, "from a list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got hostedRequest
			var auth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				auth = r.Header.Get("Authorization")
				_ = json.NewDecoder(r.Body).Decode(&got)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			gen := NewHostedGenerator(srv.URL, "bart-large-cnn", "hf_token", srv.Client(), retry.Config{})
			text, err := gen.Generate(context.Background(), "the transcript")

			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
			assert.Equal(t, "Bearer hf_token", auth)
			assert.Equal(t, "the transcript", got.Inputs)
			assert.Equal(t, "bart-large-cnn", got.Model)
		})
	}
}

func TestHostedGenerateFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"non-success status", http.StatusUnauthorized, `{"error":"bad token"}`},
		{"empty list", http.StatusOK, `[]`},
		{"garbage", http.StatusOK, `<html>`},
		{"empty body", http.StatusOK, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			gen := NewHostedGenerator(srv.URL, "", "", srv.Client(), retry.Config{})
			_, err := gen.Generate(context.Background(), "p")
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindGeneration))
		})
	}
}
