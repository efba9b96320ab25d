package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/youtools/youtools-backend/internal/apperr"
	"github.com/youtools/youtools-backend/internal/retry"
)

const defaultOllamaURL = "http://127.0.0.1:11434"

// OllamaGenerator calls the Ollama generate API and assembles the
// newline-delimited JSON stream into one string.
type OllamaGenerator struct {
	baseURL string
	model   string
	client  *http.Client
	retry   retry.Config
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// NewOllamaGenerator creates a new Ollama generator
func NewOllamaGenerator(baseURL, model string, client *http.Client, rc retry.Config) *OllamaGenerator {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	// OLLAMA_HOST is usually set as host:port.
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	if model == "" {
		model = "llama3.2"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &OllamaGenerator{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  client,
		retry:   rc,
	}
}

// Generate implements TextGenerator. The whole stream is consumed before
// returning; any malformed chunk discards what was read so far.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaRequest{Model: g.model, Prompt: prompt})
	if err != nil {
		return "", apperr.Generation("encode ollama request", err)
	}

	resp, err := retry.HTTP(ctx, g.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return g.client.Do(req)
	})
	if err != nil {
		return "", apperr.Generation("failed to connect to ollama server", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperr.Generation(fmt.Sprintf("ollama returned HTTP %d", resp.StatusCode), nil)
	}

	var sb strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var chunk ollamaChunk
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			return "", apperr.Generation("malformed ollama stream chunk", err)
		}
		if chunk.Error != "" {
			return "", apperr.Generation("ollama: "+chunk.Error, nil)
		}
		sb.WriteString(chunk.Response)
	}
	if err := scanner.Err(); err != nil {
		return "", apperr.Generation("read ollama stream", err)
	}

	return sb.String(), nil
}
