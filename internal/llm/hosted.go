package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/youtools/youtools-backend/internal/apperr"
	"github.com/youtools/youtools-backend/internal/retry"
)

// HostedGenerator calls a hosted summarization model endpoint that answers
// in one response.
type HostedGenerator struct {
	url    string
	model  string
	apiKey string
	client *http.Client
	retry  retry.Config
}

type hostedRequest struct {
	Model      string         `json:"model,omitempty"`
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type hostedSummary struct {
	SummaryText string `json:"summary_text"`
}

// NewHostedGenerator creates a generator for a hosted summarization endpoint.
func NewHostedGenerator(url, model, apiKey string, client *http.Client, rc retry.Config) *HostedGenerator {
	if client == nil {
		client = http.DefaultClient
	}
	return &HostedGenerator{
		url:    url,
		model:  model,
		apiKey: apiKey,
		client: client,
		retry:  rc,
	}
}

// Generate implements TextGenerator.
func (g *HostedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(hostedRequest{
		Model:      g.model,
		Inputs:     prompt,
		Parameters: map[string]any{"do_sample": false},
	})
	if err != nil {
		return "", apperr.Generation("encode hosted request", err)
	}

	resp, err := retry.HTTP(ctx, g.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if g.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+g.apiKey)
		}
		return g.client.Do(req)
	})
	if err != nil {
		return "", apperr.Generation("hosted summarization request", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return "", apperr.Generation("read hosted response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperr.Generation(fmt.Sprintf("hosted backend returned HTTP %d", resp.StatusCode), nil)
	}

	text, err := parseHostedSummary(raw)
	if err != nil {
		return "", apperr.Generation("decode hosted response", err)
	}
	return text, nil
}

// parseHostedSummary accepts either {"summary_text": ...} or a list of them.
func parseHostedSummary(raw []byte) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", errors.New("empty response")
	}

	if raw[0] == '[' {
		var list []hostedSummary
		if err := json.Unmarshal(raw, &list); err != nil {
			return "", err
		}
		if len(list) == 0 {
			return "", errors.New("empty summary list")
		}
		return list[0].SummaryText, nil
	}

	var single hostedSummary
	if err := json.Unmarshal(raw, &single); err != nil {
		return "", err
	}
	return single.SummaryText, nil
}
