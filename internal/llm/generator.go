package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/youtools/youtools-backend/internal/config"
	"github.com/youtools/youtools-backend/internal/retry"
)

// TextGenerator turns a prompt into generated text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	BackendOllama = "ollama"
	BackendHosted = "hosted"
	BackendOpenAI = "openai"
)

// NewGenerator builds the configured backend wrapped in a Guard.
func NewGenerator(cfg config.GenerationConfig, logger *logrus.Logger) (TextGenerator, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	client := &http.Client{Timeout: timeout}
	rc := retry.DefaultConfig.WithMaxRetries(cfg.MaxRetries)

	var gen TextGenerator
	switch cfg.Backend {
	case BackendOllama, "":
		gen = NewOllamaGenerator(cfg.BaseURL, cfg.Model, client, rc)
	case BackendHosted:
		gen = NewHostedGenerator(cfg.BaseURL, cfg.Model, cfg.APIKey, client, rc)
	case BackendOpenAI:
		gen = NewOpenAIGenerator(cfg.BaseURL, cfg.Model, cfg.APIKey, client)
	default:
		return nil, fmt.Errorf("unsupported generation backend %q", cfg.Backend)
	}

	logger.WithFields(logrus.Fields{
		"backend": cfg.Backend,
		"model":   cfg.Model,
	}).Info("Text generator configured")

	return NewGuard(gen, cfg.Backend, cfg.RequestsPerMinute, logger), nil
}
