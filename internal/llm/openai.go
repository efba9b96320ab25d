package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/youtools/youtools-backend/internal/apperr"
)

// OpenAIGenerator uses an OpenAI-compatible chat completion endpoint.
type OpenAIGenerator struct {
	model  string
	client *openai.Client
}

// NewOpenAIGenerator creates a new OpenAI-compatible generator. An empty
// baseURL targets api.openai.com.
func NewOpenAIGenerator(baseURL, model, apiKey string, httpClient *http.Client) *OpenAIGenerator {
	if apiKey == "" {
		apiKey = "dummy-key" // local servers ignore it
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		baseURL = strings.TrimSuffix(baseURL, "/")
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL += "/v1"
		}
		clientConfig.BaseURL = baseURL
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}

	return &OpenAIGenerator{
		model:  model,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Generate implements TextGenerator.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", apperr.Generation("chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.Generation("chat completion returned no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}
