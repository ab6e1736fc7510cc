package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/aem-assistant/internal/domain/ai"
	"github.com/bryanwahyu/aem-assistant/internal/metrics"
)

const defaultMaxTokens = 2048

// Client talks to any OpenAI-compatible chat endpoint (OpenAI, Azure OpenAI, Groq).
type Client struct {
	*openai.Client
	Provider       string
	Model          string
	EmbeddingModel string
	Temperature    float32
	MaxTokens      int
}

// NewClient for api.openai.com, or any compatible baseURL when set.
func NewClient(apiKey, baseURL, model, embeddingModel string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: api key: %w", ai.ErrNotConfigured)
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Provider: "openai", Model: model, EmbeddingModel: embeddingModel}, nil
}

// NewAzureClient builds a client for an Azure OpenAI resource. endpoint wins over
// instanceName; deployments are addressed by name.
func NewAzureClient(apiKey, endpoint, instanceName, apiVersion, deployment, embeddingDeployment string) (*Client, error) {
	if endpoint == "" && instanceName != "" {
		endpoint = fmt.Sprintf("https://%s.openai.azure.com/", instanceName)
	}
	if apiKey == "" || endpoint == "" {
		return nil, fmt.Errorf("azure openai: key and endpoint: %w", ai.ErrNotConfigured)
	}
	cfg := openai.DefaultAzureConfig(apiKey, endpoint)
	if apiVersion != "" {
		cfg.APIVersion = apiVersion
	}
	// model name di request = nama deployment
	cfg.AzureModelMapperFunc = func(model string) string { return model }
	return &Client{Client: openai.NewClientWithConfig(cfg), Provider: "azure", Model: deployment, EmbeddingModel: embeddingDeployment}, nil
}

// NewGroqClient uses Groq's OpenAI-compatible API. Groq has no embeddings endpoint.
func NewGroqClient(apiKey, baseURL, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq: api key: %w", ai.ErrNotConfigured)
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Client{Client: openai.NewClientWithConfig(cfg), Provider: "groq", Model: model}, nil
}

// Complete runs one chat completion with the prompt's system and user messages.
func (c *Client) Complete(ctx context.Context, p ai.Prompt) (string, error) {
	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
		req.Temperature = c.Temperature
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	metrics.ObserveLLM(c.Provider, p.Name, err)
	if err != nil {
		return "", c.wrapErr("chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: chat completion returned no choices", c.Provider)
	}
	return resp.Choices[0].Message.Content, nil
}

// Embed returns one vector per text, ordered like texts.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if c.EmbeddingModel == "" {
		return nil, fmt.Errorf("%s: embedding model: %w", c.Provider, ai.ErrNotConfigured)
	}
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.EmbeddingModel),
	})
	metrics.ObserveLLM(c.Provider, "embed", err)
	if err != nil {
		return nil, c.wrapErr("embeddings", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%s: embeddings: got %d vectors for %d inputs", c.Provider, len(resp.Data), len(texts))
	}
	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("%s: embeddings: index %d out of range", c.Provider, d.Index)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

func (c *Client) wrapErr(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %s: %w", c.Provider, op, ai.ErrQuotaExceeded)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %s: %w", c.Provider, op, ai.ErrQuotaExceeded)
	}
	return fmt.Errorf("%s: failed to create %s: %w", c.Provider, op, err)
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}
