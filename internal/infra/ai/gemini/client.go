// Package gemini adapts Google's GenAI SDK to the ai.Client and ai.Embedder ports.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/bryanwahyu/aem-assistant/internal/domain/ai"
	"github.com/bryanwahyu/aem-assistant/internal/metrics"
)

const provider = "gemini"

type Client struct {
	genai          *genai.Client
	Model          string
	EmbeddingModel string
	Temperature    float32
	MaxTokens      int32
}

// NewClient connects to the Gemini API backend. baseURL is only set by tests.
func NewClient(ctx context.Context, apiKey, model, embeddingModel, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key: %w", ai.ErrNotConfigured)
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{genai: gc, Model: model, EmbeddingModel: embeddingModel}, nil
}

func (c *Client) Complete(ctx context.Context, p ai.Prompt) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.Temperature),
	}
	if c.MaxTokens > 0 {
		cfg.MaxOutputTokens = c.MaxTokens
	}
	if p.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}
	contents := []*genai.Content{genai.NewContentFromText(p.User, genai.RoleUser)}

	resp, err := c.genai.Models.GenerateContent(ctx, c.Model, contents, cfg)
	metrics.ObserveLLM(provider, p.Name, err)
	if err != nil {
		return "", wrapErr("generate content", err)
	}
	return resp.Text(), nil
}

// Embed embeds texts as retrieval documents.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if c.EmbeddingModel == "" {
		return nil, fmt.Errorf("gemini: embedding model: %w", ai.ErrNotConfigured)
	}
	if len(texts) == 0 {
		return nil, nil
	}
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}
	resp, err := c.genai.Models.EmbedContent(ctx, c.EmbeddingModel, contents, &genai.EmbedContentConfig{
		TaskType: "RETRIEVAL_DOCUMENT",
	})
	metrics.ObserveLLM(provider, "embed", err)
	if err != nil {
		return nil, wrapErr("embed content", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini: embed content: got %d vectors for %d inputs", len(resp.Embeddings), len(texts))
	}
	out := make([][]float32, len(texts))
	for i, e := range resp.Embeddings {
		out[i] = e.Values
	}
	return out, nil
}

func wrapErr(op string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("gemini: %s: %w", op, ai.ErrQuotaExceeded)
	}
	return fmt.Errorf("gemini: %s: %w", op, err)
}
