package ai

import "context"

// Prompt names a fixed template and carries both its rendered text and the raw variables
// it was rendered from.
type Prompt struct {
	Name   string
	System string
	User   string
	Vars   map[string]string
}

// Client is a generative text model.
type Client interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// Embedder turns texts into vectors, one per input, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
