package knowledge

import (
	"context"
	"io"
)

// Repository persists documents and their chunks.
type Repository interface {
	SaveDocument(ctx context.Context, d *Document, chunks []Chunk) error
	Chunks(ctx context.Context, limit int) ([]Chunk, error)
	Ping(ctx context.Context) error
}

// Retriever returns context snippets for a question.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Snippet, error)
}

// ObjectStore archives raw uploads.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}
