package knowledge

import "time"

// DocumentID identifier type
type DocumentID string

// Document is an ingested upload.
type Document struct {
	ID          DocumentID `json:"id"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"content_type"`
	ObjectURL   string     `json:"object_url,omitempty"`
	Chunks      int        `json:"chunks"`
	UploadedAt  time.Time  `json:"uploaded_at"`
}

// Chunk is one fixed-size window of a document's text.
type Chunk struct {
	DocumentID DocumentID `json:"document_id"`
	Index      int        `json:"index"`
	Start      int        `json:"start"`
	Text       string     `json:"text"`
	Source     string     `json:"source"`
	Embedding  []float32  `json:"-"`
}

// Snippet is a retrieved piece of context.
type Snippet struct {
	PageContent string  `json:"pageContent"`
	Source      string  `json:"source,omitempty"`
	Score       float64 `json:"score,omitempty"`
}
