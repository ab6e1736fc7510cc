// Package ingest extracts, splits and (when an index is configured) embeds uploaded documents.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/aem-assistant/internal/application"
	domaem "github.com/bryanwahyu/aem-assistant/internal/domain/aem"
	"github.com/bryanwahyu/aem-assistant/internal/domain/ai"
	"github.com/bryanwahyu/aem-assistant/internal/domain/knowledge"
	"github.com/bryanwahyu/aem-assistant/internal/infra/docpipe"
	"github.com/bryanwahyu/aem-assistant/internal/metrics"
)

// embedBatch caps how many chunks go into one embeddings request.
const embedBatch = 64

// Service implements use-cases untuk ingestion.
// Repo, Embedder and Archive are optional; without Repo or Embedder indexing is skipped.
type Service struct {
	Extractor *docpipe.Extractor
	Splitter  docpipe.Splitter
	Repo      knowledge.Repository
	Embedder  ai.Embedder
	Archive   knowledge.ObjectStore
	Clock     application.Clock
	Logger    *zap.Logger
}

// Upload is one received file.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Result is reported to the caller.
type Result struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Chunks     int    `json:"chunks"`
	Indexed    bool   `json:"indexed"`
	DocumentID string `json:"documentId"`
	ObjectURL  string `json:"objectUrl,omitempty"`
}

// Ingest never fails because indexing is unavailable; it reports it in the message.
func (s *Service) Ingest(ctx context.Context, up Upload) (Result, error) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(up.Filename), `\`, "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	s.Logger.Info("processing file", zap.String("file", name), zap.Int("bytes", len(up.Data)))

	text, kind, err := s.Extractor.Extract(name, up.ContentType, up.Data)
	if err != nil {
		metrics.ObserveIngest("failed")
		return Result{}, fmt.Errorf("%w: extract %s: %v", domaem.ErrValidation, name, err)
	}
	if strings.TrimSpace(text) == "" {
		metrics.ObserveIngest("failed")
		return Result{}, fmt.Errorf("%w: %s contains no text", domaem.ErrValidation, name)
	}

	windows, err := s.Splitter.Split(text)
	if err != nil {
		metrics.ObserveIngest("failed")
		return Result{}, err
	}
	s.Logger.Info("generated chunks", zap.String("file", name), zap.String("kind", string(kind)), zap.Int("chunks", len(windows)))

	doc := &knowledge.Document{
		ID:          knowledge.DocumentID(uuid.New().String()),
		Filename:    name,
		ContentType: up.ContentType,
		Chunks:      len(windows),
		UploadedAt:  s.Clock.Now(),
	}
	res := Result{Status: "success", Chunks: len(windows), DocumentID: string(doc.ID)}

	if s.Archive != nil {
		key := fmt.Sprintf("uploads/%s/%s", doc.ID, name)
		url, err := s.Archive.Put(ctx, key, bytes.NewReader(up.Data), int64(len(up.Data)), up.ContentType)
		if err != nil {
			// arsip gagal tidak menggagalkan ingestion
			s.Logger.Warn("archive upload failed", zap.String("key", key), zap.Error(err))
		} else {
			doc.ObjectURL = url
			res.ObjectURL = url
		}
	}

	if s.Repo == nil || s.Embedder == nil {
		reason := "no index configured"
		if s.Repo != nil {
			reason = "provider has no embeddings"
		}
		s.Logger.Warn("index not configured, skipping indexing", zap.String("file", name), zap.String("reason", reason))
		res.Message = fmt.Sprintf("Processed %s into %d chunks (indexing skipped: %s)", name, len(windows), reason)
		metrics.ObserveIngest("skipped")
		return res, nil
	}

	chunks := make([]knowledge.Chunk, len(windows))
	texts := make([]string, len(windows))
	for i, w := range windows {
		chunks[i] = knowledge.Chunk{DocumentID: doc.ID, Index: w.Index, Start: w.Start, Text: w.Text, Source: name}
		texts[i] = w.Text
	}
	for start := 0; start < len(texts); start += embedBatch {
		end := min(start+embedBatch, len(texts))
		vecs, err := s.Embedder.Embed(ctx, texts[start:end])
		if err != nil {
			metrics.ObserveIngest("failed")
			return Result{}, fmt.Errorf("embed chunks: %w", err)
		}
		if len(vecs) != end-start {
			metrics.ObserveIngest("failed")
			return Result{}, fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vecs), end-start)
		}
		for i, v := range vecs {
			chunks[start+i].Embedding = v
		}
	}
	if err := s.Repo.SaveDocument(ctx, doc, chunks); err != nil {
		metrics.ObserveIngest("failed")
		return Result{}, fmt.Errorf("index document: %w", err)
	}

	s.Logger.Info("indexed document", zap.String("file", name), zap.String("id", string(doc.ID)), zap.Int("chunks", len(chunks)))
	metrics.ObserveIngest("indexed")
	res.Indexed = true
	res.Message = fmt.Sprintf("Successfully processed and indexed %s", name)
	return res, nil
}
