package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/aem-assistant/internal/domain/knowledge"
	"github.com/bryanwahyu/aem-assistant/internal/infra/db"
)

type ChunkRepository struct {
	db *sql.DB
}

func NewChunkRepository(conn *sql.DB) *ChunkRepository {
	return &ChunkRepository{db: conn}
}

// SaveDocument upserts the document and replaces its chunks atomically
func (r *ChunkRepository) SaveDocument(ctx context.Context, d *domain.Document, chunks []domain.Chunk) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const qDoc = `
INSERT INTO kb_documents
  (id, filename, content_type, object_url, chunks, uploaded_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  filename=EXCLUDED.filename,
  content_type=EXCLUDED.content_type,
  object_url=EXCLUDED.object_url,
  chunks=EXCLUDED.chunks,
  uploaded_at=EXCLUDED.uploaded_at;
`
	uploaded := d.UploadedAt
	if uploaded.IsZero() {
		uploaded = time.Now()
	}
	if _, err := tx.ExecContext(ctx, qDoc, string(d.ID), stringOrDash(d.Filename), stringOrDash(d.ContentType),
		d.ObjectURL, len(chunks), uploaded); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM kb_chunks WHERE document_id=$1`, string(d.ID)); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO kb_chunks (document_id, idx, start_pos, text, source, embedding)
VALUES ($1,$2,$3,$4,$5,$6::jsonb)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, c := range chunks {
		emb, err := db.EncodeEmbedding(c.Embedding)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, string(d.ID), c.Index, c.Start, c.Text, stringOrDash(c.Source), emb); err != nil {
			return fmt.Errorf("insert chunk %d: %w", c.Index, err)
		}
	}
	return tx.Commit()
}

// Chunks returns up to limit stored chunks, newest documents first
func (r *ChunkRepository) Chunks(ctx context.Context, limit int) ([]domain.Chunk, error) {
	if limit <= 0 {
		limit = 1000
	}
	const q = `
SELECT c.document_id, c.idx, c.start_pos, c.text, c.source, c.embedding::text
FROM kb_chunks c
JOIN kb_documents d ON d.id = c.document_id
ORDER BY d.uploaded_at DESC, c.document_id, c.idx
LIMIT $1;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		var docID, emb string
		if err := rows.Scan(&docID, &c.Index, &c.Start, &c.Text, &c.Source, &emb); err != nil {
			return nil, err
		}
		c.DocumentID = domain.DocumentID(docID)
		if c.Embedding, err = db.DecodeEmbedding(emb); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ChunkRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
