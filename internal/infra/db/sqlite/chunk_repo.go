package sqlite

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

// SaveDocument upserts the document and replaces its chunks in one transaction.
// uploaded_at is stored as unix milliseconds.
func (r *ChunkRepository) SaveDocument(ctx context.Context, d *domain.Document, chunks []domain.Chunk) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	uploaded := d.UploadedAt
	if uploaded.IsZero() {
		uploaded = time.Now()
	}
	const qDoc = `
INSERT INTO kb_documents (id, filename, content_type, object_url, chunks, uploaded_at)
VALUES (?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET
  filename=excluded.filename,
  content_type=excluded.content_type,
  object_url=excluded.object_url,
  chunks=excluded.chunks,
  uploaded_at=excluded.uploaded_at;
`
	if _, err := tx.ExecContext(ctx, qDoc, string(d.ID), d.Filename, d.ContentType, d.ObjectURL,
		len(chunks), uploaded.UnixMilli()); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM kb_chunks WHERE document_id=?`, string(d.ID)); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	for _, c := range chunks {
		emb, err := db.EncodeEmbedding(c.Embedding)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO kb_chunks (document_id, idx, start_pos, text, source, embedding) VALUES (?,?,?,?,?,?)`,
			string(d.ID), c.Index, c.Start, c.Text, c.Source, emb); err != nil {
			return fmt.Errorf("insert chunk %d: %w", c.Index, err)
		}
	}
	return tx.Commit()
}

// Chunks returns up to limit stored chunks, newest documents first.
func (r *ChunkRepository) Chunks(ctx context.Context, limit int) ([]domain.Chunk, error) {
	if limit <= 0 {
		limit = 1000
	}
	const q = `
SELECT c.document_id, c.idx, c.start_pos, c.text, c.source, c.embedding
FROM kb_chunks c
JOIN kb_documents d ON d.id = c.document_id
ORDER BY d.uploaded_at DESC, c.document_id, c.idx
LIMIT ?;
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
