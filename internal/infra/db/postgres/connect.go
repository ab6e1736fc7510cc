package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS kb_documents (
  id           TEXT        PRIMARY KEY,
  filename     TEXT        NOT NULL,
  content_type TEXT        NOT NULL,
  object_url   TEXT        NOT NULL,
  chunks       INTEGER     NOT NULL,
  uploaded_at  TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS kb_chunks (
  document_id TEXT    NOT NULL REFERENCES kb_documents(id) ON DELETE CASCADE,
  idx         INTEGER NOT NULL,
  start_pos   INTEGER NOT NULL,
  text        TEXT    NOT NULL,
  source      TEXT    NOT NULL,
  embedding   JSONB   NOT NULL,
  PRIMARY KEY (document_id, idx)
)`,
}

// Migrate creates the index tables when missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
