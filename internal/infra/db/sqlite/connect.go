// Package sqlite is the embedded chunk index, backed by the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"
)

// Connect opens dsn (a file path or "file:..." URI) and applies the pragmas the index needs.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// satu writer, sqlite tidak suka concurrent write
	db.SetMaxOpenConns(1)
	for _, p := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, err
		}
	}
	if !strings.Contains(dsn, ":memory:") {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS kb_documents (
  id           TEXT    PRIMARY KEY,
  filename     TEXT    NOT NULL,
  content_type TEXT    NOT NULL,
  object_url   TEXT    NOT NULL,
  chunks       INTEGER NOT NULL,
  uploaded_at  INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS kb_chunks (
  document_id TEXT    NOT NULL REFERENCES kb_documents(id) ON DELETE CASCADE,
  idx         INTEGER NOT NULL,
  start_pos   INTEGER NOT NULL,
  text        TEXT    NOT NULL,
  source      TEXT    NOT NULL,
  embedding   TEXT    NOT NULL,
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
