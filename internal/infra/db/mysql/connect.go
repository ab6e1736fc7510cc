package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
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
  id           VARCHAR(64)  NOT NULL PRIMARY KEY,
  filename     VARCHAR(512) NOT NULL,
  content_type VARCHAR(128) NOT NULL,
  object_url   VARCHAR(1024) NOT NULL,
  chunks       INT          NOT NULL,
  uploaded_at  DATETIME(3)  NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS kb_chunks (
  document_id VARCHAR(64)  NOT NULL,
  idx         INT          NOT NULL,
  start_pos   INT          NOT NULL,
  text        MEDIUMTEXT   NOT NULL,
  source      VARCHAR(512) NOT NULL,
  embedding   LONGTEXT     NOT NULL,
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
