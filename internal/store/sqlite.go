package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const documentSchemaSQL = `
CREATE TABLE IF NOT EXISTS document (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	blob       BLOB NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteProvider persists the document as a single-row blob in SQLite.
// The schema is deliberately one key: the store only ever loads and
// saves the whole document.
type SQLiteProvider struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database and applies the
// schema.
func OpenSQLite(dsn string) (*SQLiteProvider, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(documentSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLiteProvider{conn: conn}, nil
}

// Load returns the stored document blob.
func (p *SQLiteProvider) Load() ([]byte, error) {
	var blob []byte
	err := p.conn.QueryRow(`SELECT blob FROM document WHERE id = 1`).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("store: load: %w", err)
	}
	return blob, nil
}

// Save upserts the single document row.
func (p *SQLiteProvider) Save(blob []byte) error {
	_, err := p.conn.Exec(`
		INSERT INTO document (id, blob, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			blob       = excluded.blob,
			updated_at = excluded.updated_at
	`, blob, time.Now())
	if err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (p *SQLiteProvider) Close() error {
	return p.conn.Close()
}
