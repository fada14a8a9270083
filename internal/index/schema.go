// Package index provides a SQLite-backed page index with optional FTS5
// full-text search, kept current by a startup sync and a file watcher.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN opens a private in-memory index.
const MemoryDSN = ":memory:"

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS pages (
	filename   TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	datetime   TEXT NOT NULL DEFAULT '',
	checksum   TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_pages_datetime ON pages(datetime);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
// MemoryDSN keeps the index in memory for the life of the process.
func Open(dsn string) (*DB, error) {
	params := "?_busy_timeout=5000"
	if dsn != MemoryDSN {
		params += "&_journal_mode=WAL"
	}
	conn, err := sql.Open("sqlite3", dsn+params)
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	// One connection: writes serialise, and an in-memory database is not
	// lost to a second connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
