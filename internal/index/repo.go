package index

import (
	"fmt"
	"time"
)

// PageRow represents a row in the pages table.
type PageRow struct {
	Filename  string
	Title     string
	Datetime  string
	Checksum  string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Datetime string `json:"datetime"`
	Snippet  string `json:"snippet"`
}

const defaultSearchLimit = 20

// UpsertPage inserts or replaces a page and its FTS entry within a transaction.
func (db *DB) UpsertPage(p PageRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO pages (filename, title, datetime, checksum, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			title      = excluded.title,
			datetime   = excluded.datetime,
			checksum   = excluded.checksum,
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, p.Filename, p.Title, p.Datetime, p.Checksum, body, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert page: %w", err)
	}

	// No-op when the FTS5 tag is absent.
	if err := ftsUpsert(tx, p.Filename, p.Title, body); err != nil {
		return err
	}
	return tx.Commit()
}

// DeletePage removes a page and its FTS entry.
func (db *DB) DeletePage(filename string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, filename)
	if _, err := tx.Exec(`DELETE FROM pages WHERE filename = ?`, filename); err != nil {
		return fmt.Errorf("index: delete page: %w", err)
	}
	return tx.Commit()
}

// AllChecksums returns the stored checksum of every indexed page.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT filename, checksum FROM pages`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var name, cs string
		if err := rows.Scan(&name, &cs); err != nil {
			return nil, err
		}
		out[name] = cs
	}
	return out, rows.Err()
}

// ListPages returns every page, newest timestamp first and ties by filename.
func (db *DB) ListPages() ([]PageRow, error) {
	rows, err := db.conn.Query(`
		SELECT filename, title, datetime, checksum, updated_at
		FROM pages
		ORDER BY datetime DESC, filename ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("index: list pages: %w", err)
	}
	defer rows.Close()

	var out []PageRow
	for rows.Next() {
		var p PageRow
		if err := rows.Scan(&p.Filename, &p.Title, &p.Datetime, &p.Checksum, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Count returns the number of indexed pages.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM pages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

// GetChecksum returns the stored checksum for a page, or empty string if not found.
func (db *DB) GetChecksum(filename string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM pages WHERE filename = ?`, filename).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}
