//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS pages_fts USING fts5(
			filename UNINDEXED,
			title,
			body,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, filename, title, body string) error {
	_, _ = tx.Exec(`DELETE FROM pages_fts WHERE filename = ?`, filename)
	_, err := tx.Exec(`INSERT INTO pages_fts (filename, title, body) VALUES (?, ?, ?)`,
		filename, title, body)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, filename string) {
	_, _ = tx.Exec(`DELETE FROM pages_fts WHERE filename = ?`, filename)
}

// matchQuery quotes every term so user input is never parsed as FTS syntax.
func matchQuery(query string) string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

// Search performs an FTS5 full-text search and returns matching results with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	q := matchQuery(query)
	if q == "" {
		return nil, nil
	}
	rows, err := db.conn.Query(`
		SELECT pages_fts.filename,
		       pages_fts.title,
		       pages.datetime,
		       snippet(pages_fts, 2, '', '', '...', 32)
		FROM pages_fts
		JOIN pages ON pages.filename = pages_fts.filename
		WHERE pages_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, q, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Filename, &r.Title, &r.Datetime, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
