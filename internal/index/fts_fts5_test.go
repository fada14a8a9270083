//go:build sqlite_fts5

package index

import (
	"strings"
	"testing"
	"time"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM pages_fts`).Scan(&count); err != nil {
		t.Fatalf("pages_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	row := PageRow{
		Filename:  "fts@2024-01-01.md",
		Title:     "FTS Page",
		Datetime:  "2024-01-01",
		Checksum:  "f1",
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertPage(row, "inkwell provides powerful full-text search capabilities."); err != nil {
		t.Fatalf("UpsertPage: %v", err)
	}

	results, err := db.Search("powerful", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Filename != "fts@2024-01-01.md" || results[0].Datetime != "2024-01-01" {
		t.Errorf("result = %+v", results[0])
	}
	if !strings.Contains(results[0].Snippet, "powerful") {
		t.Errorf("snippet = %q", results[0].Snippet)
	}
}

func TestFTS5_QuotesUserSyntax(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPage(PageRow{Filename: "q.md", Checksum: "1", UpdatedAt: time.Now()}, `say "hello" AND more`)

	if _, err := db.Search(`"hello" AND (`, 10); err != nil {
		t.Errorf("query with FTS syntax failed: %v", err)
	}
	if got := matchQuery(`a "b"`); got != `"a" """b"""` {
		t.Errorf("matchQuery = %q", got)
	}
}

func TestFTS5_DeleteRemovesFromSearch(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPage(PageRow{Filename: "d.md", Checksum: "1", UpdatedAt: time.Now()}, "ephemeral")
	_ = db.DeletePage("d.md")

	results, err := db.Search("ephemeral", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("deleted page still searchable: %+v", results)
	}
}
