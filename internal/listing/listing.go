// Package listing builds the index of library pages.
package listing

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/starford/inkwell/internal/models"
	"github.com/starford/inkwell/internal/parser"
	"github.com/starford/inkwell/internal/storage"
)

// Builder scans a library into index entries.
type Builder struct {
	store  storage.Provider
	logger *slog.Logger
}

// NewBuilder creates a Builder over store.
func NewBuilder(store storage.Provider, logger *slog.Logger) *Builder {
	return &Builder{store: store, logger: logger}
}

// List returns one entry per document, newest timestamp first and ties
// ordered by filename. Only the first line of each document is read. A
// document whose first line cannot be read is listed under its filename.
func (b *Builder) List() ([]models.PageEntry, error) {
	docs, err := b.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing: %w", err)
	}

	entries := make([]models.PageEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, b.entry(d.Filename))
	}
	Sort(entries)
	return entries, nil
}

func (b *Builder) entry(name string) models.PageEntry {
	e := models.PageEntry{Filename: name, Datetime: parser.Timestamp(name)}
	line, err := b.store.FirstLine(name)
	if err != nil {
		b.logger.Warn("title unreadable, using filename",
			slog.String("file", name),
			slog.String("error", err.Error()))
		e.Title = name
		e.TitleRecovered = true
		return e
	}
	e.Title = parser.Title(line)
	return e
}

// Sort orders entries by Datetime descending, then Filename ascending.
// Datetime is compared as a string.
func Sort(entries []models.PageEntry) {
	slices.SortFunc(entries, func(a, b models.PageEntry) int {
		if c := cmp.Compare(b.Datetime, a.Datetime); c != 0 {
			return c
		}
		return cmp.Compare(a.Filename, b.Filename)
	})
}
