// Package parser derives page metadata from Markdown filenames and text.
package parser

import (
	"bytes"
	"path/filepath"
	"strings"
)

const (
	// Extension marks a file as a library document.
	Extension = ".md"
	// HTMLExtension replaces Extension in static exports.
	HTMLExtension = ".html"
	// InvalidDate is the timestamp of a filename without a delimiter.
	InvalidDate = "Invalid Date"

	timestampDelim = "@"
)

// IsDocument reports whether name carries the document extension.
func IsDocument(name string) bool {
	return filepath.Ext(name) == Extension
}

// Normalize appends the document extension when a request omits it,
// so "foo" and "foo.md" name the same document.
func Normalize(name string) string {
	if strings.HasSuffix(name, Extension) {
		return name
	}
	return name + Extension
}

// HTMLName maps a document filename to its exported file name.
func HTMLName(filename string) string {
	return strings.TrimSuffix(filename, Extension) + HTMLExtension
}

// Title strips heading markers and surrounding whitespace from a line.
func Title(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}

// TitleFromContent derives the title from the first line of content.
func TitleFromContent(content []byte) string {
	first, _, _ := bytes.Cut(content, []byte("\n"))
	return Title(string(first))
}

// Timestamp returns the text between the first "@" and the extension,
// or InvalidDate when the filename has no "@".
//
//	Timestamp("intro@2024-01-01.md") == "2024-01-01"
func Timestamp(filename string) string {
	_, rest, ok := strings.Cut(filename, timestampDelim)
	if !ok {
		return InvalidDate
	}
	return strings.TrimSuffix(rest, Extension)
}
