// Package storage defines the library file-system abstraction.
package storage

import "github.com/starford/inkwell/internal/models"

// Provider is the interface for library file operations. Names are plain
// filenames relative to the library root; the library is flat.
type Provider interface {
	// Root returns the absolute library directory.
	Root() string
	// List returns every top-level document in directory order.
	List() ([]models.DocumentMeta, error)
	// Read returns the raw bytes of a document.
	Read(name string) ([]byte, error)
	// FirstLine returns the first line of a document without reading the rest.
	FirstLine(name string) (string, error)
}
