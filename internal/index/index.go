package index

// PageIndex defines the interface for page indexing operations.
// Consumers depend on this interface rather than the concrete *DB type.
type PageIndex interface {
	UpsertPage(p PageRow, body string) error
	DeletePage(filename string) error
	AllChecksums() (map[string]string, error)
	ListPages() ([]PageRow, error)
	Count() (int, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies PageIndex at compile time.
var _ PageIndex = (*DB)(nil)
