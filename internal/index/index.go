package index

// MemoryIndex defines the interface for memory indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type MemoryIndex interface {
	UpsertMemory(row MemoryRow, content string) error
	DeleteMemory(id string) error
	AllChecksums() (map[string]string, error)
	ListMemories(limit, offset int, tag, mediaType, sort string) ([]MemoryRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies MemoryIndex at compile time.
var _ MemoryIndex = (*DB)(nil)
