package storage

import (
	"context"

	"github.com/poiesic/docmem/core"
)

// EmbeddingRepository persists embedded documents and their chunks, scoped by memory.
// Implementations must be thread-safe and support concurrent access.
type EmbeddingRepository interface {
	// GetDocument retrieves the stored record for a document.
	// Returns ErrNotFound if the document has never been embedded.
	GetDocument(ctx context.Context, memory, name string) (*core.DocumentRecord, error)

	// ListDocuments returns every embedded document of a memory, ordered by name.
	ListDocuments(ctx context.Context, memory string) ([]*core.DocumentRecord, error)

	// PutDocument stores a document record and replaces all of its chunks
	// in a single transaction. Chunks previously stored for the document
	// and not present in chunks are removed.
	PutDocument(ctx context.Context, record *core.DocumentRecord, chunks []*core.Chunk) error

	// DeleteDocument removes a document record and its chunks.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, memory, name string) error

	// FindSimilar finds chunks of a memory similar to the given vector.
	// Returns chunks with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, memory string, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// Close releases resources held by the repository.
	Close() error
}
