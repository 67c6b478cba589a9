package core

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ContentHash returns a hex-encoded BLAKE2b-256 digest of content.
// It is used to detect whether a stored embedding is stale.
func ContentHash(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Memory describes a registered document collection.
type Memory struct {
	Name        string
	Description string
	// TrackedDir is set for custom-directory-tracked memories. Document names
	// are then relative paths under TrackedDir flattened by NormalizeDocumentName.
	TrackedDir string
	Include    []string
	Exclude    []string
}

// IsCustomDirTracked reports whether the memory tracks an external directory.
func (m *Memory) IsCustomDirTracked() bool {
	return m.TrackedDir != ""
}

// MemoryFile is one document tracked by a memory, as produced by a loader.
type MemoryFile struct {
	Name        string // Flat stored name, the key documents are resolved against
	Path        string // Absolute path on disk
	Size        int64
	ModTime     time.Time
	Content     string
	ContentHash string
}

// DocumentRecord is the stored summary of an embedded document.
type DocumentRecord struct {
	Memory      string
	Name        string
	ContentHash string
	Chunks      int
	EmbeddedAt  time.Time
}

// Chunk is one embedded slice of a document.
type Chunk struct {
	Memory   string
	Document string
	Index    int
	Text     string
	Vector   []float32
}

// SearchResult represents a chunk match with its similarity score.
type SearchResult struct {
	Chunk *Chunk
	Score float32
}

// EmbeddingRequest asks an embedding generator to embed Files of a memory.
type EmbeddingRequest struct {
	MemoryName string
	Files      []MemoryFile
	// Overwrite re-embeds files whose stored content hash is unchanged.
	Overwrite bool
	// Prune removes stored documents of the memory that are not in Files.
	Prune bool
}
