package embeddoc

import (
	"context"

	"github.com/poiesic/docmem/core"
)

// MemoryExistenceChecker confirms a memory is registered.
type MemoryExistenceChecker interface {
	// CheckMemoryExists returns an error if the memory is not registered.
	CheckMemoryExists(ctx context.Context, name string) error
}

// DocumentSetProvider enumerates the documents tracked by a memory.
type DocumentSetProvider interface {
	// LoadMemoryFiles returns the memory's documents in a stable order.
	// An empty result is not an error.
	LoadMemoryFiles(ctx context.Context, name string) ([]core.MemoryFile, error)
}

// EmbeddingGenerator computes and persists embeddings for documents.
type EmbeddingGenerator interface {
	// GenerateEmbeddings embeds the request's files and returns a status line.
	GenerateEmbeddings(ctx context.Context, req core.EmbeddingRequest) (string, error)
}

// Reporter surfaces pipeline progress to the user.
type Reporter interface {
	// Intro prints the operation heading.
	Intro(title, sub string)

	// Start begins an in-progress indicator.
	Start(message string)

	// Message updates the in-progress indicator.
	Message(message string)

	// Stop ends the in-progress indicator with a final message.
	Stop(message string)

	// Cancel reports that the operation was abandoned.
	Cancel(message string)
}
