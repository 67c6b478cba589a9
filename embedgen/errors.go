package embedgen

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrRepositoryRequired is returned when no embedding repository is provided.
	ErrRepositoryRequired = errors.New("embedding repository required")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidConfig indicates generator settings that cannot be used.
	ErrInvalidConfig = errors.New("invalid generator config")

	// ErrGenerationFailed wraps any failure while embedding a document.
	ErrGenerationFailed = errors.New("embedding generation failed")
)
