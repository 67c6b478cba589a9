package memory

import "errors"

var (
	// ErrMemoryExists is returned when creating a memory whose directory already exists.
	ErrMemoryExists = errors.New("memory already exists")

	// ErrInvalidConfig indicates a memory.yaml that cannot be used.
	ErrInvalidConfig = errors.New("invalid memory config")
)
