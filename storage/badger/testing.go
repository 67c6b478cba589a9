package badger

// NewMemoryRepository creates an in-memory embedding repository for testing.
// Caller must close both the repository and the backend when done.
func NewMemoryRepository() (*EmbeddingRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}

	repo, err := NewEmbeddingRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	return repo, backend, nil
}
