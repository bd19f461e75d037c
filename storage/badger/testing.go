package badger

import "github.com/poiesic/issuematch/storage"

// NewMemoryRepository creates an in-memory document repository for testing.
// Caller must close both the repository and the backend when done.
func NewMemoryRepository() (storage.DocumentRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}

	repo, err := NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	return repo, backend, nil
}
