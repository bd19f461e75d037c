package retrieval

import "errors"

var (
	// ErrRepositoryRequired is returned when a document repository is not provided.
	ErrRepositoryRequired = errors.New("document repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmptyQuery is returned for a blank query.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidLimit is returned when fewer than one match is requested.
	ErrInvalidLimit = errors.New("limit must be positive")
)
