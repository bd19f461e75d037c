package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a document repository is not provided.
	ErrRepositoryRequired = errors.New("document repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidChunking is returned for a non-positive chunk size or an
	// overlap that is negative or not smaller than the chunk size.
	ErrInvalidChunking = errors.New("invalid chunk size or overlap")

	// ErrInvalidBatchSize is returned for a non-positive batch size.
	ErrInvalidBatchSize = errors.New("batch size must be positive")
)
