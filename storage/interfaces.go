package storage

import (
	"context"

	"github.com/poiesic/issuematch/core"
)

// DocumentRepository stores embedded reference documents grouped by namespace.
// Implementations must be thread-safe and support concurrent access.
type DocumentRepository interface {
	// AddDocuments stores documents, replacing any with the same content ID.
	// Documents with Id=0 get core.DocumentID(namespace, text).
	// Sets InsertedAt and UpdatedAt.
	AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// UpdateDocuments replaces existing documents and refreshes UpdatedAt.
	// Returns ErrNotFound if any document doesn't exist.
	UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// GetDocument retrieves a single document.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, namespace string, id core.ID) (*core.Document, error)

	// ListDocuments returns up to limit documents of a namespace in ID order,
	// starting after afterID. Pass 0 to start from the beginning.
	ListDocuments(ctx context.Context, namespace string, afterID core.ID, limit int) ([]*core.Document, error)

	// CountDocuments returns the number of documents in a namespace.
	CountDocuments(ctx context.Context, namespace string) (int, error)

	// Namespaces returns every namespace with its document count.
	Namespaces(ctx context.Context) (map[string]int, error)

	// DeleteNamespace removes every document of a namespace and returns how
	// many were removed.
	DeleteNamespace(ctx context.Context, namespace string) (int, error)

	// FindSimilar returns the limit documents of a namespace closest to
	// vector, ordered by ascending cosine distance.
	FindSimilar(ctx context.Context, namespace string, vector []float32, limit int) ([]*core.SimilarityMatch, error)

	// Close releases resources held by the repository.
	Close() error
}
