// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/issuematch/core"
	"github.com/poiesic/issuematch/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (storage.DocumentRepository, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	return &DocumentRepository{
		backend: backend,
	}, nil
}

// Close releases resources. The backend is owned by the caller.
func (r *DocumentRepository) Close() error {
	return nil
}

// AddDocuments stores documents, replacing any with the same ID.
func (r *DocumentRepository) AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, doc := range docs {
			if doc.Id == 0 {
				doc.Id = core.DocumentID(doc.Namespace, doc.Text)
			}
			if doc.InsertedAt.IsZero() {
				doc.InsertedAt = now
			}
			doc.UpdatedAt = now

			if err := tx.Set(makeDocumentKey(doc.Namespace, doc.Id), storage.MarshalDocument(doc)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// UpdateDocuments replaces existing documents.
func (r *DocumentRepository) UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, doc := range docs {
			key := makeDocumentKey(doc.Namespace, doc.Id)

			old, err := readDocument(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return fmt.Errorf("%w: document %d in %q", storage.ErrNotFound, doc.Id, doc.Namespace)
			}

			doc.InsertedAt = old.InsertedAt
			doc.UpdatedAt = now
			if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// GetDocument retrieves a single document.
func (r *DocumentRepository) GetDocument(ctx context.Context, namespace string, id core.ID) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDocument(tx, makeDocumentKey(namespace, id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListDocuments returns a page of documents in ID order.
func (r *DocumentRepository) ListDocuments(ctx context.Context, namespace string, afterID core.ID, limit int) ([]*core.Document, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	prefix := makeNamespacePrefix(namespace)
	start := prefix
	if afterID != 0 {
		start = makeDocumentKey(namespace, afterID)
	}

	results := make([]*core.Document, 0, limit)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(start); iter.ValidForPrefix(prefix) && len(results) < limit; iter.Next() {
			_, id, ok := parseDocumentKey(iter.Item().Key())
			if !ok || (afterID != 0 && id <= afterID) {
				continue
			}
			doc, err := itemDocument(iter.Item())
			if err != nil {
				return err
			}
			results = append(results, doc)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// CountDocuments returns the number of documents in a namespace.
func (r *DocumentRepository) CountDocuments(ctx context.Context, namespace string) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makeNamespacePrefix(namespace)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Namespaces returns every namespace with its document count.
func (r *DocumentRepository) Namespaces(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = allDocumentsPrefix()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			namespace, _, ok := parseDocumentKey(iter.Item().Key())
			if !ok {
				continue
			}
			counts[namespace]++
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// DeleteNamespace removes every document of a namespace.
func (r *DocumentRepository) DeleteNamespace(ctx context.Context, namespace string) (int, error) {
	if err := core.ValidateNamespace(namespace); err != nil {
		return 0, err
	}

	count, err := r.backend.DeletePrefix(makeNamespacePrefix(namespace))
	if err != nil {
		return 0, err
	}
	r.backend.logger.Info("deleted namespace", "namespace", namespace, "documents", count)
	return count, nil
}

// FindSimilar scans a namespace and returns the documents closest to vector.
// Documents without a vector, or with a vector of a different dimension, are
// skipped.
func (r *DocumentRepository) FindSimilar(ctx context.Context, namespace string, vector []float32, limit int) ([]*core.SimilarityMatch, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", storage.ErrInvalidQuery)
	}

	var results []*core.SimilarityMatch
	skipped := 0

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeNamespacePrefix(namespace)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			doc, err := itemDocument(iter.Item())
			if err != nil {
				return err
			}
			if len(doc.Vector) != len(vector) {
				skipped++
				continue
			}

			results = append(results, &core.SimilarityMatch{
				Document: doc,
				Distance: cosineDistance(vector, doc.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	if skipped > 0 {
		r.backend.logger.Debug("skipped documents without a comparable vector",
			"namespace", namespace, "skipped", skipped)
	}

	slices.SortFunc(results, func(a, b *core.SimilarityMatch) int {
		return cmp.Or(
			cmp.Compare(a.Distance, b.Distance),
			cmp.Compare(a.Document.Id, b.Document.Id),
		)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// cosineDistance returns 1 - cosine similarity, clamped to [0,1].
// A zero vector is at distance 1 from everything.
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	distance := 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
	return min(max(distance, 0), 1)
}

// readDocument reads a document from the transaction.
// Returns nil without error when the key doesn't exist.
func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return itemDocument(item)
}

func itemDocument(item *badger.Item) (*core.Document, error) {
	var doc *core.Document
	err := item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	return doc, err
}
