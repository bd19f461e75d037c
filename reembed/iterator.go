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


package reembed

import (
	"context"

	"github.com/poiesic/issuematch/core"
	"github.com/poiesic/issuematch/storage"
)

const (
	// DefaultBatchSize is the default number of documents fetched per page.
	DefaultBatchSize = 100
)

// DocumentIterator pages through the documents of one namespace in ID order.
type DocumentIterator struct {
	repo      storage.DocumentRepository
	namespace string
	batchSize int
}

// NewDocumentIterator creates a new document iterator.
// A non-positive batchSize falls back to DefaultBatchSize.
func NewDocumentIterator(repo storage.DocumentRepository, namespace string, batchSize int) *DocumentIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &DocumentIterator{
		repo:      repo,
		namespace: namespace,
		batchSize: batchSize,
	}
}

// ForEach calls fn with each page of documents.
// Iteration stops on the first error from fn or when ctx is done; ctx is
// checked between pages.
func (it *DocumentIterator) ForEach(ctx context.Context, fn func([]*core.Document) error) error {
	var afterID core.ID
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := it.repo.ListDocuments(ctx, it.namespace, afterID, it.batchSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}

		if err := fn(page); err != nil {
			return err
		}

		if len(page) < it.batchSize {
			return ctx.Err()
		}
		afterID = page[len(page)-1].Id
	}
}
