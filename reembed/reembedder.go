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
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/issuematch/ai"
	"github.com/poiesic/issuematch/core"
	"github.com/poiesic/issuematch/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of documents embedded per request.
	BatchSize int

	// ReportInterval is how often to report progress, in documents.
	ReportInterval int

	// MaxRetries is the maximum number of attempts per embedding request.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder re-embeds every document of a namespace.
type Reembedder struct {
	repo      storage.DocumentRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	logger    *slog.Logger
}

// NewReembedder creates a new reembedder.
// progress receives human-readable progress output (typically os.Stderr).
func NewReembedder(repo storage.DocumentRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		repo:      repo,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
		logger:    slog.Default().With("component", "reembed"),
	}, nil
}

// Run re-embeds every document in namespace and returns how many were
// processed.
func (r *Reembedder) Run(ctx context.Context, namespace string) (int, error) {
	if err := core.ValidateNamespace(namespace); err != nil {
		return 0, err
	}

	total, err := r.repo.CountDocuments(ctx, namespace)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No documents found in namespace %q (0 documents)\n", namespace)
		return 0, nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d documents in %q (batch size: %d)\n",
		total, namespace, r.config.BatchSize)
	r.logger.Info("reembedding namespace", "namespace", namespace, "documents", total)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	iterator := NewDocumentIterator(r.repo, namespace, r.config.BatchSize)
	err = iterator.ForEach(ctx, func(docs []*core.Document) error {
		if err := r.processor.Process(ctx, docs); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(docs)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return processed, err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d documents in %v (%.1f documents/sec)\n",
		processed, elapsed.Round(time.Second), float64(processed)/elapsed.Seconds())
	return processed, nil
}
