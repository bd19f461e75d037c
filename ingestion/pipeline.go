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


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/issuematch/ai"
	"github.com/poiesic/issuematch/core"
	"github.com/poiesic/issuematch/document"
	"github.com/poiesic/issuematch/refdb"
	"github.com/poiesic/issuematch/storage"
)

const (
	DefaultChunkSize    = 2300
	DefaultChunkOverlap = 230
	DefaultBatchSize    = 200
)

// Pipeline embeds reference tables into a document repository.
type Pipeline struct {
	repository   storage.DocumentRepository
	pool         *ants.Pool
	processor    *embeddingProcessor
	chunkSize    int
	chunkOverlap int
	batchSize    int
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the number of batches embedded concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithChunkSize sets the maximum chunk length in runes.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) error {
		p.chunkSize = size
		return nil
	}
}

// WithChunkOverlap sets how many runes consecutive chunks share.
func WithChunkOverlap(overlap int) Option {
	return func(p *Pipeline) error {
		p.chunkOverlap = overlap
		return nil
	}
}

// WithBatchSize sets how many chunks are embedded per request.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		p.batchSize = size
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repository storage.DocumentRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository:   repository,
		pool:         pool,
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		batchSize:    DefaultBatchSize,
		logger:       slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	if p.chunkSize < 1 || p.chunkOverlap < 0 || p.chunkOverlap >= p.chunkSize {
		p.Release()
		return nil, fmt.Errorf("%w: size %d, overlap %d", ErrInvalidChunking, p.chunkSize, p.chunkOverlap)
	}
	if p.batchSize < 1 {
		p.Release()
		return nil, ErrInvalidBatchSize
	}

	p.processor = newEmbeddingProcessor(repository, embedder, p.logger)
	return p, nil
}

// Stats summarises one Ingest call.
type Stats struct {
	Rows          int // Rows rendered into documents
	SkippedRows   int // Rows with no content
	Chunks        int
	Batches       int
	FailedBatches int
	Documents     int // Documents written to the repository
}

// Ingest renders every row of table, chunks it, embeds the chunks and stores
// them under namespace. It blocks until every batch has finished; the
// returned error joins the errors of all failed batches.
func (p *Pipeline) Ingest(ctx context.Context, namespace string, table *refdb.Table) (Stats, error) {
	var stats Stats
	if err := core.ValidateNamespace(namespace); err != nil {
		return stats, err
	}

	chunker := newChunker(p.chunkSize, p.chunkOverlap)
	var chunks []string
	for i, row := range table.Rows {
		if blankRow(row) {
			stats.SkippedRows++
			continue
		}
		rowChunks, err := chunker.split(document.Format(table.Columns, row))
		if err != nil {
			return stats, fmt.Errorf("row %d: %w", i+1, err)
		}
		stats.Rows++
		chunks = append(chunks, rowChunks...)
	}
	stats.Chunks = len(chunks)

	p.logger.Info("ingesting reference table",
		"namespace", namespace,
		"rows", stats.Rows,
		"skipped", stats.SkippedRows,
		"chunks", stats.Chunks)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for start := 0; start < len(chunks); start += p.batchSize {
		batch := chunks[start:min(start+p.batchSize, len(chunks))]
		batchNum := stats.Batches + 1
		stats.Batches++

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			stored, err := p.processor.process(ctx, namespace, batch)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Error("error processing batch", "batch", batchNum, "err", err)
				errs = append(errs, fmt.Errorf("batch %d: %w", batchNum, err))
				stats.FailedBatches++
				return
			}
			stats.Documents += stored
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("batch %d: %w", batchNum, err))
			stats.FailedBatches++
			mu.Unlock()
		}
	}
	wg.Wait()

	p.logger.Info("ingestion finished",
		"namespace", namespace,
		"documents", stats.Documents,
		"failed_batches", stats.FailedBatches)

	return stats, errors.Join(errs...)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
