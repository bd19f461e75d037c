package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/issuematch/ai"
	"github.com/poiesic/issuematch/core"
	"github.com/poiesic/issuematch/storage"
)

// BatchProcessor re-embeds one page of documents.
type BatchProcessor struct {
	repo           storage.DocumentRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts per embedding call
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.DocumentRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds the documents' text and writes the normalized vectors back.
func (bp *BatchProcessor) Process(ctx context.Context, docs []*core.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(docs) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(docs), len(embeddings))
	}

	for i := range docs {
		docs[i].Vector = core.NormalizeVector(embeddings[i])
	}

	if _, err := bp.repo.UpdateDocuments(ctx, docs...); err != nil {
		return fmt.Errorf("failed to update documents: %w", err)
	}
	return nil
}
