package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/issuematch/ai"
	"github.com/poiesic/issuematch/core"
	"github.com/poiesic/issuematch/storage"
)

// embeddingProcessor embeds one batch of chunks and stores them.
type embeddingProcessor struct {
	repository storage.DocumentRepository
	embedder   ai.Embedder
	logger     *slog.Logger
}

func newEmbeddingProcessor(repository storage.DocumentRepository, embedder ai.Embedder, logger *slog.Logger) *embeddingProcessor {
	return &embeddingProcessor{
		repository: repository,
		embedder:   embedder,
		logger:     logger.With("processor", "embeddings"),
	}
}

// process embeds texts and stores them as documents of namespace.
func (ep *embeddingProcessor) process(ctx context.Context, namespace string, texts []string) (int, error) {
	ep.logger.Debug("generating embeddings for chunks", "namespace", namespace, "chunks", len(texts))

	embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return 0, err
	}
	if len(embeddings) != len(texts) {
		return 0, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(texts), len(embeddings))
	}

	docs := make([]*core.Document, len(texts))
	for i, text := range texts {
		docs[i] = &core.Document{
			Namespace: namespace,
			Text:      text,
			Vector:    core.NormalizeVector(embeddings[i]),
		}
	}

	added, err := ep.repository.AddDocuments(ctx, docs...)
	if err != nil {
		return 0, err
	}
	return len(added), nil
}
