package reembed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/issuematch/ai/mock"
	"github.com/poiesic/issuematch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(batchSize, reportInterval int) *Config {
	return &Config{
		BatchSize:      batchSize,
		ReportInterval: reportInterval,
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
	}
}

func TestNewReembedder_Validation(t *testing.T) {
	repo := setupTestDB(t)

	_, err := NewReembedder(nil, mock.NewMockEmbedder(), nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewReembedder(repo, nil, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	r, err := NewReembedder(repo, mock.NewMockEmbedder(), nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), r.config)
}

func TestReembedder_Run(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	addDocuments(t, repo, "industry", 10)
	others := addDocuments(t, repo, "past_issue", 2)

	var buf bytes.Buffer
	reembedder, err := NewReembedder(repo, newUnnormalizedEmbedder(), testConfig(3, 3), &buf)
	require.NoError(t, err)

	processed, err := reembedder.Run(ctx, "industry")
	require.NoError(t, err)
	assert.Equal(t, 10, processed)

	docs, err := repo.ListDocuments(ctx, "industry", 0, 100)
	require.NoError(t, err)
	require.Len(t, docs, 10)
	for _, doc := range docs {
		require.Len(t, doc.Vector, 3)
		assert.InDelta(t, 1.0/3, doc.Vector[0], 1e-6)
	}

	untouched, err := repo.GetDocument(ctx, "past_issue", others[0].Id)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 1}, untouched.Vector, "other namespaces are not re-embedded")

	assert.Contains(t, buf.String(), "10/10", "should show completion")
}

func TestReembedder_EmptyNamespace(t *testing.T) {
	repo := setupTestDB(t)

	var buf bytes.Buffer
	reembedder, err := NewReembedder(repo, newUnnormalizedEmbedder(), DefaultConfig(), &buf)
	require.NoError(t, err)

	processed, err := reembedder.Run(context.Background(), "industry")
	require.NoError(t, err)
	assert.Zero(t, processed)
	assert.Contains(t, buf.String(), "0 documents")
}

func TestReembedder_InvalidNamespace(t *testing.T) {
	repo := setupTestDB(t)
	reembedder, err := NewReembedder(repo, newUnnormalizedEmbedder(), nil, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = reembedder.Run(context.Background(), "a:b")
	assert.ErrorIs(t, err, core.ErrInvalidNamespace)
}

func TestReembedder_ContextCancellation(t *testing.T) {
	repo := setupTestDB(t)
	addDocuments(t, repo, "industry", 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		result := make([][]float32, len(texts))
		for i := range result {
			result[i] = []float32{1, 0, 0}
		}
		return result, nil
	}

	reembedder, err := NewReembedder(repo, embedder, testConfig(3, 3), &bytes.Buffer{})
	require.NoError(t, err)

	processed, err := reembedder.Run(ctx, "industry")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 6, processed)
}

func TestReembedder_EmbeddingError(t *testing.T) {
	repo := setupTestDB(t)
	addDocuments(t, repo, "industry", 1)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("persistent error")
	}

	cfg := testConfig(1, 1)
	cfg.MaxRetries = 2
	reembedder, err := NewReembedder(repo, embedder, cfg, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = reembedder.Run(context.Background(), "industry")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persistent error")
	assert.Equal(t, 2, embedder.CallCount())
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Greater(t, config.BatchSize, 0, "batch size should be positive")
	assert.Greater(t, config.ReportInterval, 0, "report interval should be positive")
	assert.Greater(t, config.MaxRetries, 0, "max retries should be positive")
	assert.Greater(t, config.RetryDelay, time.Duration(0), "retry delay should be positive")
}

func TestReembedder_ProgressTracking(t *testing.T) {
	repo := setupTestDB(t)
	addDocuments(t, repo, "industry", 25)

	var buf bytes.Buffer
	reembedder, err := NewReembedder(repo, newUnnormalizedEmbedder(), testConfig(5, 10), &buf)
	require.NoError(t, err)

	_, err = reembedder.Run(context.Background(), "industry")
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Progress:", "should show progress")
	assert.Contains(t, output, "25/25", "should show final count")
}
