package mock

import (
	"context"
	"math"
	"testing"

	"github.com/poiesic/issuematch/ai"
	"github.com/poiesic/issuematch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	embedder := NewMockEmbedder()
	ctx := context.Background()

	a, err := embedder.EmbedText(ctx, "반도체")
	require.NoError(t, err)
	b, err := embedder.EmbedText(ctx, "반도체")
	require.NoError(t, err)
	c, err := embedder.EmbedText(ctx, "자동차")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, DefaultDimensions)

	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-4)
	assert.Equal(t, 3, embedder.CallCount())
}

func TestMockEmbedder_Batch(t *testing.T) {
	embedder := NewMockEmbedder()
	embedder.Dimensions = 8

	vectors, err := embedder.EmbedTexts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Len(t, vectors[0], 8)
	assert.Equal(t, DeterministicVector("b", 8), vectors[1])
	assert.Equal(t, []string{"a", "b"}, embedder.Texts())

	embedder.Reset()
	assert.Zero(t, embedder.CallCount())
	assert.Empty(t, embedder.Texts())
}

func TestMockRanker_Default(t *testing.T) {
	ranker := NewMockRanker()

	candidates, err := ranker.RankCandidates(context.Background(), ai.RankRequest{
		Subject: ai.SubjectIndustry,
		Query:   "q",
		Names:   []string{"a", "b", "c"},
		TopK:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, []core.ModelCandidate{
		{Name: "a", Score: 10, Reason: "mock reason 1"},
		{Name: "b", Score: 9, Reason: "mock reason 2"},
	}, candidates)
	assert.Equal(t, 1, ranker.CallCount())
	assert.Equal(t, 2, ranker.Requests()[0].TopK)
}

func TestMockExplainer_Default(t *testing.T) {
	explainer := NewMockExplainer()

	text, err := explainer.Explain(context.Background(), ai.ExplainRequest{
		Subject:    ai.SubjectPastIssue,
		Query:      "q",
		Candidates: []core.Candidate{{Name: "x"}, {Name: "y"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "past_issue: x, y", text)
}

func TestMockProvider(t *testing.T) {
	provider := NewMockProvider().(*MockProvider)

	assert.Same(t, provider.GetMockEmbedder(), provider.Embedder())
	assert.Same(t, provider.GetMockRanker(), provider.Ranker())
	assert.Same(t, provider.GetMockExplainer(), provider.Explainer())

	require.NoError(t, provider.Close())
	assert.True(t, provider.Closed())
}
