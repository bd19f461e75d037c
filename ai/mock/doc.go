// Package mock provides test doubles for the ai service interfaces.
//
// Every mock records its calls and accepts a function field that replaces
// the default behavior:
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{1, 0, 0}, nil
//	}
//
//	ranker := mock.NewMockRanker()
//	ranker.RankCandidatesFunc = func(ctx context.Context, req ai.RankRequest) ([]core.ModelCandidate, error) {
//	    return []core.ModelCandidate{{Name: "반도체", Score: 9}}, nil
//	}
//
// # Default Behavior
//
//   - MockEmbedder: deterministic unit vectors derived from an FNV hash of the text
//   - MockRanker: the first TopK names of the request, scored from 10 downwards
//   - MockExplainer: a one-line summary naming every candidate
//   - MockProvider: aggregates the three
//
// The mocks are safe for concurrent use.
package mock
