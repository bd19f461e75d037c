package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/poiesic/issuematch/ai"
	"github.com/poiesic/issuematch/core"
)

// MockRanker is a test double for ai.CandidateRanker.
type MockRanker struct {
	// RankCandidatesFunc is called by RankCandidates if set.
	// If nil, the first TopK names are returned with descending scores.
	RankCandidatesFunc func(ctx context.Context, req ai.RankRequest) ([]core.ModelCandidate, error)

	mu       sync.Mutex
	requests []ai.RankRequest
}

// NewMockRanker creates a mock ranker with default behavior.
func NewMockRanker() *MockRanker {
	return &MockRanker{}
}

// RankCandidates records the request and returns candidates.
func (m *MockRanker) RankCandidates(ctx context.Context, req ai.RankRequest) ([]core.ModelCandidate, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.RankCandidatesFunc != nil {
		return m.RankCandidatesFunc(ctx, req)
	}

	n := min(req.TopK, len(req.Names))
	candidates := make([]core.ModelCandidate, 0, n)
	for i := 0; i < n; i++ {
		candidates = append(candidates, core.ModelCandidate{
			Name:   req.Names[i],
			Score:  float64(max(10-i, 1)),
			Reason: fmt.Sprintf("mock reason %d", i+1),
		})
	}
	return candidates, nil
}

// CallCount returns the number of times RankCandidates was called.
func (m *MockRanker) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns every request received, in call order.
func (m *MockRanker) Requests() []ai.RankRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ai.RankRequest(nil), m.requests...)
}

// Reset clears the call history and custom function.
func (m *MockRanker) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.RankCandidatesFunc = nil
}
