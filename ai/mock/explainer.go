package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/issuematch/ai"
)

// MockExplainer is a test double for ai.Explainer.
type MockExplainer struct {
	// ExplainFunc is called by Explain if set.
	ExplainFunc func(ctx context.Context, req ai.ExplainRequest) (string, error)

	mu       sync.Mutex
	requests []ai.ExplainRequest
}

// NewMockExplainer creates a mock explainer with default behavior.
func NewMockExplainer() *MockExplainer {
	return &MockExplainer{}
}

// Explain records the request and returns a summary naming each candidate.
func (m *MockExplainer) Explain(ctx context.Context, req ai.ExplainRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.ExplainFunc != nil {
		return m.ExplainFunc(ctx, req)
	}

	names := make([]string, len(req.Candidates))
	for i, c := range req.Candidates {
		names[i] = c.Name
	}
	return req.Subject.String() + ": " + strings.Join(names, ", "), nil
}

// CallCount returns the number of times Explain was called.
func (m *MockExplainer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns every request received, in call order.
func (m *MockExplainer) Requests() []ai.ExplainRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ai.ExplainRequest(nil), m.requests...)
}

// Reset clears the call history and custom function.
func (m *MockExplainer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.ExplainFunc = nil
}
