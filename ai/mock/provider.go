package mock

import "github.com/poiesic/issuematch/ai"

// MockProvider is a test double for ai.AIProvider.
type MockProvider struct {
	embedder  *MockEmbedder
	ranker    *MockRanker
	explainer *MockExplainer
	closed    bool
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockEmbedder() and friends to reach the concrete types.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		ranker:    NewMockRanker(),
		explainer: NewMockExplainer(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
func NewMockProviderWithServices(embedder *MockEmbedder, ranker *MockRanker, explainer *MockExplainer) ai.AIProvider {
	return &MockProvider{
		embedder:  embedder,
		ranker:    ranker,
		explainer: explainer,
	}
}

func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

func (p *MockProvider) Ranker() ai.CandidateRanker {
	return p.ranker
}

func (p *MockProvider) Explainer() ai.Explainer {
	return p.explainer
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockRanker returns the underlying mock ranker for test assertions.
func (p *MockProvider) GetMockRanker() *MockRanker {
	return p.ranker
}

// GetMockExplainer returns the underlying mock explainer for test assertions.
func (p *MockProvider) GetMockExplainer() *MockExplainer {
	return p.explainer
}
