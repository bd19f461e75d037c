package retrieval

import "github.com/poiesic/issuematch/core"

// SkipReason says why a similarity match produced no candidate.
type SkipReason string

const (
	SkipNoName      SkipReason = "no_name"
	SkipNoBody      SkipReason = "no_body"
	SkipUnknownName SkipReason = "unknown_name"
	SkipDuplicate   SkipReason = "duplicate"
)

// SearchMonitor provides hooks to observe a candidate search.
type SearchMonitor interface {
	Start(namespace, query string)
	AfterSimilaritySearch(matches []*core.SimilarityMatch)
	Skipped(match *core.SimilarityMatch, reason SkipReason)
	Finish(candidates []core.VectorCandidate)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                               {}
func (n *noopMonitor) AfterSimilaritySearch(_ []*core.SimilarityMatch) {}
func (n *noopMonitor) Skipped(_ *core.SimilarityMatch, _ SkipReason)   {}
func (n *noopMonitor) Finish(_ []core.VectorCandidate)                 {}
