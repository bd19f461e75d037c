package analysis

import "github.com/poiesic/issuematch/core"

// Monitor provides hooks to observe the analysis of one issue.
type Monitor interface {
	Start(issue core.Issue)
	AfterVectorSearch(candidates []core.VectorCandidate)
	AfterModelRanking(candidates []core.ModelCandidate)
	AfterMerge(candidates []core.Candidate)
	AfterExplain(explanation string)
	Finish(report *Report)
}

type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.Issue)                         {}
func (n *noopMonitor) AfterVectorSearch(_ []core.VectorCandidate) {}
func (n *noopMonitor) AfterModelRanking(_ []core.ModelCandidate)  {}
func (n *noopMonitor) AfterMerge(_ []core.Candidate)              {}
func (n *noopMonitor) AfterExplain(_ string)                      {}
func (n *noopMonitor) Finish(_ *Report)                           {}
