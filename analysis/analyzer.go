package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/issuematch/ai"
	"github.com/poiesic/issuematch/core"
	"github.com/poiesic/issuematch/document"
	"github.com/poiesic/issuematch/merge"
	"github.com/poiesic/issuematch/refdb"
)

// CandidateSearcher finds vector candidates for a query.
// *retrieval.Searcher implements it.
type CandidateSearcher interface {
	FindCandidates(ctx context.Context, namespace string, layout document.Layout, query string, k int, dict refdb.Lookup) ([]core.VectorCandidate, error)
}

// Dictionary is the trusted reference set.
type Dictionary interface {
	refdb.Lookup
	Names() []string
}

// Report is the outcome of analysing one issue.
type Report struct {
	Issue            core.Issue
	Subject          ai.Subject
	VectorCandidates []core.VectorCandidate
	ModelCandidates  []core.ModelCandidate
	Candidates       []core.Candidate // Merged shortlist, best first
	Explanation      string
	Skipped          bool // No candidate survived the merge
	VectorOnly       bool // Candidates were shortlisted by similarity alone
}

// Analyzer runs the relevance pipeline for one profile.
type Analyzer struct {
	searcher  CandidateSearcher
	ranker    ai.CandidateRanker
	explainer ai.Explainer
	dict      Dictionary
	profile   Profile
	merger    *merge.Merger
	monitor   Monitor
	logger    *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithMerger replaces the default merger (top 3, weights 0.3/0.7).
func WithMerger(merger *merge.Merger) Option {
	return func(a *Analyzer) error {
		if merger != nil {
			a.merger = merger
		}
		return nil
	}
}

// WithMonitor sets a monitor that observes every issue.
func WithMonitor(monitor Monitor) Option {
	return func(a *Analyzer) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		a.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAnalyzer creates an analyzer for profile. ranker may be nil for a
// similarity-only profile.
func NewAnalyzer(searcher CandidateSearcher, ranker ai.CandidateRanker, explainer ai.Explainer, dict Dictionary, profile Profile, opts ...Option) (*Analyzer, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if ranker == nil && !profile.VectorOnly {
		return nil, ErrRankerRequired
	}
	if explainer == nil {
		return nil, ErrExplainerRequired
	}
	if dict == nil {
		return nil, ErrDictionaryRequired
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	merger, err := merge.New()
	if err != nil {
		return nil, err
	}

	a := &Analyzer{
		searcher:  searcher,
		ranker:    ranker,
		explainer: explainer,
		dict:      dict,
		profile:   profile,
		merger:    merger,
		monitor:   &noopMonitor{},
		logger:    slog.Default().With("component", "analysis", "subject", profile.Subject.String()),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// AnalyzeIssue runs the pipeline for one issue.
func (a *Analyzer) AnalyzeIssue(ctx context.Context, issue core.Issue) (*Report, error) {
	if err := core.ValidateIssue(&issue); err != nil {
		return nil, err
	}

	a.monitor.Start(issue)
	query := issue.Query()
	report := &Report{Issue: issue, Subject: a.profile.Subject}

	vectorCandidates, err := a.searcher.FindCandidates(ctx, a.profile.Namespace, a.profile.Layout, query, a.profile.VectorK, a.dict)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	report.VectorCandidates = vectorCandidates
	a.monitor.AfterVectorSearch(vectorCandidates)

	if a.profile.VectorOnly {
		report.Candidates = a.merger.Shortlist(vectorCandidates, a.dict)
	} else {
		modelCandidates, err := a.ranker.RankCandidates(ctx, ai.RankRequest{
			Subject: a.profile.Subject,
			Query:   query,
			Names:   a.dict.Names(),
			TopK:    a.profile.ModelTopK,
		})
		if err != nil {
			return nil, fmt.Errorf("model ranking: %w", err)
		}
		report.ModelCandidates = modelCandidates
		a.monitor.AfterModelRanking(modelCandidates)

		report.Candidates = a.merger.Merge(vectorCandidates, modelCandidates, a.dict)
	}
	report.VectorOnly = a.profile.VectorOnly
	a.monitor.AfterMerge(report.Candidates)

	if len(report.Candidates) == 0 {
		a.logger.Info("no related references found", "issue", issue.Number)
		report.Skipped = true
		a.monitor.Finish(report)
		return report, nil
	}

	explanation, err := a.explainer.Explain(ctx, ai.ExplainRequest{
		Subject:    a.profile.Subject,
		Query:      query,
		Candidates: report.Candidates,
		VectorOnly: a.profile.VectorOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("explanation: %w", err)
	}
	report.Explanation = explanation
	a.monitor.AfterExplain(explanation)

	a.logger.Debug("analysed issue",
		"issue", issue.Number,
		"vector_candidates", len(vectorCandidates),
		"model_candidates", len(report.ModelCandidates),
		"selected", len(report.Candidates))
	a.monitor.Finish(report)
	return report, nil
}

// AnalyzeAll analyses issues in order and stops at the first failure. The
// reports of the issues completed before the failure are returned with the
// error.
func (a *Analyzer) AnalyzeAll(ctx context.Context, issues []core.Issue) ([]*Report, error) {
	reports := make([]*Report, 0, len(issues))
	for i, issue := range issues {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		a.logger.Info("analysing issue", "issue", issue.Number, "position", i+1, "total", len(issues))
		report, err := a.AnalyzeIssue(ctx, issue)
		if err != nil {
			a.logger.Error("analysis failed", "issue", issue.Number, "err", err)
			return reports, fmt.Errorf("issue %d: %w", issue.Number, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
