package retrieval

import (
	"cmp"
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/issuematch/ai"
	"github.com/poiesic/issuematch/core"
	"github.com/poiesic/issuematch/document"
	"github.com/poiesic/issuematch/merge"
	"github.com/poiesic/issuematch/refdb"
	"github.com/poiesic/issuematch/storage"
)

// Searcher finds vector candidates for a query.
type Searcher struct {
	repository storage.DocumentRepository
	embedder   ai.Embedder
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(repository storage.DocumentRepository, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		repository: repository,
		embedder:   embedder,
		logger:     slog.Default().With("component", "retrieval"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindCandidates returns the vector candidates among the k documents of
// namespace closest to query. A nil dict disables the dictionary filter.
// Under a layout that requires a body, an empty body falls back to the
// dictionary description and then to document.MissingDescription.
func (s *Searcher) FindCandidates(ctx context.Context, namespace string, layout document.Layout, query string, k int, dict refdb.Lookup) ([]core.VectorCandidate, error) {
	return s.FindCandidatesWithMonitor(ctx, namespace, layout, query, k, dict, nil)
}

// FindCandidatesWithMonitor is FindCandidates with monitoring.
// The monitor receives callbacks at each stage of the search.
func (s *Searcher) FindCandidatesWithMonitor(ctx context.Context, namespace string, layout document.Layout, query string, k int, dict refdb.Lookup, monitor SearchMonitor) ([]core.VectorCandidate, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if k < 1 {
		return nil, ErrInvalidLimit
	}

	monitor.Start(namespace, query)

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}

	matches, err := s.repository.FindSimilar(ctx, namespace, core.NormalizeVector(embedding), k)
	if err != nil {
		s.logger.Error("error querying for similar documents", "namespace", namespace, "err", err)
		return nil, err
	}
	monitor.AfterSimilaritySearch(matches)

	candidates := make([]core.VectorCandidate, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, match := range matches {
		fields, ok := document.Parse(match.Document.Text, layout)
		if !ok {
			monitor.Skipped(match, SkipNoName)
			continue
		}
		if layout.RequireBody && !fields.HasBody {
			monitor.Skipped(match, SkipNoBody)
			continue
		}

		var dictDescription string
		if dict != nil {
			dictDescription, ok = dict.Description(fields.Name)
			if !ok {
				monitor.Skipped(match, SkipUnknownName)
				continue
			}
		}

		if seen[fields.Name] {
			monitor.Skipped(match, SkipDuplicate)
			continue
		}
		seen[fields.Name] = true

		description := dictDescription
		if layout.RequireBody {
			description = cmp.Or(fields.Body, dictDescription, document.MissingDescription)
		} else if fields.HasBody {
			description = fields.Body
		}

		candidates = append(candidates, core.VectorCandidate{
			Name:        fields.Name,
			Similarity:  Similarity(match.Distance),
			Description: description,
		})
	}

	s.logger.Debug("found vector candidates",
		"namespace", namespace,
		"matches", len(matches),
		"candidates", len(candidates))
	monitor.Finish(candidates)

	return candidates, nil
}

// Similarity converts a cosine distance into a percentage with one decimal.
func Similarity(distance float64) float64 {
	return merge.Round1((1 - distance) * 100)
}
