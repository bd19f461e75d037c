package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/issuematch/ai"
	"github.com/poiesic/issuematch/core"
	"github.com/tmc/langchaingo/llms"
)

// Ranker implements ai.CandidateRanker using OpenAI-compatible chat APIs.
type Ranker struct {
	client        llms.Model
	temperature   float64
	parseAttempts int
	logger        *slog.Logger
}

// rankedCandidate matches one entry of the model's JSON answer. Only the
// name field for the request's subject is read.
type rankedCandidate struct {
	Industry string   `json:"industry"`
	Issue    string   `json:"issue"`
	Score    *float64 `json:"score"`
	Reason   string   `json:"reason"`
}

// ranking is the wrapper structure for the model's JSON answer.
type ranking struct {
	Candidates *[]rankedCandidate `json:"candidates"`
}

// newRanker is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newRanker(config *ai.Config, client llms.Model) *Ranker {
	return &Ranker{
		client:        client,
		temperature:   config.Temperature,
		parseAttempts: config.MaxParseAttempts,
		logger:        slog.Default().With("component", "openai-ranker"),
	}
}

// NewRanker creates a new candidate ranker using the provided configuration.
//
// Returns ai.CandidateRanker interface to enforce abstraction.
func NewRanker(config *ai.Config) (ai.CandidateRanker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newChatModel(config)
	if err != nil {
		return nil, err
	}
	return newRanker(config, client), nil
}

// RankCandidates asks the model for the TopK reference names most related to
// the query. Unparseable JSON is retried; a transport error or a response
// that breaks the schema is returned immediately.
func (r *Ranker) RankCandidates(ctx context.Context, req ai.RankRequest) ([]core.ModelCandidate, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ai.ErrEmptyQuery
	}
	system, human, err := buildRankingPrompts(req)
	if err != nil {
		return nil, err
	}

	var result ranking
	var lastErr error
	for attempt := 0; attempt < r.parseAttempts; attempt++ {
		text, ok, err := generate(ctx, r.client, system, human,
			llms.WithTemperature(r.temperature), llms.WithJSONMode())
		if err != nil {
			r.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: no choices returned", ai.ErrMalformedResponse)
		}

		responseText := repairJSON(extractJSON(text))

		result = ranking{}
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			r.logger.Warn("error parsing ranker response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		r.logger.Error("failed to parse ranker response after retries", "err", lastErr)
		return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, lastErr)
	}

	candidates, err := validateRanking(result, req.Subject)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("ranked candidates",
		"subject", req.Subject,
		"requested", req.TopK,
		"returned", len(candidates))
	return candidates, nil
}

// validateRanking converts the decoded answer into model candidates, failing
// on the first entry that breaks the contract.
func validateRanking(result ranking, subject ai.Subject) ([]core.ModelCandidate, error) {
	if result.Candidates == nil {
		return nil, fmt.Errorf("%w: missing candidates array", ai.ErrMalformedResponse)
	}

	candidates := make([]core.ModelCandidate, 0, len(*result.Candidates))
	for i, rc := range *result.Candidates {
		name := rc.Industry
		if subject == ai.SubjectPastIssue {
			name = rc.Issue
		}
		name = strings.TrimSpace(name)

		if name == "" {
			return nil, fmt.Errorf("%w: candidate %d has no %q", ai.ErrMalformedResponse, i, subject.NameField())
		}
		if rc.Score == nil {
			return nil, fmt.Errorf("%w: candidate %q has no score", ai.ErrMalformedResponse, name)
		}
		if *rc.Score < 1 || *rc.Score > 10 {
			return nil, fmt.Errorf("%w: candidate %q score %v outside [1,10]", ai.ErrMalformedResponse, name, *rc.Score)
		}

		candidates = append(candidates, core.ModelCandidate{
			Name:   name,
			Score:  *rc.Score,
			Reason: rc.Reason,
		})
	}
	return candidates, nil
}
