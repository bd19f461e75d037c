package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/issuematch/ai"
	"github.com/tmc/langchaingo/llms"
)

// Explainer implements ai.Explainer using OpenAI-compatible chat APIs.
type Explainer struct {
	client      llms.Model
	temperature float64
	logger      *slog.Logger
}

func newExplainer(config *ai.Config, client llms.Model) *Explainer {
	return &Explainer{
		client:      client,
		temperature: config.Temperature,
		logger:      slog.Default().With("component", "openai-explainer"),
	}
}

// NewExplainer creates a new explainer using the provided configuration.
//
// Returns ai.Explainer interface to enforce abstraction.
func NewExplainer(config *ai.Config) (ai.Explainer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newChatModel(config)
	if err != nil {
		return nil, err
	}
	return newExplainer(config, client), nil
}

// Explain returns the model's analysis of the shortlist as free text.
func (e *Explainer) Explain(ctx context.Context, req ai.ExplainRequest) (string, error) {
	if strings.TrimSpace(req.Query) == "" {
		return "", ai.ErrEmptyQuery
	}
	if len(req.Candidates) == 0 {
		return "", ai.ErrNoCandidates
	}
	system, human, err := buildExplanationPrompts(req)
	if err != nil {
		return "", err
	}

	text, ok, err := generate(ctx, e.client, system, human, llms.WithTemperature(e.temperature))
	if err != nil {
		e.logger.Error("failed to generate explanation", "err", err)
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: no choices returned", ai.ErrMalformedResponse)
	}

	e.logger.Debug("generated explanation", "subject", req.Subject, "length", len(text))
	return strings.TrimSpace(text), nil
}
