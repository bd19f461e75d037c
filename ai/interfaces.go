// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"context"

	"github.com/poiesic/issuematch/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// CandidateRanker asks a language model which reference names relate to a
// query.
type CandidateRanker interface {
	// RankCandidates returns the model's candidates in response order.
	// Every candidate has a non-empty name and a score in [1,10]; a response
	// that breaks this contract fails with ErrMalformedResponse. Names are
	// not checked against the reference set.
	RankCandidates(ctx context.Context, req RankRequest) ([]core.ModelCandidate, error)
}

// Explainer produces a free-text analysis of a merged shortlist.
type Explainer interface {
	Explain(ctx context.Context, req ExplainRequest) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Ranker returns the candidate ranking service.
	Ranker() CandidateRanker

	// Explainer returns the explanation service.
	Explainer() Explainer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
