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


package merge

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/poiesic/issuematch/core"
	"github.com/poiesic/issuematch/refdb"
)

const (
	DefaultTopN         = 3
	DefaultVectorWeight = 0.3
	DefaultModelWeight  = 0.7

	// similarityScale maps a [0,100] similarity onto the model's [0,10] scale.
	similarityScale = 10.0
)

// Merger ranks the union of vector and model candidates.
type Merger struct {
	topN         int
	vectorWeight float64
	modelWeight  float64
}

// Option configures a Merger.
type Option func(*Merger) error

// WithTopN sets how many candidates Merge returns.
// Default is 3.
func WithTopN(n int) Option {
	return func(m *Merger) error {
		if n < 1 {
			return ErrInvalidTopN
		}
		m.topN = n
		return nil
	}
}

// WithWeights sets the weight of the scaled vector similarity and of the
// model score in the final score.
// Default is 0.3 and 0.7.
func WithWeights(vectorWeight, modelWeight float64) Option {
	return func(m *Merger) error {
		if vectorWeight < 0 || modelWeight < 0 || (vectorWeight == 0 && modelWeight == 0) {
			return ErrInvalidWeights
		}
		m.vectorWeight = vectorWeight
		m.modelWeight = modelWeight
		return nil
	}
}

// New creates a Merger.
func New(opts ...Option) (*Merger, error) {
	m := &Merger{
		topN:         DefaultTopN,
		vectorWeight: DefaultVectorWeight,
		modelWeight:  DefaultModelWeight,
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

var defaultMerger = &Merger{
	topN:         DefaultTopN,
	vectorWeight: DefaultVectorWeight,
	modelWeight:  DefaultModelWeight,
}

// Merge ranks candidates with the default shortlist size and weights.
func Merge(vectorCandidates []core.VectorCandidate, modelCandidates []core.ModelCandidate, dict refdb.Lookup) []core.Candidate {
	return defaultMerger.Merge(vectorCandidates, modelCandidates, dict)
}

// Merge unions the two candidate lists by name, scores every entry and returns
// the best ones, highest final score first. Equal scores keep the order in
// which names were first seen, vector candidates before model-only ones.
//
// Names absent from dict are dropped. A model candidate whose name was already
// proposed by similarity search fills in that entry's model score and reason.
// The result is empty, never nil, when nothing survives.
func (m *Merger) Merge(vectorCandidates []core.VectorCandidate, modelCandidates []core.ModelCandidate, dict refdb.Lookup) []core.Candidate {
	merged := make([]core.Candidate, 0, len(vectorCandidates)+len(modelCandidates))
	index := make(map[string]int, len(vectorCandidates)+len(modelCandidates))

	for _, vc := range vectorCandidates {
		if dict == nil {
			break
		}
		if _, known := dict.Description(vc.Name); !known {
			continue
		}
		candidate := core.Candidate{
			Name:             vc.Name,
			VectorSimilarity: vc.Similarity,
			Description:      vc.Description,
		}
		if i, seen := index[vc.Name]; seen {
			merged[i] = candidate
			continue
		}
		index[vc.Name] = len(merged)
		merged = append(merged, candidate)
	}

	for _, mc := range modelCandidates {
		if i, seen := index[mc.Name]; seen {
			merged[i].ModelScore = mc.Score
			merged[i].ModelReason = mc.Reason
			continue
		}
		if dict == nil {
			continue
		}
		description, known := dict.Description(mc.Name)
		if !known {
			continue
		}
		index[mc.Name] = len(merged)
		merged = append(merged, core.Candidate{
			Name:        mc.Name,
			ModelScore:  mc.Score,
			ModelReason: mc.Reason,
			Description: description,
		})
	}

	for i := range merged {
		merged[i].FinalScore = m.score(merged[i].VectorSimilarity, merged[i].ModelScore)
	}

	slices.SortStableFunc(merged, func(a, b core.Candidate) int {
		return cmp.Compare(b.FinalScore, a.FinalScore)
	})

	if len(merged) > m.topN {
		merged = merged[:m.topN]
	}
	return merged
}

// Shortlist ranks vector candidates by similarity alone and returns the best
// ones. Names absent from dict are dropped and a repeated name keeps its first
// entry. FinalScore is the similarity on the ten-point scale.
func (m *Merger) Shortlist(vectorCandidates []core.VectorCandidate, dict refdb.Lookup) []core.Candidate {
	shortlist := make([]core.Candidate, 0, min(len(vectorCandidates), m.topN))
	if dict == nil {
		return shortlist
	}

	seen := make(map[string]bool, len(vectorCandidates))
	for _, vc := range vectorCandidates {
		if seen[vc.Name] {
			continue
		}
		if _, known := dict.Description(vc.Name); !known {
			continue
		}
		seen[vc.Name] = true
		shortlist = append(shortlist, core.Candidate{
			Name:             vc.Name,
			VectorSimilarity: vc.Similarity,
			Description:      vc.Description,
			FinalScore:       Round1(vc.Similarity / similarityScale),
		})
	}

	slices.SortStableFunc(shortlist, func(a, b core.Candidate) int {
		return cmp.Compare(b.VectorSimilarity, a.VectorSimilarity)
	})
	if len(shortlist) > m.topN {
		shortlist = shortlist[:m.topN]
	}
	return shortlist
}

func (m *Merger) score(similarity, modelScore float64) float64 {
	return Round1(similarity/similarityScale*m.vectorWeight + modelScore*m.modelWeight)
}

// Round1 rounds the exact binary value of x to one decimal place. Exact
// halves go to the even digit, so 2.25 becomes 2.2.
func Round1(x float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 1, 64), 64)
	return v
}
