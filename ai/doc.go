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


// Package ai provides abstractions for the AI services issuematch depends on.
//
// Three services take part in matching a news issue to reference entities:
//
//   - Embedder: turns reference chunks and queries into vectors
//   - CandidateRanker: asks a chat model which reference names relate to an issue
//   - Explainer: asks a chat model to justify the merged shortlist
//
// AIProvider aggregates them so they share one Config.
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors in ai/openai return interface types:
//
//	provider, err := openai.NewProvider(config)  // returns ai.AIProvider
//
// Mock constructors return concrete types so tests can inject behavior and
// inspect call counts:
//
//	ranker := mock.NewMockRanker()
//	ranker.RankCandidatesFunc = func(ctx context.Context, req ai.RankRequest) ([]core.ModelCandidate, error) {
//	    return []core.ModelCandidate{{Name: "반도체", Score: 9}}, nil
//	}
//
// # Response Contract
//
// Ranker responses are validated at the boundary. A response that is not a
// JSON object with a "candidates" array, or that contains a candidate with an
// empty name or a score outside [1,10], fails with ErrMalformedResponse
// instead of reaching the merge step.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	candidates, err := provider.Ranker().RankCandidates(ctx, ai.RankRequest{
//	    Subject: ai.SubjectIndustry,
//	    Query:   issue.Query(),
//	    Names:   dict.Names(),
//	    TopK:    10,
//	})
package ai
