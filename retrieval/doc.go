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


// Package retrieval turns a query into vector candidates.
//
// The Searcher embeds the query, asks the document repository for the
// nearest documents of a namespace and converts each match into a
// core.VectorCandidate:
//   - the entity name is parsed from the document with a document.Layout
//   - matches without a name, or whose name is not in the reference
//     dictionary, are skipped
//   - a name seen before is skipped, so the closest document wins
//   - similarity is (1 - distance) * 100, rounded to one decimal
//   - the description is the document body, or the dictionary's description
//     when the document has no body
package retrieval
