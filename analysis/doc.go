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


// Package analysis runs the per-issue relevance pipeline.
//
// For each issue the Analyzer:
//  1. searches the profile's namespace for vector candidates
//  2. asks the ranker for model candidates among the reference names
//  3. merges both lists against the reference dictionary
//  4. asks the explainer to justify the merged shortlist
//
// An issue whose merged shortlist is empty is reported as skipped and the
// explainer is not called. Issues are processed one at a time; the first
// collaborator failure stops AnalyzeAll.
package analysis
