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


package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

type ID uint64

func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentID derives the storage ID for a chunk of text within a namespace.
// The same text in two namespaces yields two different IDs.
func DocumentID(namespace, text string) ID {
	return IDFromContent(namespace + "\x00" + text)
}

// Issue is one news issue as produced by the crawler.
type Issue struct {
	Number  int
	Title   string
	Content string
}

// Query returns the text used for similarity search and model ranking.
func (i *Issue) Query() string {
	return i.Title + "\n" + i.Content
}

// Document is one embedded chunk of a reference table row.
type Document struct {
	Id         ID
	Namespace  string    // Reference set the chunk belongs to (e.g., "industry")
	Text       string    // "Label: value" lines, see package document
	Vector     []float32 // Embedding vector (populated by ingestion)
	InsertedAt time.Time
	UpdatedAt  time.Time
}

type SimilarityMatch struct {
	Document *Document
	Distance float64 // 1 - cosine similarity, clamped to [0,1]
}

// VectorCandidate is a reference entity returned by similarity search.
type VectorCandidate struct {
	Name        string
	Similarity  float64 // Percentage in [0,100]
	Description string
}

// ModelCandidate is a reference entity proposed by the language model.
type ModelCandidate struct {
	Name   string
	Score  float64 // 1-10
	Reason string
}

// Candidate is a merged, scored reference entity for one query.
type Candidate struct {
	Name             string
	VectorSimilarity float64
	ModelScore       float64
	ModelReason      string
	Description      string
	FinalScore       float64
}
