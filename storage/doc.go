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


// Package storage provides the storage abstraction layer for issuematch.
//
// The vector store keeps every embedded chunk of a reference table as a
// core.Document. Documents are grouped by namespace ("industry",
// "past_issue") and identified by a content hash, so ingesting the same
// table twice overwrites instead of duplicating.
//
// # Constructor Return Type Pattern
//
// Public constructors return the DocumentRepository interface:
//
//	repo, err := badger.NewDocumentRepository(backend)  // storage.DocumentRepository
//
// Internal helpers in implementation packages may return concrete types.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	repo, err := badger.NewDocumentRepository(backend)
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//
// # Serialization
//
// Documents are encoded with mus-go serializers defined in package core.
// Vectors are stored as fixed-width float32 values behind a length prefix.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
