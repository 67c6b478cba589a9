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


// Package storage provides the storage abstraction layer for docmem.
//
// This package defines the repository interface that decouples embedding
// persistence from the embedding generator and the search layer. The only
// backend today is BadgerDB (storage/badger), but callers depend on
// EmbeddingRepository so alternate stores can be substituted.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return concrete types alongside a
// compile-time assertion that they satisfy EmbeddingRepository:
//
//	repo, err := badger.NewEmbeddingRepository(backend)
//
// # Keys
//
// Every stored value is scoped by memory name, so one store can serve many
// memories. Document records and chunks of one document are always written in
// the same transaction.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
