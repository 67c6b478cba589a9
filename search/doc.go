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

// Package search retrieves the document chunks of a memory that best match a query.
//
// The Searcher embeds the query with the same embedder used for documents,
// normalizes it, and ranks stored chunks by cosine similarity. Chunks that
// contain every significant query term receive a small verbatim boost, so an
// exact phrase lookup ranks above a merely related passage.
package search
