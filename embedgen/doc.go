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

// Package embedgen computes and persists embeddings for memory documents.
//
// A Generator splits each document into overlapping chunks, embeds the
// chunks in batches with retry and exponential backoff, normalizes the
// vectors to unit length, and replaces the document's stored chunks.
// Documents whose content hash matches the stored record are skipped unless
// overwrite is requested. Multiple documents are embedded concurrently on a
// bounded worker pool.
package embedgen
