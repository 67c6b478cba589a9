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

// Package memory manages memories on disk: their memory.yaml configuration,
// registration, and the set of documents each one tracks.
//
// A workspace root holds one directory per memory:
//
//	<root>/<name>/memory.yaml
//	<root>/<name>/documents/...   (managed memories)
//
// A memory whose config sets documents.dir is custom-directory-tracked: its
// documents are every supported file under that directory, named by their
// relative path flattened with core.NormalizeDocumentName.
package memory
