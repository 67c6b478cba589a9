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

// Package embeddoc resolves a document inside a memory and triggers embedding
// generation for it.
//
// A Pipeline runs a strictly ordered sequence of steps: identifier
// validation, memory existence check, document loading, name resolution and
// embedding generation. The first failing step ends the run with an *Error
// whose Kind is one of the core pipeline sentinels. Progress and the final
// outcome are surfaced through a Reporter.
//
// Collaborators are consumed through small interfaces so alternate registries,
// loaders and generators can be substituted:
//
//	pipeline, err := embeddoc.NewPipeline(registry, loader, generator, reporter)
//	status, err := pipeline.Run(ctx, embeddoc.Request{
//		MemoryName:   "notes",
//		DocumentName: "docs/guide.md",
//	})
package embeddoc
