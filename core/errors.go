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

import "errors"

// Pipeline failure kinds for the embed-doc operation.
var (
	// ErrMissingArgument indicates a required identifier was not supplied.
	ErrMissingArgument = errors.New("missing argument")

	// ErrValidationFailure indicates an identifier failed the schema rules.
	ErrValidationFailure = errors.New("validation failure")

	// ErrMemoryNotFound indicates the named memory is not registered.
	ErrMemoryNotFound = errors.New("memory not found")

	// ErrLoadFailure indicates the memory's documents could not be read.
	ErrLoadFailure = errors.New("load failure")

	// ErrEmptyMemory indicates the memory has no embeddable documents.
	ErrEmptyMemory = errors.New("empty memory")

	// ErrDocumentNotFound indicates name resolution found no matching document.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrGenerationFailure indicates the embedding step failed.
	ErrGenerationFailure = errors.New("generation failure")
)

// Identifier validation errors
var (
	// ErrInvalidMemoryName indicates a memory name breaks the naming rules.
	ErrInvalidMemoryName = errors.New("invalid memory name")

	// ErrInvalidDocumentName indicates a document name breaks the naming rules.
	ErrInvalidDocumentName = errors.New("invalid document name")
)
