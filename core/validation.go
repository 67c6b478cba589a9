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
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxMemoryNameLength is the longest accepted memory name.
	MaxMemoryNameLength = 64

	// MaxDocumentNameLength is the longest accepted document name.
	MaxDocumentNameLength = 1024
)

var (
	memoryNameRegex   = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)
	controlCharsRegex = regexp.MustCompile(`[\x00-\x1F\x7F]`)
)

// DocEmbedInput holds the canonical identifiers for an embed-doc request.
type DocEmbedInput struct {
	MemoryName   string
	DocumentName string
}

// ValidateDocEmbed normalizes and validates raw memory and document names.
//
// Validation rules:
//   - Both names are trimmed of surrounding whitespace
//   - Memory name must be 1-64 characters of letters, digits, '-' or '_',
//     starting with a letter or digit
//   - Document name must be 1-1024 characters with no control characters
//
// Errors wrap ErrInvalidMemoryName or ErrInvalidDocumentName and carry a
// message suitable for showing to the user.
func ValidateDocEmbed(memoryName, documentName string) (DocEmbedInput, error) {
	validMemoryName, err := ValidateMemoryName(memoryName)
	if err != nil {
		return DocEmbedInput{}, err
	}

	validDocumentName := strings.TrimSpace(documentName)
	switch {
	case validDocumentName == "":
		return DocEmbedInput{}, fmt.Errorf("%w: document name cannot be blank", ErrInvalidDocumentName)
	case len(validDocumentName) > MaxDocumentNameLength:
		return DocEmbedInput{}, fmt.Errorf("%w: document name cannot exceed %d characters", ErrInvalidDocumentName, MaxDocumentNameLength)
	case controlCharsRegex.MatchString(validDocumentName):
		return DocEmbedInput{}, fmt.Errorf("%w: document name cannot contain control characters", ErrInvalidDocumentName)
	}

	return DocEmbedInput{
		MemoryName:   validMemoryName,
		DocumentName: validDocumentName,
	}, nil
}

// ValidateMemoryName trims and validates a memory name.
func ValidateMemoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: memory name cannot be blank", ErrInvalidMemoryName)
	}
	if len(name) > MaxMemoryNameLength {
		return "", fmt.Errorf("%w: memory name cannot exceed %d characters", ErrInvalidMemoryName, MaxMemoryNameLength)
	}
	if !memoryNameRegex.MatchString(name) {
		return "", fmt.Errorf("%w: memory name must contain only letters, numbers, hyphens and underscores", ErrInvalidMemoryName)
	}
	return name, nil
}
