package core

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateDocEmbed(t *testing.T) {
	tests := []struct {
		name         string
		memoryName   string
		documentName string
		want         DocEmbedInput
		wantErr      error
	}{
		{
			name:         "valid names",
			memoryName:   "notes",
			documentName: "guide.md",
			want:         DocEmbedInput{MemoryName: "notes", DocumentName: "guide.md"},
		},
		{
			name:         "names are trimmed",
			memoryName:   "  notes ",
			documentName: "\tdocs/guide.md\n",
			want:         DocEmbedInput{MemoryName: "notes", DocumentName: "docs/guide.md"},
		},
		{
			name:         "memory name with hyphen and underscore",
			memoryName:   "team-notes_2025",
			documentName: "a.md",
			want:         DocEmbedInput{MemoryName: "team-notes_2025", DocumentName: "a.md"},
		},
		{
			name:         "blank memory name",
			memoryName:   "   ",
			documentName: "guide.md",
			wantErr:      ErrInvalidMemoryName,
		},
		{
			name:         "memory name with slash",
			memoryName:   "team/notes",
			documentName: "guide.md",
			wantErr:      ErrInvalidMemoryName,
		},
		{
			name:         "memory name starting with hyphen",
			memoryName:   "-notes",
			documentName: "guide.md",
			wantErr:      ErrInvalidMemoryName,
		},
		{
			name:         "memory name too long",
			memoryName:   strings.Repeat("a", MaxMemoryNameLength+1),
			documentName: "guide.md",
			wantErr:      ErrInvalidMemoryName,
		},
		{
			name:         "blank document name",
			memoryName:   "notes",
			documentName: "  ",
			wantErr:      ErrInvalidDocumentName,
		},
		{
			name:         "document name with control character",
			memoryName:   "notes",
			documentName: "gui\x00de.md",
			wantErr:      ErrInvalidDocumentName,
		},
		{
			name:         "document name too long",
			memoryName:   "notes",
			documentName: strings.Repeat("d", MaxDocumentNameLength+1),
			wantErr:      ErrInvalidDocumentName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateDocEmbed(tt.memoryName, tt.documentName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ValidateDocEmbed() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateDocEmbed() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ValidateDocEmbed() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateMemoryName(t *testing.T) {
	got, err := ValidateMemoryName(" docs ")
	if err != nil {
		t.Fatalf("ValidateMemoryName() unexpected error = %v", err)
	}
	if got != "docs" {
		t.Errorf("ValidateMemoryName() = %q, want %q", got, "docs")
	}
}
