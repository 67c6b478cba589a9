package core

import "strings"

// NormalizeDocumentName flattens a document identifier into the key documents
// are stored under. Every '/' becomes '-', then a single leading run of '.'
// and '-' characters is removed, so "docs/guide.md" and "../docs/guide.md"
// both map to "docs-guide.md".
//
// The transform is idempotent.
func NormalizeDocumentName(name string) string {
	flat := strings.ReplaceAll(name, "/", "-")
	return strings.TrimLeft(flat, ".-")
}

// ResolveDocument returns the first file whose Name equals the normalized
// document name. Comparison is exact and case-sensitive. The boolean is false
// when nothing matches.
func ResolveDocument(documentName string, files []MemoryFile) (MemoryFile, bool) {
	key := NormalizeDocumentName(documentName)
	for _, file := range files {
		if file.Name == key {
			return file, true
		}
	}
	return MemoryFile{}, false
}
