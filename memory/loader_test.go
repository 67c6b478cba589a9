package memory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/docmem/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func fileNames(files []core.MemoryFile) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}

func TestLoader_Managed(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(t.TempDir())
	_, err := registry.Create(ctx, &Config{Name: "notes"})
	require.NoError(t, err)

	docs := filepath.Join(registry.Dir("notes"), DocumentsDirName)
	writeFile(t, filepath.Join(docs, "intro.md"), "# Intro")
	writeFile(t, filepath.Join(docs, "guide.md"), "# Guide")
	writeFile(t, filepath.Join(docs, "empty.md"), "")
	writeFile(t, filepath.Join(docs, "image.png"), "binary")
	writeFile(t, filepath.Join(docs, "nested", "deep.md"), "not loaded for managed memories")

	files, err := NewLoader(registry).LoadMemoryFiles(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, []string{"guide.md", "intro.md"}, fileNames(files))

	guide := files[0]
	assert.Equal(t, "# Guide", guide.Content)
	assert.Equal(t, core.ContentHash([]byte("# Guide")), guide.ContentHash)
	assert.Equal(t, int64(7), guide.Size)
	assert.True(t, filepath.IsAbs(guide.Path))
}

func TestLoader_ManagedEmpty(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(t.TempDir())
	_, err := registry.Create(ctx, &Config{Name: "notes"})
	require.NoError(t, err)

	files, err := NewLoader(registry).LoadMemoryFiles(ctx, "notes")
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestLoader_MissingMemory(t *testing.T) {
	registry := NewRegistry(t.TempDir())

	_, err := NewLoader(registry).LoadMemoryFiles(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrMemoryNotFound)
}

func TestLoader_Tracked(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	tracked := filepath.Join(root, "repo")

	writeFile(t, filepath.Join(tracked, "README.md"), "readme")
	writeFile(t, filepath.Join(tracked, "docs", "guide.md"), "guide")
	writeFile(t, filepath.Join(tracked, "docs", "api", "v1.md"), "api")
	writeFile(t, filepath.Join(tracked, "docs", "notes.txt"), "txt")
	writeFile(t, filepath.Join(tracked, "node_modules", "pkg", "x.md"), "vendored")
	writeFile(t, filepath.Join(tracked, ".git", "HEAD.md"), "hidden")
	writeFile(t, filepath.Join(tracked, ".hidden.md"), "hidden file")

	registry := NewRegistry(filepath.Join(root, "memories"))
	_, err := registry.Create(ctx, &Config{
		Name: "code",
		Documents: &DocumentConfig{
			Dir:     tracked,
			Include: []string{"**.md"},
			Exclude: []string{"node_modules"},
		},
	})
	require.NoError(t, err)

	files, err := NewLoader(registry).LoadMemoryFiles(ctx, "code")
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "docs-api-v1.md", "docs-guide.md"}, fileNames(files))
}

func TestLoader_TrackedNamesResolve(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	tracked := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(tracked, "docs", "guide.md"), "guide")

	registry := NewRegistry(filepath.Join(root, "memories"))
	_, err := registry.Create(ctx, &Config{Name: "notes", Documents: &DocumentConfig{Dir: tracked}})
	require.NoError(t, err)

	files, err := NewLoader(registry).LoadMemoryFiles(ctx, "notes")
	require.NoError(t, err)

	file, ok := core.ResolveDocument("docs/guide.md", files)
	require.True(t, ok)
	assert.Equal(t, "guide", file.Content)
}

func TestLoader_TrackedDirMissing(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	registry := NewRegistry(root)
	_, err := registry.Create(ctx, &Config{Name: "code", Documents: &DocumentConfig{Dir: filepath.Join(root, "gone")}})
	require.NoError(t, err)

	_, err = NewLoader(registry).LoadMemoryFiles(ctx, "code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tracked directory")
}

func TestLoader_Options(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(t.TempDir())
	_, err := registry.Create(ctx, &Config{Name: "notes"})
	require.NoError(t, err)

	docs := filepath.Join(registry.Dir("notes"), DocumentsDirName)
	writeFile(t, filepath.Join(docs, "small.md"), "ok")
	writeFile(t, filepath.Join(docs, "large.md"), strings.Repeat("x", 100))
	writeFile(t, filepath.Join(docs, "data.LOG"), "log line")

	loader := NewLoader(registry, WithMaxFileSize(10), WithExtensions(".md", ".log"))
	files, err := loader.LoadMemoryFiles(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, []string{"data.LOG", "small.md"}, fileNames(files))
}
