package badger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) *EmbeddingRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func makeChunks(texts ...string) []*core.Chunk {
	chunks := make([]*core.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = &core.Chunk{Index: i, Text: text, Vector: []float32{1, 0, 0}}
	}
	return chunks
}

func TestPutAndGetDocument(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	record := &core.DocumentRecord{
		Memory:      "notes",
		Name:        "guide.md",
		ContentHash: "abc",
		EmbeddedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.PutDocument(ctx, record, makeChunks("one", "two", "three")))

	got, err := repo.GetDocument(ctx, "notes", "guide.md")
	require.NoError(t, err)
	assert.Equal(t, "abc", got.ContentHash)
	assert.Equal(t, 3, got.Chunks)
}

func TestGetDocument_NotFound(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.GetDocument(context.Background(), "notes", "missing.md")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPutDocument_ReplacesChunks(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	record := &core.DocumentRecord{Memory: "notes", Name: "guide.md", ContentHash: "v1"}
	require.NoError(t, repo.PutDocument(ctx, record, makeChunks("a", "b", "c", "d")))

	record = &core.DocumentRecord{Memory: "notes", Name: "guide.md", ContentHash: "v2"}
	require.NoError(t, repo.PutDocument(ctx, record, makeChunks("x")))

	results, err := repo.FindSimilar(ctx, "notes", []float32{1, 0, 0}, 0, 100)
	require.NoError(t, err)
	require.Len(t, results, 1, "stale chunks should be removed")
	assert.Equal(t, "x", results[0].Chunk.Text)

	got, err := repo.GetDocument(ctx, "notes", "guide.md")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.ContentHash)
	assert.Equal(t, 1, got.Chunks)
}

func TestPutDocument_InvalidRecord(t *testing.T) {
	repo := setupRepo(t)

	err := repo.PutDocument(context.Background(), &core.DocumentRecord{Name: "x"}, nil)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestListDocuments_ScopedByMemory(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for _, name := range []string{"b.md", "a.md", "c.md"} {
		require.NoError(t, repo.PutDocument(ctx, &core.DocumentRecord{Memory: "notes", Name: name}, makeChunks(name)))
	}
	require.NoError(t, repo.PutDocument(ctx, &core.DocumentRecord{Memory: "notes-archive", Name: "z.md"}, makeChunks("z")))

	docs, err := repo.ListDocuments(ctx, "notes")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "a.md", docs[0].Name)
	assert.Equal(t, "b.md", docs[1].Name)
	assert.Equal(t, "c.md", docs[2].Name)
}

func TestDeleteDocument(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.PutDocument(ctx, &core.DocumentRecord{Memory: "notes", Name: "a.md"}, makeChunks("1", "2")))
	require.NoError(t, repo.PutDocument(ctx, &core.DocumentRecord{Memory: "notes", Name: "b.md"}, makeChunks("3")))

	require.NoError(t, repo.DeleteDocument(ctx, "notes", "a.md"))

	_, err := repo.GetDocument(ctx, "notes", "a.md")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	results, err := repo.FindSimilar(ctx, "notes", []float32{1, 0, 0}, 0, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b.md", results[0].Chunk.Document)

	assert.ErrorIs(t, repo.DeleteDocument(ctx, "notes", "a.md"), storage.ErrNotFound)
}

func TestFindSimilar_RankingAndLimit(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	chunks := []*core.Chunk{
		{Index: 0, Text: "high", Vector: []float32{1, 0, 0}},
		{Index: 1, Text: "medium", Vector: []float32{0.7, 0.3, 0}},
		{Index: 2, Text: "low", Vector: []float32{0.3, 0.7, 0}},
		{Index: 3, Text: "none", Vector: nil},
	}
	require.NoError(t, repo.PutDocument(ctx, &core.DocumentRecord{Memory: "notes", Name: "doc.md"}, chunks))

	query := []float32{1, 0, 0}

	t.Run("threshold filters", func(t *testing.T) {
		results, err := repo.FindSimilar(ctx, "notes", query, 0.6, 10)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "high", results[0].Chunk.Text)
		assert.Equal(t, "medium", results[1].Chunk.Text)
	})

	t.Run("limit caps results", func(t *testing.T) {
		results, err := repo.FindSimilar(ctx, "notes", query, 0, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "high", results[0].Chunk.Text)
	})

	t.Run("other memory sees nothing", func(t *testing.T) {
		results, err := repo.FindSimilar(ctx, "other", query, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := repo.FindSimilar(ctx, "notes", query, 0, 0)
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	})
}

func TestPutDocument_ManyChunks(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	texts := make([]string, 500)
	for i := range texts {
		texts[i] = fmt.Sprintf("chunk %d", i)
	}
	require.NoError(t, repo.PutDocument(ctx, &core.DocumentRecord{Memory: "notes", Name: "big.md"}, makeChunks(texts...)))

	got, err := repo.GetDocument(ctx, "notes", "big.md")
	require.NoError(t, err)
	assert.Equal(t, 500, got.Chunks)
}

func TestRepository_ClosedBackend(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	_, err = repo.GetDocument(context.Background(), "notes", "a.md")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
