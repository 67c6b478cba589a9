package search

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/poiesic/docmem/ai/mock"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/embedgen"
	"github.com/poiesic/docmem/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) *badger.EmbeddingRepository {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

// storeDocument embeds texts with embedder and stores them as one document's chunks.
func storeDocument(t *testing.T, repo *badger.EmbeddingRepository, embedder *mock.MockEmbedder, memory, name string, texts ...string) {
	t.Helper()
	ctx := context.Background()

	vectors, err := embedder.EmbedTexts(ctx, texts)
	require.NoError(t, err)

	chunks := make([]*core.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = &core.Chunk{
			Memory:   memory,
			Document: name,
			Index:    i,
			Text:     text,
			Vector:   embedgen.NormalizeVector(vectors[i]),
		}
	}
	record := &core.DocumentRecord{
		Memory:      memory,
		Name:        name,
		ContentHash: core.ContentHash([]byte(name)),
		Chunks:      len(chunks),
		EmbeddedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.PutDocument(ctx, record, chunks))
}

type recordingMonitor struct {
	started    bool
	candidates int
	verbatim   []string
	finished   int
}

func (m *recordingMonitor) Start(memory, query string) { m.started = true }
func (m *recordingMonitor) AfterSemanticSearch(candidates []*core.SearchResult) {
	m.candidates = len(candidates)
}
func (m *recordingMonitor) VerbatimHit(chunk *core.Chunk) {
	m.verbatim = append(m.verbatim, chunk.Text)
}
func (m *recordingMonitor) Finish(results []*core.SearchResult) { m.finished = len(results) }

func TestNewSearcher(t *testing.T) {
	repo := setupRepo(t)
	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(repo, provider)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
		assert.Equal(t, DefaultMinSimilarity, searcher.minSimilarity)
	})

	t.Run("with options", func(t *testing.T) {
		searcher, err := NewSearcher(repo, provider, WithLogger(slog.Default()), WithMinSimilarity(0.5))
		require.NoError(t, err)
		assert.Equal(t, float32(0.5), searcher.minSimilarity)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(repo, provider, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher.logger)
	})

	t.Run("nil repository", func(t *testing.T) {
		_, err := NewSearcher(nil, provider)
		assert.Equal(t, ErrRepositoryRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewSearcher(repo, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})
}

func TestSearch_EmptyMemory(t *testing.T) {
	repo := setupRepo(t)
	searcher, err := NewSearcher(repo, mock.NewMockProvider())
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "notes", "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_InvalidArguments(t *testing.T) {
	repo := setupRepo(t)
	searcher, err := NewSearcher(repo, mock.NewMockProvider())
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "notes", "   ", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = searcher.Search(context.Background(), "notes", "query", 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestSearch_ExactChunkRanksFirst(t *testing.T) {
	repo := setupRepo(t)
	embedder := mock.NewMockEmbedder()
	provider := mock.NewMockProviderWithEmbedder(embedder)

	storeDocument(t, repo, embedder, "notes", "guide.md",
		"Install the CLI with the package manager.",
		"Configure the embedding host before running embed.")
	storeDocument(t, repo, embedder, "notes", "intro.md", "Welcome to the project.")

	searcher, err := NewSearcher(repo, provider, WithMinSimilarity(-1))
	require.NoError(t, err)

	query := "Configure the embedding host before running embed."
	results, err := searcher.Search(context.Background(), "notes", query, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "guide.md", results[0].Chunk.Document)
	assert.Equal(t, 1, results[0].Chunk.Index)
	assert.InDelta(t, 1.0+float64(verbatimBoost), float64(results[0].Score), 1e-4)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestSearch_ScopedToMemory(t *testing.T) {
	repo := setupRepo(t)
	embedder := mock.NewMockEmbedder()
	provider := mock.NewMockProviderWithEmbedder(embedder)

	storeDocument(t, repo, embedder, "notes", "a.md", "shared text")
	storeDocument(t, repo, embedder, "other", "b.md", "shared text")

	searcher, err := NewSearcher(repo, provider, WithMinSimilarity(-1))
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "notes", "shared text", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "notes", results[0].Chunk.Memory)
}

func TestSearch_CollapsesDuplicatePassages(t *testing.T) {
	repo := setupRepo(t)
	embedder := mock.NewMockEmbedder()
	provider := mock.NewMockProviderWithEmbedder(embedder)

	storeDocument(t, repo, embedder, "notes", "a.md", "License: Apache 2.0", "alpha")
	storeDocument(t, repo, embedder, "notes", "b.md", "License: Apache 2.0", "beta")

	searcher, err := NewSearcher(repo, provider, WithMinSimilarity(-1))
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "notes", "License: Apache 2.0", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	var licenseHits int
	for _, r := range results {
		if r.Chunk.Text == "License: Apache 2.0" {
			licenseHits++
		}
	}
	assert.Equal(t, 1, licenseHits)
}

func TestSearch_Monitor(t *testing.T) {
	repo := setupRepo(t)
	embedder := mock.NewMockEmbedder()
	provider := mock.NewMockProviderWithEmbedder(embedder)

	storeDocument(t, repo, embedder, "notes", "a.md", "alpha beta", "gamma delta")

	searcher, err := NewSearcher(repo, provider, WithMinSimilarity(-1))
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	results, err := searcher.SearchWithMonitor(context.Background(), "notes", "alpha beta", 1, monitor)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.True(t, monitor.started)
	assert.Equal(t, 2, monitor.candidates)
	assert.Equal(t, []string{"alpha beta"}, monitor.verbatim)
	assert.Equal(t, 1, monitor.finished)
}

func TestSearch_EmbedderError(t *testing.T) {
	repo := setupRepo(t)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding unavailable")
	}

	searcher, err := NewSearcher(repo, mock.NewMockProviderWithEmbedder(embedder))
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "notes", "query", 3)
	assert.EqualError(t, err, "embedding unavailable")
}

func TestSearch_LogMonitor(t *testing.T) {
	repo := setupRepo(t)
	embedder := mock.NewMockEmbedder()
	storeDocument(t, repo, embedder, "notes", "a.md", "alpha")

	searcher, err := NewSearcher(repo, mock.NewMockProviderWithEmbedder(embedder), WithMinSimilarity(-1))
	require.NoError(t, err)

	results, err := searcher.SearchWithMonitor(context.Background(), "notes", "alpha", 1, &LogMonitor{})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestQueryTerms(t *testing.T) {
	tests := []struct {
		query string
		text  string
		want  bool
	}{
		{"install the CLI", "Install the **CLI** first.", true},
		{"install the CLI", "Install the server.", false},
		{"the and of", "the and of", false},
		{"", "anything", false},
		{"Embedding, host?", "set embedding host", true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, newQueryTerms(tt.query).matchedBy(tt.text))
		})
	}
}
