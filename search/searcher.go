package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/docmem/ai"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/embedgen"
	"github.com/poiesic/docmem/storage"
)

const (
	// DefaultMinSimilarity is the lowest cosine similarity returned.
	DefaultMinSimilarity float32 = 0.25

	// verbatimBoost is added to chunks containing every query term.
	verbatimBoost float32 = 0.1

	// candidateFactor widens the semantic candidate pool before boosting.
	candidateFactor = 3
)

// Searcher ranks stored chunks of a memory against a free-text query.
type Searcher struct {
	repo          storage.EmbeddingRepository
	embedder      ai.Embedder
	minSimilarity float32
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMinSimilarity sets the similarity floor for results.
func WithMinSimilarity(min float32) Option {
	return func(s *Searcher) error {
		s.minSimilarity = min
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(repo storage.EmbeddingRepository, provider ai.AIProvider, opts ...Option) (*Searcher, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		repo:          repo,
		embedder:      provider.Embedder(),
		minSimilarity: DefaultMinSimilarity,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search returns up to limit chunks of memory ranked by relevance to query.
func (s *Searcher) Search(ctx context.Context, memory, query string, limit int) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, memory, query, limit, nil)
}

// SearchWithMonitor is Search with callbacks at each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, memory, query string, limit int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = noopMonitor{}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	monitor.Start(memory, query)

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	candidates, err := s.repo.FindSimilar(ctx, memory, embedgen.NormalizeVector(embedding), s.minSimilarity, limit*candidateFactor)
	if err != nil {
		s.logger.Error("error querying for similar chunks", "memory", memory, "err", err)
		return nil, err
	}
	monitor.AfterSemanticSearch(candidates)

	qt := newQueryTerms(query)
	seen := make(map[core.ID]bool, len(candidates))
	results := make([]*core.SearchResult, 0, len(candidates))
	for _, candidate := range candidates {
		// Identical passages stored under several documents are reported once
		contentID := core.IDFromContent(candidate.Chunk.Text)
		if seen[contentID] {
			continue
		}
		seen[contentID] = true

		score := candidate.Score
		if qt.matchedBy(candidate.Chunk.Text) {
			score += verbatimBoost
			monitor.VerbatimHit(candidate.Chunk)
		}
		results = append(results, &core.SearchResult{
			Chunk: candidate.Chunk,
			Score: score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	monitor.Finish(results)

	return results, nil
}
