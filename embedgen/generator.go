package embedgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/docmem/ai"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/storage"
)

// Config holds generator tuning.
type Config struct {
	ChunkSize    int           // Maximum characters per chunk
	ChunkOverlap int           // Characters shared between consecutive chunks
	BatchSize    int           // Chunks per embedding request
	PoolSize     int           // Documents embedded concurrently
	MaxRetries   int           // Attempts per embedding request
	RetryDelay   time.Duration // Base delay for exponential backoff
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		BatchSize:    64,
		PoolSize:     max(runtime.NumCPU()/2, 1),
		MaxRetries:   3,
		RetryDelay:   500 * time.Millisecond,
	}
}

// Validate checks that the configuration can be used.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", ErrInvalidConfig)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk overlap must be in [0, chunk size)", ErrInvalidConfig)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", ErrInvalidConfig)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrInvalidMaxAttempts)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Request describes one generation run.
type Request = core.EmbeddingRequest

// Option configures a Generator.
type Option func(*Generator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// WithProgressWriter enables per-document progress output for runs with
// more than one document.
func WithProgressWriter(w io.Writer) Option {
	return func(g *Generator) error {
		g.progress = w
		return nil
	}
}

// Generator embeds memory documents and stores their chunks.
type Generator struct {
	repo     storage.EmbeddingRepository
	embedder ai.Embedder
	config   Config
	chunker  *chunker
	pool     *ants.Pool
	logger   *slog.Logger
	progress io.Writer
	now      func() time.Time
}

// NewGenerator creates a generator. Call Release when done.
func NewGenerator(repo storage.EmbeddingRepository, embedder ai.Embedder, config Config, opts ...Option) (*Generator, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config.PoolSize < 1 {
		config.PoolSize = max(runtime.NumCPU()/2, 1)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(config.PoolSize)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		repo:     repo,
		embedder: embedder,
		config:   config,
		chunker:  newChunker(config.ChunkSize, config.ChunkOverlap),
		pool:     pool,
		logger:   slog.Default(),
		now:      func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		if optErr := opt(g); optErr != nil {
			g.Release()
			return nil, optErr
		}
	}

	return g, nil
}

// Release frees the worker pool. The generator should not be used afterwards.
func (g *Generator) Release() {
	if g.pool != nil {
		g.pool.Release()
	}
}

type documentOutcome struct {
	skipped bool
	chunks  int
}

// GenerateEmbeddings embeds every file of the request and returns a one-line
// status summary. Files sharing a name are embedded once, the first one
// winning. The first failing document cancels the rest of the run.
func (g *Generator) GenerateEmbeddings(ctx context.Context, req Request) (string, error) {
	logger := g.logger.With("memory", req.MemoryName)
	files := uniqueFiles(req.Files)
	if dropped := len(req.Files) - len(files); dropped > 0 {
		logger.Warn("ignoring documents with duplicate names", "count", dropped)
	}
	logger.Debug("generating embeddings", "documents", len(files), "overwrite", req.Overwrite, "prune", req.Prune)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var tracker *ProgressTracker
	if g.progress != nil && len(files) > 1 {
		tracker = NewProgressTracker(g.progress, len(files))
		tracker.Start()
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		embedded int
		skipped  int
		chunks   int
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	for i := range files {
		file := files[i]
		wg.Add(1)
		submitErr := g.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}

			outcome, err := g.embedDocument(ctx, req.MemoryName, file, req.Overwrite)
			if err != nil {
				fail(fmt.Errorf("%w: document %s: %w", ErrGenerationFailed, file.Name, err))
				return
			}

			mu.Lock()
			if outcome.skipped {
				skipped++
			} else {
				embedded++
				chunks += outcome.chunks
			}
			mu.Unlock()

			if tracker != nil {
				tracker.DocumentDone(outcome.chunks)
			}
		})
		if submitErr != nil {
			wg.Done()
			fail(fmt.Errorf("%w: %w", ErrGenerationFailed, submitErr))
			break
		}
	}
	wg.Wait()

	if tracker != nil {
		tracker.Finish()
	}

	if firstErr != nil {
		logger.Error("embedding generation failed", "err", firstErr)
		return "", firstErr
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	removed := 0
	if req.Prune {
		var err error
		if removed, err = g.prune(ctx, req.MemoryName, files); err != nil {
			logger.Error("pruning stale documents failed", "err", err)
			return "", fmt.Errorf("%w: pruning: %w", ErrGenerationFailed, err)
		}
	}

	logger.Info("embedding generation complete", "embedded", embedded, "skipped", skipped, "chunks", chunks, "removed", removed)
	status := statusMessage(req.MemoryName, embedded, skipped, chunks)
	if removed > 0 {
		status += fmt.Sprintf(" Removed %d stale document(s).", removed)
	}
	return status, nil
}

func statusMessage(memory string, embedded, skipped, chunks int) string {
	if embedded == 0 {
		return fmt.Sprintf("No new documents to embed in memory '%s'. Use --overwrite to regenerate embeddings.", memory)
	}
	status := fmt.Sprintf("Embeddings generated for %d document(s) (%d chunks) in memory '%s'.", embedded, chunks, memory)
	if skipped > 0 {
		status += fmt.Sprintf(" Skipped %d unchanged document(s); use --overwrite to regenerate.", skipped)
	}
	return status
}

// uniqueFiles keeps the first file of each name, preserving order.
// Concurrent writes under one document key would interleave their chunks.
func uniqueFiles(files []core.MemoryFile) []core.MemoryFile {
	seen := make(map[string]bool, len(files))
	unique := make([]core.MemoryFile, 0, len(files))
	for _, file := range files {
		if seen[file.Name] {
			continue
		}
		seen[file.Name] = true
		unique = append(unique, file)
	}
	return unique
}

// prune deletes stored documents of memory that are not among files.
func (g *Generator) prune(ctx context.Context, memory string, files []core.MemoryFile) (int, error) {
	current := make(map[string]bool, len(files))
	for _, file := range files {
		current[file.Name] = true
	}

	records, err := g.repo.ListDocuments(ctx, memory)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, record := range records {
		if current[record.Name] {
			continue
		}
		if err := g.repo.DeleteDocument(ctx, memory, record.Name); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return removed, err
		}
		g.logger.Debug("removed stale document", "memory", memory, "document", record.Name)
		removed++
	}
	return removed, nil
}

// embedDocument embeds a single file unless its stored record is current.
func (g *Generator) embedDocument(ctx context.Context, memory string, file core.MemoryFile, overwrite bool) (documentOutcome, error) {
	contentHash := file.ContentHash
	if contentHash == "" {
		contentHash = core.ContentHash([]byte(file.Content))
	}

	if !overwrite {
		existing, err := g.repo.GetDocument(ctx, memory, file.Name)
		switch {
		case err == nil && existing.ContentHash == contentHash:
			g.logger.Debug("document unchanged, skipping", "memory", memory, "document", file.Name)
			return documentOutcome{skipped: true}, nil
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			return documentOutcome{}, err
		}
	}

	texts, err := g.chunker.split(file.Content)
	if err != nil {
		return documentOutcome{}, fmt.Errorf("splitting document: %w", err)
	}

	vectors, err := g.embedChunks(ctx, texts)
	if err != nil {
		return documentOutcome{}, err
	}

	chunks := make([]*core.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = &core.Chunk{
			Memory:   memory,
			Document: file.Name,
			Index:    i,
			Text:     text,
			Vector:   vectors[i],
		}
	}

	record := &core.DocumentRecord{
		Memory:      memory,
		Name:        file.Name,
		ContentHash: contentHash,
		Chunks:      len(chunks),
		EmbeddedAt:  g.now(),
	}
	if err := g.repo.PutDocument(ctx, record, chunks); err != nil {
		return documentOutcome{}, fmt.Errorf("storing embeddings: %w", err)
	}

	g.logger.Debug("document embedded", "memory", memory, "document", file.Name, "chunks", len(chunks))
	return documentOutcome{chunks: len(chunks)}, nil
}

// embedChunks embeds texts in batches and returns unit-length vectors in input order.
func (g *Generator) embedChunks(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += g.config.BatchSize {
		end := min(start+g.config.BatchSize, len(texts))
		batch := texts[start:end]

		var embeddings [][]float32
		err := retryWithBackoff(ctx, g.config.MaxRetries, g.config.RetryDelay, func(ctx context.Context) error {
			var embedErr error
			embeddings, embedErr = g.embedder.EmbedTexts(ctx, batch)
			return embedErr
		})
		if err != nil {
			return nil, err
		}
		if len(embeddings) != len(batch) {
			return nil, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(embeddings))
		}

		for _, embedding := range embeddings {
			vectors = append(vectors, NormalizeVector(embedding))
		}
	}
	return vectors, nil
}
