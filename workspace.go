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

package docmem

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/poiesic/docmem/ai"
	"github.com/poiesic/docmem/ai/openai"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/embeddoc"
	"github.com/poiesic/docmem/embedgen"
	"github.com/poiesic/docmem/memory"
	"github.com/poiesic/docmem/search"
	"github.com/poiesic/docmem/storage"
	"github.com/poiesic/docmem/storage/badger"
)

// StoreDirName is the default embedding store directory under the workspace root.
const StoreDirName = ".store"

// Workspace wires the memory registry, document loader, embedding store and
// AI provider for one workspace root. The embedding store is opened on first
// use, so commands that fail validation leave the workspace untouched.
type Workspace struct {
	registry  *memory.Registry
	loader    *memory.Loader
	provider  ai.AIProvider
	storePath string
	inMemory  bool
	genConfig embedgen.Config
	progress  io.Writer
	logger    *slog.Logger

	mu        sync.Mutex
	backend   *badger.Backend
	repo      storage.EmbeddingRepository
	generator *embedgen.Generator
}

var _ embeddoc.EmbeddingGenerator = (*Workspace)(nil)

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*workspaceOptions)

type workspaceOptions struct {
	aiConfig  *ai.Config
	provider  ai.AIProvider
	storePath string
	inMemory  bool
	genConfig embedgen.Config
	loader    []memory.LoaderOption
	progress  io.Writer
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies a ready AI provider instead of building one from config.
// The workspace takes ownership and closes it.
func WithProvider(provider ai.AIProvider) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.provider = provider
	}
}

// WithStorePath overrides the embedding store location.
func WithStorePath(path string) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.storePath = path
	}
}

// WithInMemoryStore keeps embeddings in memory only.
func WithInMemoryStore() WorkspaceOption {
	return func(o *workspaceOptions) {
		o.inMemory = true
	}
}

// WithGeneratorConfig sets chunking, batching and concurrency for embedding generation.
func WithGeneratorConfig(config embedgen.Config) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.genConfig = config
	}
}

// WithLoaderOptions configures how memory documents are read.
func WithLoaderOptions(opts ...memory.LoaderOption) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.loader = append(o.loader, opts...)
	}
}

// WithProgress enables document progress output for multi-document runs.
func WithProgress(w io.Writer) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.progress = w
	}
}

// OpenWorkspace prepares the workspace rooted at root. It validates the AI
// configuration but performs no filesystem writes.
func OpenWorkspace(root string, opts ...WorkspaceOption) (*Workspace, error) {
	options := &workspaceOptions{
		aiConfig:  ai.DefaultConfig(),
		genConfig: embedgen.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	storePath := options.storePath
	if storePath == "" && !options.inMemory {
		storePath = filepath.Join(root, StoreDirName)
	}

	registry := memory.NewRegistry(root)
	return &Workspace{
		registry:  registry,
		loader:    memory.NewLoader(registry, options.loader...),
		provider:  provider,
		storePath: storePath,
		inMemory:  options.inMemory,
		genConfig: options.genConfig,
		progress:  options.progress,
		logger:    slog.Default().With("component", "workspace"),
	}, nil
}

// Close releases the generator, provider, repository and store.
func (w *Workspace) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.generator != nil {
		w.generator.Release()
		w.generator = nil
	}

	var errs []error
	if err := w.provider.Close(); err != nil {
		w.logger.Error("error closing AI provider", "err", err)
		errs = append(errs, err)
	}
	if w.repo != nil {
		if err := w.repo.Close(); err != nil {
			w.logger.Error("error closing embedding repository", "err", err)
			errs = append(errs, err)
		}
		w.repo = nil
	}
	if w.backend != nil {
		if err := w.backend.Close(); err != nil {
			w.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
		w.backend = nil
	}
	return errors.Join(errs...)
}

// Registry returns the memory registry.
func (w *Workspace) Registry() *memory.Registry {
	return w.registry
}

// Loader returns the memory document loader.
func (w *Workspace) Loader() *memory.Loader {
	return w.loader
}

// EmbeddingRepository returns the embedding store, opening it if needed.
func (w *Workspace) EmbeddingRepository() (storage.EmbeddingRepository, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.openStore()
}

// openStore must be called with w.mu held.
func (w *Workspace) openStore() (storage.EmbeddingRepository, error) {
	if w.repo != nil {
		return w.repo, nil
	}

	backend, err := badger.OpenBackend(w.storePath, w.inMemory)
	if err != nil {
		return nil, err
	}
	repo, err := badger.NewEmbeddingRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	w.logger.Debug("opened embedding store", "path", w.storePath, "in_memory", w.inMemory)
	w.backend = backend
	w.repo = repo
	return repo, nil
}

// NewGenerator creates an embedding generator. Callers must Release it.
func (w *Workspace) NewGenerator(opts ...embedgen.Option) (*embedgen.Generator, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.newGenerator(opts...)
}

func (w *Workspace) newGenerator(opts ...embedgen.Option) (*embedgen.Generator, error) {
	repo, err := w.openStore()
	if err != nil {
		return nil, err
	}
	if w.progress != nil {
		opts = append([]embedgen.Option{embedgen.WithProgressWriter(w.progress)}, opts...)
	}
	return embedgen.NewGenerator(repo, w.provider.Embedder(), w.genConfig, opts...)
}

// GenerateEmbeddings embeds the requested files with a generator owned by the
// workspace. The store and generator are created on the first call and
// released by Close.
func (w *Workspace) GenerateEmbeddings(ctx context.Context, req core.EmbeddingRequest) (string, error) {
	w.mu.Lock()
	if w.generator == nil {
		generator, err := w.newGenerator()
		if err != nil {
			w.mu.Unlock()
			return "", err
		}
		w.generator = generator
	}
	generator := w.generator
	w.mu.Unlock()

	return generator.GenerateEmbeddings(ctx, req)
}

// NewEmbedPipeline creates an embed pipeline that generates through the workspace.
func (w *Workspace) NewEmbedPipeline(reporter embeddoc.Reporter, opts ...embeddoc.Option) (*embeddoc.Pipeline, error) {
	return embeddoc.NewPipeline(w.registry, w.loader, w, reporter, opts...)
}

// NewSearcher creates a chunk searcher over the embedding store.
func (w *Workspace) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	repo, err := w.EmbeddingRepository()
	if err != nil {
		return nil, err
	}
	return search.NewSearcher(repo, w.provider, opts...)
}
