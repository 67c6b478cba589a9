package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/poiesic/docmem/core"
)

// Registry locates memories under a workspace root.
type Registry struct {
	root   string
	logger *slog.Logger
}

// NewRegistry creates a registry rooted at root. The directory is created on
// the first Create call if it doesn't exist.
func NewRegistry(root string) *Registry {
	return &Registry{
		root:   root,
		logger: slog.Default().With("component", "memory-registry"),
	}
}

// Root returns the workspace root directory.
func (r *Registry) Root() string {
	return r.root
}

// Dir returns the directory a memory lives in.
func (r *Registry) Dir(name string) string {
	return filepath.Join(r.root, name)
}

// CheckMemoryExists returns nil if the memory is registered.
// Returns an error wrapping core.ErrMemoryNotFound otherwise.
func (r *Registry) CheckMemoryExists(ctx context.Context, name string) error {
	_, err := r.Get(ctx, name)
	return err
}

// Get loads a registered memory.
func (r *Registry) Get(ctx context.Context, name string) (*core.Memory, error) {
	if _, err := core.ValidateMemoryName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrMemoryNotFound, err)
	}

	dir := r.Dir(name)
	cfg, err := readConfig(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrMemoryNotFound, name)
		}
		return nil, err
	}
	if cfg.Name != name {
		r.logger.Warn("memory config name does not match directory", "dir", dir, "name", cfg.Name)
		return nil, fmt.Errorf("%w: %s (config names %q)", core.ErrMemoryNotFound, name, cfg.Name)
	}
	return cfg.toMemory(dir), nil
}

// Create registers a new memory and returns it.
// Managed memories get an empty documents directory.
func (r *Registry) Create(ctx context.Context, cfg *Config) (*core.Memory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dir := r.Dir(cfg.Name)
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrMemoryExists, cfg.Name)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	if cfg.Documents == nil {
		if err := os.MkdirAll(filepath.Join(dir, DocumentsDirName), 0755); err != nil {
			return nil, err
		}
	}
	if err := writeConfig(dir, cfg); err != nil {
		return nil, err
	}

	r.logger.Info("created memory", "name", cfg.Name, "dir", dir)
	return cfg.toMemory(dir), nil
}

// List returns every registered memory, sorted by name.
// Directories without a readable memory.yaml are skipped.
func (r *Registry) List(ctx context.Context) ([]*core.Memory, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var memories []*core.Memory
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m, err := r.Get(ctx, entry.Name())
		if err != nil {
			r.logger.Debug("skipping directory", "name", entry.Name(), "err", err)
			continue
		}
		memories = append(memories, m)
	}

	sort.Slice(memories, func(i, j int) bool {
		return memories[i].Name < memories[j].Name
	})
	return memories, nil
}
