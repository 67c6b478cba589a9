package memory

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/poiesic/docmem/core"
)

// DefaultMaxFileSize is the largest document loaded, in bytes.
const DefaultMaxFileSize = 10 << 20

// DefaultExtensions lists the file extensions treated as embeddable text.
var DefaultExtensions = []string{
	".md", ".mdx", ".txt", ".csv", ".json", ".yaml", ".yml", ".html",
	".go", ".py", ".js", ".ts", ".rs", ".java", ".sh", ".sql",
}

// Loader enumerates the documents a memory tracks.
type Loader struct {
	registry    *Registry
	maxFileSize int64
	extensions  map[string]bool
	logger      *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithMaxFileSize sets the largest file loaded. Larger files are skipped.
func WithMaxFileSize(size int64) LoaderOption {
	return func(l *Loader) {
		l.maxFileSize = size
	}
}

// WithExtensions replaces the set of supported file extensions.
func WithExtensions(exts ...string) LoaderOption {
	return func(l *Loader) {
		l.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			l.extensions[strings.ToLower(ext)] = true
		}
	}
}

// NewLoader creates a loader for memories in registry.
func NewLoader(registry *Registry, opts ...LoaderOption) *Loader {
	l := &Loader{
		registry:    registry,
		maxFileSize: DefaultMaxFileSize,
		logger:      slog.Default().With("component", "memory-loader"),
	}
	WithExtensions(DefaultExtensions...)(l)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadMemoryFiles returns the documents tracked by a memory in lexical path
// order. Unsupported, empty and oversized files are skipped. A memory with no
// embeddable documents yields an empty slice and no error.
func (l *Loader) LoadMemoryFiles(ctx context.Context, name string) ([]core.MemoryFile, error) {
	m, err := l.registry.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	if m.IsCustomDirTracked() {
		return l.loadTracked(ctx, m)
	}
	return l.loadManaged(ctx, filepath.Join(l.registry.Dir(name), DocumentsDirName))
}

// loadManaged reads the regular files directly under dir.
func (l *Loader) loadManaged(ctx context.Context, dir string) ([]core.MemoryFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []core.MemoryFile{}, nil
		}
		return nil, err
	}

	files := []core.MemoryFile{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		file, ok, err := l.readFile(filepath.Join(dir, entry.Name()), entry.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, file)
		}
	}
	return files, nil
}

// loadTracked walks a custom tracked directory applying include/exclude globs.
func (l *Loader) loadTracked(ctx context.Context, m *core.Memory) ([]core.MemoryFile, error) {
	include, err := compileGlobs(m.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(m.Exclude)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(m.TrackedDir)
	if err != nil {
		return nil, fmt.Errorf("tracked directory for memory %q: %w", m.Name, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("tracked directory for memory %q: %s is not a directory", m.Name, m.TrackedDir)
	}

	files := []core.MemoryFile{}
	err = filepath.WalkDir(m.TrackedDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == m.TrackedDir {
			return nil
		}

		rel, err := filepath.Rel(m.TrackedDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || matchesAny(exclude, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if len(include) > 0 && !matchesAny(include, rel) {
			return nil
		}
		if matchesAny(exclude, rel) {
			return nil
		}

		file, ok, err := l.readFile(path, core.NormalizeDocumentName(rel))
		if err != nil {
			return err
		}
		if ok {
			files = append(files, file)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// readFile loads one document. ok is false when the file is skipped.
func (l *Loader) readFile(path, name string) (core.MemoryFile, bool, error) {
	if !l.extensions[strings.ToLower(filepath.Ext(path))] {
		l.logger.Debug("skipping unsupported file", "path", path)
		return core.MemoryFile{}, false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return core.MemoryFile{}, false, err
	}
	if info.Size() == 0 {
		l.logger.Debug("skipping empty file", "path", path)
		return core.MemoryFile{}, false, nil
	}
	if info.Size() > l.maxFileSize {
		l.logger.Warn("skipping oversized file", "path", path, "size", info.Size(), "max", l.maxFileSize)
		return core.MemoryFile{}, false, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return core.MemoryFile{}, false, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return core.MemoryFile{
		Name:        name,
		Path:        abs,
		Size:        info.Size(),
		ModTime:     info.ModTime().UTC(),
		Content:     string(content),
		ContentHash: core.ContentHash(content),
	}, true, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("%w: bad pattern %q: %w", ErrInvalidConfig, pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func matchesAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}
