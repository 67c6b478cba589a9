package memory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/poiesic/docmem/core"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the per-memory configuration file.
	ConfigFileName = "memory.yaml"

	// DocumentsDirName is the directory holding a managed memory's documents.
	DocumentsDirName = "documents"
)

// Config is the on-disk form of a memory.
type Config struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Documents   *DocumentConfig `yaml:"documents,omitempty"`
}

// DocumentConfig makes a memory track an arbitrary directory.
type DocumentConfig struct {
	// Dir is absolute or relative to the memory's own directory.
	Dir     string   `yaml:"dir"`
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// Validate checks the config's name and glob patterns.
func (c *Config) Validate() error {
	if _, err := core.ValidateMemoryName(c.Name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Documents == nil {
		return nil
	}
	if c.Documents.Dir == "" {
		return fmt.Errorf("%w: documents.dir cannot be empty", ErrInvalidConfig)
	}
	for _, pattern := range append(append([]string{}, c.Documents.Include...), c.Documents.Exclude...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("%w: bad pattern %q: %w", ErrInvalidConfig, pattern, err)
		}
	}
	return nil
}

// toMemory resolves the config against the memory's directory.
func (c *Config) toMemory(memoryDir string) *core.Memory {
	m := &core.Memory{
		Name:        c.Name,
		Description: c.Description,
	}
	if c.Documents != nil {
		dir := c.Documents.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(memoryDir, dir)
		}
		m.TrackedDir = filepath.Clean(dir)
		m.Include = c.Documents.Include
		m.Exclude = c.Documents.Exclude
	}
	return m
}

// readConfig loads memory.yaml from a memory directory.
func readConfig(memoryDir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(memoryDir, ConfigFileName))
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// writeConfig stores memory.yaml in a memory directory.
func writeConfig(memoryDir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(memoryDir, ConfigFileName), data, 0644)
}
