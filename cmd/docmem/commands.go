package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/poiesic/docmem"
	"github.com/poiesic/docmem/ai"
	"github.com/poiesic/docmem/core"
	"github.com/poiesic/docmem/embeddoc"
	"github.com/poiesic/docmem/embedgen"
	"github.com/poiesic/docmem/memory"
	"github.com/poiesic/docmem/search"
	"github.com/poiesic/docmem/status"
	"github.com/urfave/cli/v2"
)

var _ embeddoc.Reporter = (*status.Reporter)(nil)

// openWorkspace opens the workspace selected by the global flags.
func openWorkspace(c *cli.Context, opts ...docmem.WorkspaceOption) (*docmem.Workspace, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAPIKey(c.String("api-key")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts = append([]docmem.WorkspaceOption{docmem.WithAIConfig(aiConfig)}, opts...)
	if db := c.String("db"); db != "" {
		opts = append(opts, docmem.WithStorePath(db))
	}

	ws, err := docmem.OpenWorkspace(c.String("root"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}
	return ws, nil
}

// pipelineExit turns a pipeline failure into a non-zero exit. The reporter has
// already shown the message.
func pipelineExit(err error) error {
	var pipelineErr *embeddoc.Error
	if errors.As(err, &pipelineErr) {
		return cli.Exit("", 1)
	}
	return cli.Exit(err.Error(), 1)
}

func embedDocCommand(c *cli.Context) error {
	ctx := context.Background()

	ws, err := openWorkspace(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer ws.Close()

	pipeline, err := ws.NewEmbedPipeline(status.NewReporter(c.App.Writer))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	_, err = pipeline.Run(ctx, embeddoc.Request{
		MemoryName:   c.String("memory"),
		DocumentName: c.String("document"),
		Overwrite:    c.Bool("overwrite"),
	})
	if err != nil {
		return pipelineExit(err)
	}
	return nil
}

func embedCommand(c *cli.Context) error {
	ctx := context.Background()

	config := embedgen.DefaultConfig()
	config.BatchSize = c.Int("batch-size")
	config.MaxRetries = c.Int("max-retries")
	config.RetryDelay = c.Duration("retry-delay")
	if err := config.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	ws, err := openWorkspace(c,
		docmem.WithGeneratorConfig(config),
		docmem.WithProgress(c.App.ErrWriter),
	)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer ws.Close()

	pipeline, err := ws.NewEmbedPipeline(status.NewReporter(c.App.Writer))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if _, err := pipeline.RunAll(ctx, c.String("memory"), c.Bool("overwrite")); err != nil {
		return pipelineExit(err)
	}
	return nil
}

func createCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg := &memory.Config{
		Name:        strings.TrimSpace(c.String("memory")),
		Description: c.String("description"),
	}
	if dir := c.String("dir"); dir != "" {
		cfg.Documents = &memory.DocumentConfig{
			Dir:     dir,
			Include: c.StringSlice("include"),
			Exclude: c.StringSlice("exclude"),
		}
	} else if len(c.StringSlice("include")) > 0 || len(c.StringSlice("exclude")) > 0 {
		return cli.Exit("--include and --exclude require --dir", 1)
	}

	registry := memory.NewRegistry(c.String("root"))
	m, err := registry.Create(ctx, cfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to create memory: %v", err), 1)
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Created memory '%s' in %s\n", m.Name, registry.Dir(m.Name))
	if m.IsCustomDirTracked() {
		fmt.Fprintf(out, "Tracking documents in %s\n", m.TrackedDir)
	} else {
		fmt.Fprintf(out, "Add documents to %s\n", filepath.Join(registry.Dir(m.Name), memory.DocumentsDirName))
	}
	return nil
}

func listCommand(c *cli.Context) error {
	ctx := context.Background()

	memories, err := memory.NewRegistry(c.String("root")).List(ctx)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to list memories: %v", err), 1)
	}

	out := c.App.Writer
	if len(memories) == 0 {
		fmt.Fprintln(out, "No memories found.")
		return nil
	}
	for _, m := range memories {
		line := m.Name
		if m.Description != "" {
			line += " - " + m.Description
		}
		if m.IsCustomDirTracked() {
			line += fmt.Sprintf(" (tracks %s)", m.TrackedDir)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func retrieveCommand(c *cli.Context) error {
	ctx := context.Background()

	memoryName, err := core.ValidateMemoryName(c.String("memory"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	ws, err := openWorkspace(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer ws.Close()

	if err := ws.Registry().CheckMemoryExists(ctx, memoryName); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	searcher, err := ws.NewSearcher()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	results, err := searcher.SearchWithMonitor(ctx, memoryName, c.String("query"), c.Int("top-k"), &search.LogMonitor{})
	if err != nil {
		return cli.Exit(fmt.Sprintf("search failed: %v", err), 1)
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Fprintf(out, "%d: %s#%d [%0.3f]\n%s\n\n", i+1, hit.Chunk.Document, hit.Chunk.Index, hit.Score, strings.TrimSpace(hit.Chunk.Text))
	}
	return nil
}
