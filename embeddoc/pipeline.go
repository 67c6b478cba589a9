package embeddoc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/docmem/core"
)

const (
	missingMemoryMessage   = "Memory name is required. Use --memory or -m flag to specify."
	missingDocumentMessage = "Document name is required. Use --document or -d flag to specify."
)

// Request identifies the document to embed.
type Request struct {
	MemoryName   string
	DocumentName string
	Overwrite    bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pipeline embeds single documents, or whole memories, through its collaborators.
type Pipeline struct {
	checker   MemoryExistenceChecker
	provider  DocumentSetProvider
	generator EmbeddingGenerator
	reporter  Reporter
	logger    *slog.Logger
}

// NewPipeline creates a pipeline. A nil reporter discards all output.
func NewPipeline(checker MemoryExistenceChecker, provider DocumentSetProvider, generator EmbeddingGenerator, reporter Reporter, opts ...Option) (*Pipeline, error) {
	if checker == nil {
		return nil, ErrCheckerRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	if reporter == nil {
		reporter = nopReporter{}
	}

	p := &Pipeline{
		checker:   checker,
		provider:  provider,
		generator: generator,
		reporter:  reporter,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "embeddoc")
	return p, nil
}

// Run resolves req.DocumentName inside req.MemoryName and embeds exactly that
// document. On success it returns the generator's status line. Every failure
// is an *Error and has already been reported.
func (p *Pipeline) Run(ctx context.Context, req Request) (string, error) {
	p.reporter.Intro("EMBED DOC",
		fmt.Sprintf("Creating embeddings of Doc: %s in memory %s", req.DocumentName, req.MemoryName))

	if req.MemoryName == "" {
		return "", p.cancel(newError(core.ErrMissingArgument, missingMemoryMessage, nil))
	}
	if req.DocumentName == "" {
		return "", p.cancel(newError(core.ErrMissingArgument, missingDocumentMessage, nil))
	}

	input, err := core.ValidateDocEmbed(req.MemoryName, req.DocumentName)
	if err != nil {
		return "", p.fail(newError(core.ErrValidationFailure, err.Error(), err))
	}

	if err := p.checkMemory(ctx, input.MemoryName); err != nil {
		return "", err
	}

	p.reporter.Start("Processing docs...")
	files, err := p.load(ctx, req.MemoryName, input.MemoryName)
	if err != nil {
		return "", err
	}

	file, found := core.ResolveDocument(input.DocumentName, files)
	if !found {
		p.reporter.Stop("Stopped!")
		return "", p.cancel(newError(core.ErrDocumentNotFound, fmt.Sprintf(
			"Doc: %s not found in memory %s. If this is a custom directory-tracked memory, please provide the full relative path to the document from the tracked directory.",
			input.DocumentName, input.MemoryName), nil))
	}
	p.logger.Debug("document resolved", "memory", input.MemoryName, "document", file.Name, "path", file.Path)

	p.reporter.Message("Generating embeddings...")
	return p.generate(ctx, core.EmbeddingRequest{
		MemoryName: input.MemoryName,
		Files:      []core.MemoryFile{file},
		Overwrite:  req.Overwrite,
	})
}

// RunAll embeds every document of memoryName and removes stored documents
// that are no longer in its document set.
func (p *Pipeline) RunAll(ctx context.Context, memoryName string, overwrite bool) (string, error) {
	p.reporter.Intro("EMBED", fmt.Sprintf("Creating embeddings of memory %s", memoryName))

	if memoryName == "" {
		return "", p.cancel(newError(core.ErrMissingArgument, missingMemoryMessage, nil))
	}

	validMemoryName, err := core.ValidateMemoryName(memoryName)
	if err != nil {
		return "", p.fail(newError(core.ErrValidationFailure, err.Error(), err))
	}

	if err := p.checkMemory(ctx, validMemoryName); err != nil {
		return "", err
	}

	p.reporter.Start("Processing docs...")
	files, err := p.load(ctx, memoryName, validMemoryName)
	if err != nil {
		return "", err
	}

	p.reporter.Message("Generating embeddings...")
	return p.generate(ctx, core.EmbeddingRequest{
		MemoryName: validMemoryName,
		Files:      files,
		Overwrite:  overwrite,
		Prune:      true,
	})
}

func (p *Pipeline) checkMemory(ctx context.Context, memoryName string) error {
	err := p.checker.CheckMemoryExists(ctx, memoryName)
	if err == nil {
		return nil
	}
	if errors.Is(err, core.ErrMemoryNotFound) {
		return p.cancel(newError(core.ErrMemoryNotFound, fmt.Sprintf(
			"Memory '%s' does not exist. Run 'docmem list' to see available memories.", memoryName), err))
	}
	return p.fail(newError(core.ErrMemoryNotFound, err.Error(), err))
}

// load fetches the memory's documents and rejects an empty set.
// rawName is echoed in the empty-memory message as the user typed it.
func (p *Pipeline) load(ctx context.Context, rawName, memoryName string) ([]core.MemoryFile, error) {
	files, err := p.provider.LoadMemoryFiles(ctx, memoryName)
	if err != nil {
		return nil, p.fail(newError(core.ErrLoadFailure, err.Error(), err))
	}
	if len(files) == 0 {
		return nil, p.cancel(newError(core.ErrEmptyMemory,
			fmt.Sprintf("No valid documents found in memory '%s'.", rawName), nil))
	}
	p.logger.Debug("memory files loaded", "memory", memoryName, "files", len(files))
	return files, nil
}

func (p *Pipeline) generate(ctx context.Context, req core.EmbeddingRequest) (string, error) {
	status, err := p.generator.GenerateEmbeddings(ctx, req)
	if err != nil {
		return "", p.fail(newError(core.ErrGenerationFailure, err.Error(), err))
	}
	p.reporter.Stop(status)
	return status, nil
}

// cancel reports a failure the pipeline detected itself.
func (p *Pipeline) cancel(e *Error) error {
	p.logger.Debug("embedding cancelled", "kind", e.Kind, "message", e.Message)
	p.reporter.Cancel(e.Message)
	return e
}

// fail reports a failure raised by a collaborator.
func (p *Pipeline) fail(e *Error) error {
	p.logger.Debug("embedding failed", "kind", e.Kind, "err", e.Err)
	p.reporter.Stop("FAILED from here: " + e.Message)
	return e
}

type nopReporter struct{}

func (nopReporter) Intro(string, string) {}
func (nopReporter) Start(string)         {}
func (nopReporter) Message(string)       {}
func (nopReporter) Stop(string)          {}
func (nopReporter) Cancel(string)        {}
