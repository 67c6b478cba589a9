package search

import (
	"log/slog"

	"github.com/poiesic/docmem/core"
)

// SearchMonitor provides hooks to observe the search process.
type SearchMonitor interface {
	Start(memory, query string)
	AfterSemanticSearch(candidates []*core.SearchResult)
	VerbatimHit(chunk *core.Chunk)
	Finish(results []*core.SearchResult)
}

type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (noopMonitor) Start(string, string)                     {}
func (noopMonitor) AfterSemanticSearch([]*core.SearchResult) {}
func (noopMonitor) VerbatimHit(*core.Chunk)                  {}
func (noopMonitor) Finish([]*core.SearchResult)              {}

// LogMonitor reports each search stage at debug level.
type LogMonitor struct {
	Logger *slog.Logger
}

var _ SearchMonitor = (*LogMonitor)(nil)

func (m *LogMonitor) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.Default()
	}
	return m.Logger
}

func (m *LogMonitor) Start(memory, query string) {
	m.logger().Debug("search started", "memory", memory, "query", query)
}

func (m *LogMonitor) AfterSemanticSearch(candidates []*core.SearchResult) {
	m.logger().Debug("semantic candidates", "count", len(candidates))
}

func (m *LogMonitor) VerbatimHit(chunk *core.Chunk) {
	m.logger().Debug("verbatim match", "document", chunk.Document, "chunk", chunk.Index)
}

func (m *LogMonitor) Finish(results []*core.SearchResult) {
	m.logger().Debug("search finished", "results", len(results))
}
