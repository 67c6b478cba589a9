// Package status renders pipeline progress for the terminal.
package status

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const (
	symbolStep   = "◇"
	symbolActive = "◒"
	symbolCancel = "■"
	symbolRail   = "│"
)

// Reporter prints headings and step progress to a writer.
// It is safe for concurrent use.
type Reporter struct {
	out    io.Writer
	styles styles
	mu     sync.Mutex
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{
		out:    out,
		styles: newStyles(lipgloss.NewRenderer(out)),
	}
}

// Intro prints an operation heading with a one-line description.
func (r *Reporter) Intro(title, sub string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, r.styles.heading.Render(title))
	if sub != "" {
		fmt.Fprintf(r.out, "%s %s\n", r.styles.rail.Render(symbolRail), r.styles.sub.Render(sub))
	}
	fmt.Fprintln(r.out, r.styles.rail.Render(symbolRail))
}

// Start opens an in-progress step.
func (r *Reporter) Start(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.line(r.styles.active, symbolActive, message)
}

// Message updates the in-progress step.
func (r *Reporter) Message(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.line(r.styles.active, symbolActive, message)
}

// Stop closes the in-progress step with a final message.
func (r *Reporter) Stop(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.line(r.styles.done, symbolStep, message)
}

// Cancel reports that the operation was abandoned.
func (r *Reporter) Cancel(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.line(r.styles.cancel, symbolCancel, message)
	fmt.Fprintln(r.out)
}

func (r *Reporter) line(style lipgloss.Style, symbol, message string) {
	fmt.Fprintf(r.out, "%s  %s\n", style.Render(symbol), message)
}
