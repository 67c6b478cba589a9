package status

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	accentCyan = lipgloss.Color("#7DD3FC") // Headings and identifiers
	mintGreen  = lipgloss.Color("#A8E6CF") // Completed steps
	salmonPink = lipgloss.Color("#FFB3BA") // Cancellation and failure
	mutedGray  = lipgloss.Color("#6B7280") // Secondary text
)

// styles holds the reporter's styles bound to one renderer, so color output
// follows the capabilities of the writer rather than of stdout.
type styles struct {
	heading lipgloss.Style
	sub     lipgloss.Style
	active  lipgloss.Style
	done    lipgloss.Style
	cancel  lipgloss.Style
	rail    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		heading: r.NewStyle().
			Foreground(lipgloss.Color("#0B0F19")).
			Background(accentCyan).
			Bold(true).
			Padding(0, 1),
		sub:    r.NewStyle().Foreground(mutedGray),
		active: r.NewStyle().Foreground(accentCyan),
		done:   r.NewStyle().Foreground(mintGreen),
		cancel: r.NewStyle().Foreground(salmonPink),
		rail:   r.NewStyle().Foreground(mutedGray),
	}
}
