// Package formatter renders engine views for the terminal.
package formatter

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/okian/trackload/internal/domain/checklist"
	"github.com/okian/trackload/internal/domain/report"
)

// Palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// CellText renders a matrix cell: rest dimmed, unreported highlighted.
func CellText(c report.Cell) string {
	switch c.Kind {
	case report.Rest:
		return StyleDim.Render(c.String())
	case report.Unreported:
		return StyleYellow.Render(c.String())
	default:
		return c.String()
	}
}

// StatusText renders a checklist status.
func StatusText(s checklist.Status) string {
	switch s.State {
	case checklist.Active:
		return StyleGreen.Render(s.Label)
	case checklist.Rest:
		return StyleDim.Render(s.Label)
	default:
		return StyleRed.Render("not submitted")
	}
}
