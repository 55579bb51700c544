// Package ui implements the interactive terminal front end: hex panes,
// prompts, the key loop and the rendering styles.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles contains all styled renderers for the hex display.
type Styles struct {
	// Pane chrome
	Header     lipgloss.Style
	HeaderLock lipgloss.Style
	Status     lipgloss.Style
	Prompt     lipgloss.Style

	// Hex body
	Address lipgloss.Style
	Hex     lipgloss.Style
	ASCII   lipgloss.Style
	Raster  lipgloss.Style

	// Highlights
	Diff     lipgloss.Style
	Match    lipgloss.Style
	Changed  lipgloss.Style
	Inserted lipgloss.Style
	Cursor   lipgloss.Style

	// Misc
	Error lipgloss.Style
	Dim   lipgloss.Style
	Bold  lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		Header:     lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12")).Bold(true),
		HeaderLock: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("9")).Bold(true),
		Status:     lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Prompt:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),

		Address: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Hex:     lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		ASCII:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Raster:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")),

		Diff:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Match:    lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")),
		Changed:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Inserted: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("15")),

		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Dim:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:  lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header:     lipgloss.NewStyle().Reverse(true),
		HeaderLock: lipgloss.NewStyle().Reverse(true).Bold(true),
		Status:     plain,
		Prompt:     plain,

		Address: plain,
		Hex:     plain,
		ASCII:   plain,
		Raster:  plain,

		Diff:     lipgloss.NewStyle().Reverse(true),
		Match:    lipgloss.NewStyle().Reverse(true),
		Changed:  lipgloss.NewStyle().Underline(true),
		Inserted: lipgloss.NewStyle().Underline(true),
		Cursor:   lipgloss.NewStyle().Reverse(true),

		Error: plain,
		Dim:   plain,
		Bold:  plain,
	}
}

// colorEnabled resolves the --color mode against the terminal.
func colorEnabled(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}
