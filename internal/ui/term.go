package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/Versuscsdota/MirrorCRM/internal/slot"
)

// Color definitions for consistent styling across the UI.
var (
	colorConfirmed    = color.New(color.FgGreen)
	colorFail         = color.New(color.FgRed)
	colorThinking     = color.New(color.FgYellow)
	colorRegistration = color.New(color.FgCyan, color.Bold)
	colorNotConfirmed = color.New(color.FgWhite)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Success messages
	colorSuccess = color.New(color.FgGreen, color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output, in the CLI and in the grid.
func DisableColor() {
	color.NoColor = true
	lipgloss.SetColorProfile(termenv.Ascii)
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}

// formatStatus renders a status label in its color.
func formatStatus(s slot.Status) string {
	var c *color.Color
	switch s {
	case slot.StatusConfirmed:
		c = colorConfirmed
	case slot.StatusFail:
		c = colorFail
	case slot.StatusThinking:
		c = colorThinking
	case slot.StatusRegistration:
		c = colorRegistration
	default:
		c = colorNotConfirmed
	}
	return c.Sprint(s.Label())
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatSuccess formats a confirmation message.
func formatSuccess(s string) string {
	return colorSuccess.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
