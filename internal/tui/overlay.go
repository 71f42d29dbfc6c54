package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Versuscsdota/MirrorCRM/internal/tui/view"
)

// modalOverlay centers a modal over the base view on the modal background.
type modalOverlay struct {
	bg lipgloss.Color
}

// Render implements view.OverlayRenderer.
func (o modalOverlay) Render(base string, width, height int, content string) string {
	if width <= 0 || height <= 0 {
		return base
	}
	return view.RenderModalOverlay(base, content, width, height, o.bg)
}

var _ view.OverlayRenderer = modalOverlay{}
