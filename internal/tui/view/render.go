// Package view provides view composition helpers for the TUI.
package view

// OverlayRenderer renders modal overlays on top of base content.
type OverlayRenderer interface {
	Render(base string, width, height int, content string) string
}

// ViewState contains pre-rendered content and overlay metadata.
type ViewState struct {
	Width        int
	Height       int
	BaseContent  string
	ModalContent string
	ShowModal    bool
	Overlay      OverlayRenderer
	Placeholder  string
}

// Render composes the final view output.
func Render(state ViewState) string {
	if state.Width == 0 || state.Height == 0 {
		if state.Placeholder != "" {
			return state.Placeholder
		}
		return "Загрузка…"
	}

	if state.ShowModal && state.Overlay != nil && state.ModalContent != "" {
		return state.Overlay.Render(state.BaseContent, state.Width, state.Height, state.ModalContent)
	}
	return state.BaseContent
}
