// Package theme provides the light and dark color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"

	"github.com/Versuscsdota/MirrorCRM/internal/slot"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

const (
	Light = "light"
	Dark  = "dark"
)

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Row stripes, header
	BgSelection string `toml:"bg_selection"` // Selected block, cursor
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"` // Hour ruler, placeholders
	Accent      string `toml:"accent"`   // Title, borders, marked days
	Border      string `toml:"border"`   // Grid lines
	Danger      string `toml:"danger"`   // Errors
	Success     string `toml:"success"`  // Confirmations
	Warning     string `toml:"warning"`  // Drag in flight
	DropTarget  string `toml:"drop_target"`

	// Slot status colors
	StatusNotConfirmed string `toml:"status_not_confirmed"`
	StatusConfirmed    string `toml:"status_confirmed"`
	StatusFail         string `toml:"status_fail"`
	StatusThinking     string `toml:"status_thinking"`
	StatusRegistration string `toml:"status_registration"`

	// Modal palette (can override base theme values)
	BaseBg      string `toml:"base_bg"`
	ModalBorder string `toml:"modal_border"`
	TextPrimary string `toml:"text_primary"`
	TextMuted   string `toml:"text_muted"`
	Highlight   string `toml:"highlight"`
}

// Load loads a theme by name from embedded files.
// Falls back to light if the theme is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = Light
	}
	name = strings.ToLower(name)

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		if name != Light {
			return Load(Light)
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

// StatusColor returns the block color for a slot status.
func (t *Theme) StatusColor(s slot.Status) string {
	switch s {
	case slot.StatusConfirmed:
		return t.StatusConfirmed
	case slot.StatusFail:
		return t.StatusFail
	case slot.StatusThinking:
		return t.StatusThinking
	case slot.StatusRegistration:
		return t.StatusRegistration
	default:
		return t.StatusNotConfirmed
	}
}

// ModalPalette provides the modal-specific colors derived from the theme.
type ModalPalette struct {
	BaseBg      string
	ModalBorder string
	TextPrimary string
	TextMuted   string
	Highlight   string
}

// Modal returns the modal palette, falling back to base theme colors when needed.
func (t *Theme) Modal() ModalPalette {
	return ModalPalette{
		BaseBg:      coalesce(t.BaseBg, t.BgHighlight, t.Bg),
		ModalBorder: coalesce(t.ModalBorder, t.Accent),
		TextPrimary: coalesce(t.TextPrimary, t.Fg),
		TextMuted:   coalesce(t.TextMuted, t.FgMuted),
		Highlight:   coalesce(t.Highlight, t.BgSelection, t.Accent),
	}
}

func (t *Theme) applyDefaults() {
	t.Border = coalesce(t.Border, t.FgMuted)
	t.DropTarget = coalesce(t.DropTarget, t.BgSelection, t.Accent)
	t.StatusNotConfirmed = coalesce(t.StatusNotConfirmed, t.Accent)
	t.StatusConfirmed = coalesce(t.StatusConfirmed, t.Accent)
	t.StatusFail = coalesce(t.StatusFail, t.Danger, t.Accent)
	t.StatusThinking = coalesce(t.StatusThinking, t.FgMuted)
	t.StatusRegistration = coalesce(t.StatusRegistration, t.Success, t.Accent)

	m := t.Modal()
	t.BaseBg = m.BaseBg
	t.ModalBorder = m.ModalBorder
	t.TextPrimary = m.TextPrimary
	t.TextMuted = m.TextMuted
	t.Highlight = m.Highlight
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{Light, Dark}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	name = strings.ToLower(name)
	for _, themeName := range Available() {
		if themeName == name {
			return true
		}
	}
	return false
}

// Toggle returns the other theme name.
func Toggle(name string) string {
	if strings.ToLower(name) == Dark {
		return Light
	}
	return Dark
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}
