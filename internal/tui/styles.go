package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Versuscsdota/MirrorCRM/internal/slot"
	"github.com/Versuscsdota/MirrorCRM/internal/tui/theme"
	"github.com/Versuscsdota/MirrorCRM/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	// Header
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	RulerStyle    lipgloss.Style

	// Rows
	RowLabelStyle       lipgloss.Style
	RowLabelActiveStyle lipgloss.Style
	CellStyle           lipgloss.Style
	CellAltStyle        lipgloss.Style // every other row
	HourMarkStyle       lipgloss.Style
	DropTargetStyle     lipgloss.Style
	CursorStyle         lipgloss.Style

	// Footer
	StatusStyle      lipgloss.Style
	StatusErrorStyle lipgloss.Style
	StatusBusyStyle  lipgloss.Style
	HelpStyle        lipgloss.Style

	// Month
	Month view.MonthStyles

	// Modal
	ModalStyle             lipgloss.Style
	ModalBgColor           lipgloss.Color
	ModalHeaderStyle       lipgloss.Style
	ModalFooterStyle       lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalTagStyle          lipgloss.Style
	ModalLabelStyle        lipgloss.Style
	ModalLabelFocusedStyle lipgloss.Style
	ModalInputTextStyle    lipgloss.Style
	ModalInputCursorStyle  lipgloss.Style
	ModalPlaceholderStyle  lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style
	ModalHintStyle         lipgloss.Style
	ModalErrorStyle        lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	modalBg := p.Modal.Bg

	s := &Styles{palette: p}

	s.TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Background(p.Bg)
	s.SubtitleStyle = lipgloss.NewStyle().Foreground(p.FgMuted).Background(p.Bg)
	s.RulerStyle = lipgloss.NewStyle().Foreground(p.FgMuted).Background(p.Bg)

	s.RowLabelStyle = lipgloss.NewStyle().Foreground(p.Fg).Background(p.Bg)
	s.RowLabelActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Background(p.Bg)
	s.CellStyle = lipgloss.NewStyle().Foreground(p.Border).Background(p.Bg)
	s.CellAltStyle = lipgloss.NewStyle().Foreground(p.Border).Background(p.BgHighlight)
	s.HourMarkStyle = lipgloss.NewStyle().Foreground(p.Border)
	s.DropTargetStyle = lipgloss.NewStyle().Foreground(p.Border).Background(p.DropTarget)
	s.CursorStyle = lipgloss.NewStyle().Foreground(p.Accent).Background(p.BgSelection)

	s.StatusStyle = lipgloss.NewStyle().Foreground(p.Success).Background(p.Bg)
	s.StatusErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Danger).Background(p.Bg)
	s.StatusBusyStyle = lipgloss.NewStyle().Foreground(p.Warning).Background(p.Bg)
	s.HelpStyle = lipgloss.NewStyle().Foreground(p.FgMuted).Background(p.Bg)

	s.Month = view.MonthStyles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Header:     lipgloss.NewStyle().Foreground(p.FgMuted),
		Day:        lipgloss.NewStyle().Foreground(p.Fg),
		OtherMonth: lipgloss.NewStyle().Foreground(p.Border),
		Marker:     lipgloss.NewStyle().Foreground(p.Accent),
		Today:      lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Selected:   lipgloss.NewStyle().Bold(true).Foreground(p.TextOnAccent).Background(p.Accent),
	}

	s.ModalBgColor = modalBg
	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Modal.Border).
		BorderBackground(modalBg).
		Background(modalBg).
		Foreground(p.Modal.Text).
		Padding(1, 2)
	s.ModalHeaderStyle = lipgloss.NewStyle().Background(modalBg)
	s.ModalFooterStyle = lipgloss.NewStyle().Background(modalBg).Foreground(p.Modal.Muted)
	s.ModalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Background(modalBg)
	s.ModalBodyStyle = lipgloss.NewStyle().Foreground(p.Modal.Text).Background(modalBg)
	s.ModalTagStyle = lipgloss.NewStyle().Foreground(p.Modal.Text).Background(p.Modal.Panel).Padding(0, 1)
	s.ModalLabelStyle = lipgloss.NewStyle().Foreground(p.Modal.Muted).Background(modalBg)
	s.ModalLabelFocusedStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Background(modalBg)
	s.ModalInputTextStyle = lipgloss.NewStyle().Foreground(p.Modal.Text).Background(modalBg)
	s.ModalInputCursorStyle = lipgloss.NewStyle().Foreground(p.Accent)
	s.ModalPlaceholderStyle = lipgloss.NewStyle().Foreground(p.Modal.Muted).Background(modalBg)
	s.ModalButtonStyle = lipgloss.NewStyle().Foreground(p.Modal.Text).Background(p.Modal.Panel)
	s.ModalButtonActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(p.TextOnAccent).Background(p.Accent)
	s.ModalHintStyle = lipgloss.NewStyle().Italic(true).Foreground(p.Modal.Muted).Background(modalBg)
	s.ModalErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Danger).Background(modalBg)

	return s
}

// BlockStyle returns the style of a slot block. alt shades a block that
// touches a neighbour of the same status.
func (s *Styles) BlockStyle(status slot.Status, alt, selected bool) lipgloss.Style {
	bg, fg := s.palette.Block(status, alt)
	style := lipgloss.NewStyle().Foreground(fg).Background(bg)
	if selected {
		style = style.Bold(true).Underline(true)
	}
	return style
}

// GhostStyle returns the style of a dragged block's original position.
func (s *Styles) GhostStyle(status slot.Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.palette.FgMuted).Background(s.palette.Ghost(status))
}

// Bg returns the base background color.
func (s *Styles) Bg() lipgloss.Color {
	return s.palette.Bg
}

// modalStyles returns the styles for view.RenderModalFrame.
func (s *Styles) modalStyles() view.ModalStyles {
	return view.ModalStyles{
		ModalHeaderStyle:       s.ModalHeaderStyle,
		ModalTitleStyle:        s.ModalTitleStyle,
		ModalFooterStyle:       s.ModalFooterStyle,
		ModalStyle:             s.ModalStyle,
		ModalButtonStyle:       s.ModalButtonStyle,
		ModalButtonActiveStyle: s.ModalButtonActiveStyle,
		ModalBodyStyle:         s.ModalBodyStyle,
	}
}

// formStyles returns the styles for view.RenderSlotFormBody.
func (s *Styles) formStyles() view.SlotFormStyles {
	return view.SlotFormStyles{
		TagStyle:          s.ModalTagStyle,
		BodyStyle:         s.ModalBodyStyle,
		LabelStyle:        s.ModalLabelStyle,
		LabelFocusedStyle: s.ModalLabelFocusedStyle,
		HintStyle:         s.ModalHintStyle,
		ErrorStyle:        s.ModalErrorStyle,
	}
}
