package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Versuscsdota/MirrorCRM/internal/grid"
)

// handleMouseMsg turns pointer events on the day grid into editor drags.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal || m.screen != ScreenDay || m.loading {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.mousePress(msg.X, msg.Y)

	case tea.MouseActionMotion:
		if m.editor.Dragging() == nil {
			return m, nil
		}
		l := m.layout()
		if err := m.editor.DragTo(l.xToPx(msg.X), l.yToPx(msg.Y)); err != nil {
			return m.setError(err)
		}
		m.dragMoved = true
		return m, nil

	case tea.MouseActionRelease:
		if m.editor.Dragging() == nil {
			return m, nil
		}
		if !m.dragMoved {
			// A click only selects.
			m.editor.CancelDrag()
			return m, nil
		}
		l := m.layout()
		if err := m.editor.DragTo(l.xToPx(msg.X), l.yToPx(msg.Y)); err != nil {
			return m.setError(err)
		}
		m.dragMoved = false
		return m.endDrag()
	}
	return m, nil
}

// mousePress selects the block under the pointer and starts a drag, or
// remembers the clicked time and row for the create form.
func (m Model) mousePress(x, y int) (tea.Model, tea.Cmd) {
	l := m.layout()
	row, ok := l.rowAt(y)
	if !ok || !l.inTimeAxis(x) {
		return m, nil
	}
	px := l.xToPx(x)
	py := l.yToPx(y)

	b, ok := grid.BlockAt(m.editor.Blocks(), row, px)
	if !ok {
		m.selected = ""
		m.cursorRow = row
		m.cursorMin = m.editor.Geometry().PixelToMinutes(px)
		return m, nil
	}

	m.selected = b.SlotID
	m.cursorMin = -1
	m.dragMoved = false
	mode := grid.HitTest(b, px, l.pxPerCell)
	if err := m.editor.BeginDrag(b.SlotID, mode, px, py); err != nil {
		return m.dragError(err)
	}
	m.logger.Debug("drag start", zap.String("slot", b.SlotID), zap.Stringer("mode", mode), zap.Int("row", row))
	return m, nil
}
