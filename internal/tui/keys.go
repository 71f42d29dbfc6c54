package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Versuscsdota/MirrorCRM/internal/dateutil"
	"github.com/Versuscsdota/MirrorCRM/internal/grid"
	"github.com/Versuscsdota/MirrorCRM/internal/slot"
	"github.com/Versuscsdota/MirrorCRM/internal/tui/commands"
	"github.com/Versuscsdota/MirrorCRM/internal/tui/theme"
)

// tempIDPrefix marks slots created locally and not yet stored.
const tempIDPrefix = "tmp-"

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeForm:
		return m.handleFormKeys(msg)
	case ModeHelp:
		m.mode = ModeNormal
		return m, nil
	}

	if m.screen == ScreenMonth {
		return m.handleMonthKeys(msg)
	}
	return m.handleDayKeys(msg)
}

// handleDayKeys handles keys on the day grid.
func (m Model) handleDayKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		m.mode = ModeHelp
		return m, nil

	case "esc":
		if m.editor.Dragging() != nil {
			m.editor.CancelDrag()
			return m.setStatus("Перемещение отменено")
		}
		m.selected = ""
		return m, nil

	// Navigation
	case "[":
		return m.shiftDay(-1)
	case "]":
		return m.shiftDay(1)
	case "t":
		return m.goToDate(m.today())
	case "r":
		m.loading = true
		return m, commands.LoadDay(m.svc, m.date)
	case "m":
		return m.openMonth()

	case "tab":
		m.selectNext(1)
		return m, nil
	case "shift+tab":
		m.selectNext(-1)
		return m, nil

	// Keyboard drag
	case "left", "h":
		return m.nudge(grid.ModeMove, -1, 0)
	case "right", "l":
		return m.nudge(grid.ModeMove, 1, 0)
	case "up", "k":
		return m.nudge(grid.ModeMove, 0, -1)
	case "down", "j":
		return m.nudge(grid.ModeMove, 0, 1)
	case "shift+left", "H":
		return m.nudge(grid.ModeResizeRight, -1, 0)
	case "shift+right", "L":
		return m.nudge(grid.ModeResizeRight, 1, 0)
	case "<":
		return m.nudge(grid.ModeResizeLeft, -1, 0)
	case ">":
		return m.nudge(grid.ModeResizeLeft, 1, 0)

	// Slot actions
	case "n":
		return m.openForm()
	case "d", "delete":
		return m.deleteSelected()
	case "u":
		return m.undoDelete()
	case "s":
		return m.cycleStatus()
	case "y":
		s, ok := m.selectedSlot()
		if !ok {
			return m, nil
		}
		return m, commands.Copy(m.slotSummary(s))

	case "T":
		return m.toggleTheme()
	}
	return m, nil
}

// shiftDay moves the displayed date by n days.
func (m Model) shiftDay(n int) (tea.Model, tea.Cmd) {
	date, err := dateutil.AddDays(m.date, n)
	if err != nil {
		return m.setError(err)
	}
	return m.goToDate(date)
}

// goToDate switches the grid to date and loads it.
func (m Model) goToDate(date string) (tea.Model, tea.Cmd) {
	m.editor.CancelDrag()
	m.date = date
	m.selected = ""
	m.cursorMin = -1
	m.loading = true
	m.screen = ScreenDay
	return m, commands.LoadDay(m.svc, date)
}

// selectNext moves the selection through blocks in display order.
func (m *Model) selectNext(step int) {
	blocks := m.editor.Blocks()
	if len(blocks) == 0 {
		m.selected = ""
		return
	}
	idx := -1
	for i, b := range blocks {
		if b.SlotID == m.selected {
			idx = i
		}
	}
	switch {
	case idx < 0 && step < 0:
		idx = len(blocks) - 1
	case idx < 0:
		idx = 0
	default:
		idx = (idx + step + len(blocks)) % len(blocks)
	}
	m.selected = blocks[idx].SlotID
}

// nudge runs a one-step drag of the selected block through the editor, so
// keyboard edits follow the same clamping, snapping and commit path as the
// mouse.
func (m Model) nudge(mode grid.Mode, dxSteps, dyRows int) (tea.Model, tea.Cmd) {
	b, ok := m.selectedBlock()
	if !ok {
		return m, nil
	}
	g := m.editor.Geometry()

	x := b.Left + b.Width/2
	y := g.RowHeight/2 + float64(b.Row)*g.RowHeight
	if err := m.editor.BeginDrag(b.SlotID, mode, x, y); err != nil {
		return m.dragError(err)
	}
	dx := float64(dxSteps*keyStepMinutes) * g.PxPerMinute
	dy := float64(dyRows) * g.RowHeight
	if err := m.editor.DragTo(x+dx, y+dy); err != nil {
		m.editor.CancelDrag()
		return m.setError(err)
	}
	return m.endDrag()
}

// endDrag releases the active drag and sends the commit, if any.
func (m Model) endDrag() (tea.Model, tea.Cmd) {
	pending, err := m.editor.EndDrag()
	if err != nil {
		return m.setError(err)
	}
	if pending == nil {
		return m, nil
	}
	m.logger.Debug("commit",
		zap.String("slot", pending.Request.ID),
		zap.String("start", pending.Request.Start),
		zap.String("end", pending.Request.End),
		zap.String("resource", pending.Request.ResourceID),
	)
	m.statusMsg = "Сохранение…"
	m.statusErr = false
	return m, commands.CommitUpdate(m.svc, *pending)
}

// dragError reports why a drag could not start.
func (m Model) dragError(err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, grid.ErrBusy) {
		return m.setStatus("Подождите, изменение сохраняется")
	}
	return m.setError(err)
}

// selectedBlock returns the laid-out block of the selected slot.
func (m Model) selectedBlock() (grid.Block, bool) {
	if m.selected == "" {
		return grid.Block{}, false
	}
	for _, b := range m.editor.Blocks() {
		if b.SlotID == m.selected {
			return b, true
		}
	}
	return grid.Block{}, false
}

// openForm opens the create form at the last clicked time and row.
func (m Model) openForm() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	g := m.editor.Geometry()
	start := m.cursorMin
	if start < 0 {
		start = g.DayStart
		if s, ok := m.selectedSlot(); ok {
			start = s.EndMinutes()
		}
	}
	start = min(max(start, g.DayStart), g.DayEnd-1)

	resourceID := m.editor.Rows().ID(m.cursorRow)
	m.form = newSlotForm(m.date, slot.ClockFromMinutes(start), resourceID, m.editor.Resources(), m.styles)
	m.mode = ModeForm
	return m, textinput.Blink
}

// handleFormKeys handles keys while the create form is open.
func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form = nil
		m.mode = ModeNormal
		return m, nil
	case "tab", "down":
		m.form.focusNext()
		return m, textinput.Blink
	case "shift+tab", "up":
		m.form.focusPrev()
		return m, textinput.Blink
	case "enter":
		return m.submitForm()
	}
	return m, m.form.update(msg)
}

// submitForm validates the form, shows the slot at once and creates it.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	req, err := m.form.request(m.config.Grid.DefaultDuration, m.editor.Geometry(), m.editor.Slots())
	if err != nil {
		m.form.err = formErrorText(err)
		return m, nil
	}

	tempID := tempIDPrefix + uuid.NewString()
	m.editor.Insert(slot.Slot{
		ID:         tempID,
		Date:       req.Date,
		Start:      req.Start,
		End:        req.End,
		ResourceID: req.ResourceID,
		Title:      req.Title,
		Notes:      req.Notes,
		Status:     slot.StatusNotConfirmed,
	})
	m.selected = tempID
	m.form = nil
	m.mode = ModeNormal
	m.logger.Debug("create", zap.String("temp_id", tempID), zap.String("start", req.Start), zap.String("end", req.End))
	return m, commands.Create(m.svc, tempID, req)
}

// formErrorText renders a validation error inside the form.
func formErrorText(err error) string {
	switch {
	case errors.Is(err, slot.ErrInvalidClock):
		return "Время в формате ЧЧ:ММ"
	case errors.Is(err, slot.ErrEndBeforeStart):
		return "Конец должен быть позже начала"
	case errors.Is(err, ErrOutsideDay):
		return "Вне рабочего дня"
	case errors.Is(err, ErrNoCapacity):
		return "На это время нет свободных мест"
	default:
		return err.Error()
	}
}

// deleteSelected removes the selected slot at once and deletes it on the server.
func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	s, ok := m.selectedSlot()
	if !ok || m.editor.Dragging() != nil {
		return m, nil
	}
	if strings.HasPrefix(s.ID, tempIDPrefix) {
		return m.setStatus("Слот ещё сохраняется")
	}
	if p := m.editor.Pending(); p != nil && p.Request.ID == s.ID {
		return m.setStatus("Подождите, изменение сохраняется")
	}
	m.editor.Remove(s.ID)
	m.selected = ""
	return m, commands.Delete(m.svc, m.store, s, m.now)
}

// undoDelete restores the most recently deleted slot.
func (m Model) undoDelete() (tea.Model, tea.Cmd) {
	if m.undo == nil || m.store == nil {
		return m, nil
	}
	id := m.undo.id
	m.undo = nil
	m.statusMsg = "Восстановление…"
	return m, commands.Undo(m.svc, m.store, id, m.now)
}

// cycleStatus advances the selected slot to the next status.
func (m Model) cycleStatus() (tea.Model, tea.Cmd) {
	s, ok := m.selectedSlot()
	if !ok || strings.HasPrefix(s.ID, tempIDPrefix) {
		return m, nil
	}
	statuses := slot.Statuses()
	next := statuses[0]
	for i, st := range statuses {
		if st == s.Status {
			next = statuses[(i+1)%len(statuses)]
		}
	}
	return m, commands.UpdateStatus(m.svc, s, next)
}

// toggleTheme switches between light and dark and persists the choice.
func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	m.setTheme(theme.Toggle(m.themeName))
	if m.store == nil {
		return m, nil
	}
	return m, commands.SaveTheme(m.store, m.themeName)
}

// slotSummary is the clipboard text for a slot.
func (m Model) slotSummary(s slot.Slot) string {
	parts := []string{s.Date, fmt.Sprintf("%s–%s", s.Start, s.End), s.DisplayTitle()}
	if s.ResourceID != "" {
		parts = append(parts, m.resourceName(s.ResourceID))
	}
	parts = append(parts, s.Status.Label())
	if s.Notes != "" {
		parts = append(parts, s.Notes)
	}
	return strings.Join(parts, " · ")
}

// openMonth switches to the month overview of the displayed date.
func (m Model) openMonth() (tea.Model, tea.Cmd) {
	month, err := dateutil.MonthOf(m.date)
	if err != nil {
		return m.setError(err)
	}
	m.editor.CancelDrag()
	m.screen = ScreenMonth
	m.monthSel = m.date
	return m.loadMonth(month)
}

func (m Model) loadMonth(month string) (tea.Model, tea.Cmd) {
	if month != m.month {
		m.monthDays = make(map[string]int)
	}
	m.month = month
	m.monthLoad = true
	return m, commands.LoadMonth(m.svc, month)
}

// handleMonthKeys handles keys on the month overview.
func (m Model) handleMonthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "m":
		m.screen = ScreenDay
		return m, nil
	case "enter":
		return m.goToDate(m.monthSel)
	case "left", "h":
		return m.moveMonthCursor(-1)
	case "right", "l":
		return m.moveMonthCursor(1)
	case "up", "k":
		return m.moveMonthCursor(-7)
	case "down", "j":
		return m.moveMonthCursor(7)
	case "[":
		return m.shiftMonth(-1)
	case "]":
		return m.shiftMonth(1)
	case "t":
		m.monthSel = m.today()
		month, _ := dateutil.MonthOf(m.monthSel)
		return m.loadMonth(month)
	}
	return m, nil
}

// moveMonthCursor moves the selected day, loading the neighbouring month
// when the cursor leaves the current one.
func (m Model) moveMonthCursor(days int) (tea.Model, tea.Cmd) {
	date, err := dateutil.AddDays(m.monthSel, days)
	if err != nil {
		return m.setError(err)
	}
	m.monthSel = date
	month, err := dateutil.MonthOf(date)
	if err != nil {
		return m.setError(err)
	}
	if month != m.month {
		return m.loadMonth(month)
	}
	return m, nil
}

// shiftMonth moves to the same day number of the previous or next month.
func (m Model) shiftMonth(n int) (tea.Model, tea.Cmd) {
	t, err := dateutil.ParseMonth(m.month)
	if err != nil {
		return m.setError(err)
	}
	month := dateutil.FormatMonth(t.AddDate(0, n, 0))
	m.monthSel = month + "-01"
	return m.loadMonth(month)
}
