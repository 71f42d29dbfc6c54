package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Versuscsdota/MirrorCRM/internal/db"
	"github.com/Versuscsdota/MirrorCRM/internal/schedule"
	"github.com/Versuscsdota/MirrorCRM/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Cell geometry changed under any drag in progress.
		m.editor.CancelDrag()
		return m, nil

	case commands.DayLoadedMsg:
		if msg.Date != m.date {
			return m, nil // a newer navigation superseded this load
		}
		if msg.ResourcesErr != nil {
			m.logger.Warn("employee list unavailable, using a single row", zap.Error(msg.ResourcesErr))
		}
		m.editor.Load(msg.Date, msg.Slots, msg.Resources)
		m.loading = false
		if _, ok := m.editor.Slot(m.selected); !ok {
			m.selected = ""
		}
		m.logger.Debug("day loaded", zap.String("date", msg.Date), zap.Int("slots", len(msg.Slots)))
		return m, nil

	case commands.DayLoadFailedMsg:
		if msg.Date != m.date {
			return m, nil
		}
		m.loading = false
		return m.setError(msg.Err)

	case commands.MonthLoadedMsg:
		if msg.Month != m.month {
			return m, nil
		}
		m.monthLoad = false
		m.monthDays = make(map[string]int, len(msg.Days))
		for _, d := range msg.Days {
			m.monthDays[d.Date] = d.Count
		}
		return m, nil

	case commands.SlotUpdatedMsg:
		return m.handleSlotUpdated(msg)

	case commands.UpdateFailedMsg:
		// Redraw from the last server-confirmed list.
		m.editor.Rollback()
		m.logger.Info("commit rejected", zap.String("slot", msg.Pending.Request.ID), zap.Error(msg.Err))
		return m.setError(msg.Err)

	case commands.StatusChangedMsg:
		m.editor.Adopt("", msg.Slot)
		return m.setStatus("Статус: " + msg.Slot.Status.Label())

	case commands.SyncedMsg:
		if msg.Date == m.date && !m.editor.Busy() && m.editor.Dragging() == nil {
			m.editor.Reset(msg.Slots)
		}
		return m, nil

	case commands.SyncFailedMsg:
		m.logger.Warn("server did not reflect the change in time", zap.Error(msg.Err))
		return m, commands.LoadDay(m.svc, m.date)

	case commands.SlotCreatedMsg:
		m.editor.Adopt(msg.TempID, msg.Slot)
		if m.selected == msg.TempID {
			m.selected = msg.Slot.ID
		}
		return m.setStatus("Слот создан")

	case commands.CreateFailedMsg:
		m.editor.Forget(msg.TempID)
		if m.selected == msg.TempID {
			m.selected = ""
		}
		return m.setError(msg.Err)

	case commands.SlotDeletedMsg:
		m.editor.Forget(msg.Slot.ID)
		if msg.UndoErr != nil || m.store == nil {
			if msg.UndoErr != nil {
				m.logger.Warn("undo snapshot not saved", zap.Error(msg.UndoErr))
			}
			return m.setStatus("Слот удалён")
		}
		m.undo = &undoState{id: msg.Slot.ID, label: msg.Slot.DisplayTitle()}
		m.statusMsg = "Слот удалён · u: отменить"
		m.statusErr = false
		m.statusTime = m.now().Add(db.UndoWindow)
		return m, commands.UndoTimeout(msg.Slot.ID, db.UndoWindow)

	case commands.DeleteFailedMsg:
		m.editor.Insert(msg.Slot)
		return m.setError(msg.Err)

	case commands.SlotRestoredMsg:
		if msg.Slot.Date == m.date || msg.Slot.Date == "" {
			m.editor.Adopt("", msg.Slot)
			m.selected = msg.Slot.ID
		}
		return m.setStatus("Слот восстановлен")

	case commands.UndoExpiredMsg:
		if m.undo != nil && m.undo.id == msg.ID {
			m.undo = nil
			m.statusMsg = ""
		}
		return m, nil

	case commands.ThemeSavedMsg:
		m.logger.Debug("theme saved", zap.String("theme", msg.Name))
		return m, nil

	case commands.CopiedMsg:
		return m.setStatus("Скопировано")

	case commands.ErrMsg:
		return m.setError(msg.Err)

	case commands.StatusMsgCmd:
		return m.setStatus(msg.Msg)

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	if m.mode == ModeForm && m.form != nil {
		// Cursor blink and other input internals.
		var cmd tea.Cmd
		m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleSlotUpdated settles a confirmed commit and starts verifying it.
func (m Model) handleSlotUpdated(msg commands.SlotUpdatedMsg) (tea.Model, tea.Cmd) {
	if err := m.editor.Confirm(msg.Slot); err != nil {
		// The commit was discarded by a reload; keep the server copy anyway.
		m.editor.Adopt("", msg.Slot)
	}

	confirmed := msg.Slot
	if confirmed.ID == "" {
		confirmed = msg.Pending.After
	}
	m.logger.Debug("commit confirmed",
		zap.String("slot", confirmed.ID),
		zap.String("start", confirmed.Start),
		zap.String("end", confirmed.End),
		zap.Bool("resource_changed", msg.Pending.ResourceChanged),
	)

	status := "Сохранено: " + confirmed.TimeLabel()
	if msg.Pending.ResourceChanged {
		status += " → " + m.resourceName(confirmed.ResourceID)
	}
	m, clearCmd := m.withStatus(status, false)
	if confirmed.Date != m.date {
		return m, clearCmd
	}
	return m, tea.Batch(clearCmd, commands.Verify(m.svc, confirmed, m.pollOpts))
}

// setStatus shows a temporary message.
func (m Model) setStatus(text string) (tea.Model, tea.Cmd) {
	return m.withStatus(text, false)
}

// setError shows an error. Server rejections are shown verbatim.
func (m Model) setError(err error) (tea.Model, tea.Cmd) {
	return m.withStatus(errorText(err), true)
}

func (m Model) withStatus(text string, isErr bool) (Model, tea.Cmd) {
	ttl := statusTTL
	if isErr {
		ttl = errorStatusTTL
	}
	m.statusMsg = text
	m.statusErr = isErr
	m.statusTime = m.now().Add(ttl)
	return m, commands.ClearStatusAfter(ttl)
}

// errorText renders an error for the status line.
func errorText(err error) string {
	var apiErr *schedule.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, schedule.ErrTransport):
		return "Сеть недоступна: " + err.Error()
	case errors.Is(err, db.ErrUndoExpired):
		return "Время для отмены истекло"
	default:
		return fmt.Sprintf("Ошибка: %v", err)
	}
}
