package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Versuscsdota/MirrorCRM/internal/dateutil"
	"github.com/Versuscsdota/MirrorCRM/internal/grid"
	"github.com/Versuscsdota/MirrorCRM/internal/slot"
	"github.com/Versuscsdota/MirrorCRM/internal/tui/view"
)

const (
	hourMark     = "┊"
	cursorMark   = "▏"
	pendingMark  = "⟳ "
	minGridCells = 12
)

const (
	dayHelp   = "←→ сдвиг · H/L < > длина · ↑↓ сотрудник · n новый · d удалить · s статус · [ ] день · m месяц · ? клавиши · q выход"
	monthHelp = "←→↑↓ день · enter открыть · [ ] месяц · t сегодня · esc назад"
)

// View renders the TUI.
func (m Model) View() string {
	return view.Render(m.viewState())
}

func (m Model) viewState() view.ViewState {
	var base string
	if m.screen == ScreenMonth {
		base = m.renderMonth()
	} else {
		base = m.renderDay()
	}

	modal := ""
	switch {
	case m.mode == ModeForm && m.form != nil:
		modal = m.form.render(m.styles, m.editor.Slots())
	case m.mode == ModeHelp:
		modal = m.renderHelp()
	}

	return view.ViewState{
		Width:        m.width,
		Height:       m.height,
		BaseContent:  base,
		ModalContent: modal,
		ShowModal:    modal != "",
		Overlay:      modalOverlay{bg: m.styles.ModalBgColor},
	}
}

// renderDay draws the resource x time grid for the displayed date.
func (m Model) renderDay() string {
	l := m.layout()
	if l.cells < minGridCells || m.height < headerLines+footerLines+1 {
		return view.PadLinesWithBackground("Окно терминала слишком мало", m.width, m.height, m.styles.Bg())
	}

	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderTitle(), m.renderRuler(l))
	if m.loading && len(m.editor.Slots()) == 0 {
		lines = append(lines, m.styles.SubtitleStyle.Render(strings.Repeat(" ", l.left)+"Загрузка…"))
	} else {
		lines = append(lines, m.renderRows(l)...)
	}

	body := view.PadLinesWithBackground(strings.Join(lines, "\n"), m.width, m.height-footerLines, m.styles.Bg())
	return body + "\n" + m.renderFooter(dayHelp)
}

func (m Model) renderTitle() string {
	title := m.date
	if t, err := dateutil.ParseDate(m.date); err == nil {
		title = view.DayTitle(t)
	}
	sub := fmt.Sprintf("  слотов: %d", len(m.editor.Slots()))
	if m.editor.Rows().Anonymous() {
		sub += fmt.Sprintf(" · мест в слоте: %d", slot.Capacity)
	}
	if m.loading {
		sub += " · загрузка…"
	}
	return m.styles.TitleStyle.Render(title) + m.styles.SubtitleStyle.Render(sub)
}

func (m Model) renderRuler(l gridLayout) string {
	ticks := grid.HourTicks(m.editor.Geometry())
	marks := make([]view.RulerMark, 0, len(ticks))
	for _, t := range ticks {
		marks = append(marks, view.RulerMark{Col: l.pxToCol(t.Left), Label: t.Label})
	}
	return m.styles.RulerStyle.Render(strings.Repeat(" ", l.left) + view.RenderRuler(marks, l.cells))
}

// renderRows draws every resource row with its blocks spliced over the
// background cells.
func (m Model) renderRows(l gridLayout) []string {
	g := m.editor.Geometry()
	rows := m.editor.Rows()
	lineWidth := l.left + l.cells

	background := m.rowBackground(l)
	session := m.editor.Dragging()
	dropRow, dropping := -1, false
	if session != nil {
		dropRow, dropping = session.DropTarget()
	}

	blocks := m.editor.Blocks()
	alt := altBlocks(blocks, l)
	pending := ""
	if p := m.editor.Pending(); p != nil {
		pending = p.Request.ID
	}

	out := make([]string, 0, l.bodyHeight())
	for row := 0; row < l.rows; row++ {
		name := anonymousRowLabel
		if !rows.Anonymous() {
			name = m.resourceName(rows.ID(row))
		}
		labelStyle := m.styles.RowLabelStyle
		if (dropping && row == dropRow) || (m.cursorMin >= 0 && row == m.cursorRow) {
			labelStyle = m.styles.RowLabelActiveStyle
		}

		cellStyle := m.styles.CellStyle
		if row%2 == 1 {
			cellStyle = m.styles.CellAltStyle
		}
		if dropping && row == dropRow {
			cellStyle = m.styles.DropTargetStyle
		}

		rowLines := make([]string, l.rowLines)
		for i := range rowLines {
			label := strings.Repeat(" ", l.left)
			if i == 0 {
				label = view.PadRight(name, l.left-1) + " "
			}
			rowLines[i] = labelStyle.Render(label) + cellStyle.Render(background)
		}

		if session != nil && session.StartRow() == row {
			if s, ok := m.editor.Slot(session.SlotID); ok {
				left, width := g.Span(s.StartMinutes(), s.EndMinutes())
				ghost := grid.Block{Left: left, Width: width, Row: row}
				cs, ce := l.blockCols(ghost)
				seg := m.styles.GhostStyle(s.Status).Render(strings.Repeat("░", ce-cs))
				for i := range rowLines {
					rowLines[i] = view.Splice(rowLines[i], seg, l.left+cs, lineWidth)
				}
			}
		}

		for _, b := range blocks {
			if b.Row != row || (session != nil && b.SlotID == session.SlotID) {
				continue
			}
			m.spliceBlock(rowLines, b, l, alt[b.SlotID], b.SlotID == pending)
		}
		// The dragged block is drawn last so it stays on top.
		if session != nil {
			for _, b := range blocks {
				if b.Row == row && b.SlotID == session.SlotID {
					m.spliceBlock(rowLines, b, l, false, false)
				}
			}
		}

		if m.cursorMin >= 0 && row == m.cursorRow && m.selected == "" {
			col := l.pxToCol(g.MinutesToPixel(m.cursorMin))
			if col >= 0 && col < l.cells {
				seg := m.styles.CursorStyle.Render(cursorMark)
				for i := range rowLines {
					rowLines[i] = view.Splice(rowLines[i], seg, l.left+col, lineWidth)
				}
			}
		}
		out = append(out, rowLines...)
	}
	return out
}

// rowBackground returns the plain cells of an empty row with hour marks.
func (m Model) rowBackground(l gridLayout) string {
	cells := []rune(strings.Repeat(" ", l.cells))
	mark := []rune(hourMark)[0]
	for _, t := range grid.HourTicks(m.editor.Geometry()) {
		if col := l.pxToCol(t.Left); col > 0 && col < l.cells {
			cells[col] = mark
		}
	}
	return string(cells)
}

// spliceBlock draws block b over its row's lines. Line 0 carries the title,
// line 1 the time span, line 2 the status.
func (m Model) spliceBlock(rowLines []string, b grid.Block, l gridLayout, alt, inFlight bool) {
	cs, ce := l.blockCols(b)
	w := ce - cs
	style := m.styles.BlockStyle(b.Status, alt, b.SlotID == m.selected)

	texts := []string{b.Title, b.Label, b.Status.Label()}
	if inFlight || strings.HasPrefix(b.SlotID, tempIDPrefix) {
		texts[0] = pendingMark + texts[0]
	}
	for i := range rowLines {
		text := ""
		if i < len(texts) {
			text = texts[i]
		}
		seg := style.Render(view.PadRight(" "+text, w))
		rowLines[i] = view.Splice(rowLines[i], seg, l.left+cs, l.left+l.cells)
	}
}

// altBlocks marks blocks that touch the previous block of the same status on
// their row, alternating so neighbours stay distinguishable.
func altBlocks(blocks []grid.Block, l gridLayout) map[string]bool {
	sorted := slices.Clone(blocks)
	slices.SortStableFunc(sorted, func(a, b grid.Block) int {
		if c := cmp.Compare(a.Row, b.Row); c != 0 {
			return c
		}
		return cmp.Compare(a.Left, b.Left)
	})

	alt := make(map[string]bool, len(sorted))
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Row != cur.Row || prev.Status != cur.Status {
			continue
		}
		_, prevEnd := l.blockCols(prev)
		curStart, _ := l.blockCols(cur)
		if curStart <= prevEnd {
			alt[cur.SlotID] = !alt[prev.SlotID]
		}
	}
	return alt
}

// renderMonth draws the month overview.
func (m Model) renderMonth() string {
	t, err := dateutil.ParseMonth(m.month)
	if err != nil {
		return view.PadLinesWithBackground(err.Error(), m.width, m.height, m.styles.Bg())
	}
	model := view.MonthModel{
		Title:     view.MonthTitle(t),
		Cells:     dateutil.MonthGrid(t),
		Counts:    m.monthDays,
		Selected:  m.monthSel,
		Today:     m.today(),
		CellWidth: min(max(m.width/7, 6), 12),
		Loading:   m.monthLoad,
	}
	cal := lipgloss.NewStyle().Padding(1, 2).Render(view.RenderMonth(model, m.styles.Month))
	body := view.PlaceBox(m.width, m.height-footerLines, lipgloss.Top, cal, m.styles.Bg())
	return body + "\n" + m.renderFooter(monthHelp)
}

// renderFooter draws the status line and key help.
func (m Model) renderFooter(help string) string {
	status := m.statusMsg
	style := m.styles.StatusStyle
	switch {
	case m.statusErr:
		style = m.styles.StatusErrorStyle
	case status == "" && m.editor.Busy():
		status = "Сохранение…"
		style = m.styles.StatusBusyStyle
	case status == "" && m.screen == ScreenDay:
		if s, ok := m.selectedSlot(); ok {
			status = m.slotSummary(s)
			style = m.styles.SubtitleStyle
		}
	}
	return view.RenderFooter(view.FooterModel{
		Width:       m.width,
		StatusText:  status,
		HelpText:    help,
		StatusStyle: style,
		HelpStyle:   m.styles.HelpStyle,
		Bg:          m.styles.Bg(),
	})
}

var helpRows = [][2]string{
	{"мышь", "перетащить слот, тянуть за край: длина"},
	{"tab", "следующий слот"},
	{"← →", "сдвинуть на 5 минут"},
	{"H L", "конец слота ±5 минут"},
	{"< >", "начало слота ±5 минут"},
	{"↑ ↓", "другой сотрудник"},
	{"n", "новый слот"},
	{"d / u", "удалить / отменить удаление"},
	{"s", "сменить статус"},
	{"y", "скопировать слот"},
	{"[ ] t", "день назад, вперёд, сегодня"},
	{"m", "календарь месяца"},
	{"r", "обновить"},
	{"T", "светлая / тёмная тема"},
}

func (m Model) renderHelp() string {
	ms := m.styles.modalStyles()
	lines := make([]string, 0, len(helpRows))
	for _, r := range helpRows {
		lines = append(lines,
			m.styles.ModalLabelFocusedStyle.Render(view.PadRight(r[0], 7))+
				m.styles.ModalBodyStyle.Render(r[1]))
	}
	footer := m.styles.ModalHintStyle.Render("любая клавиша: закрыть")
	return view.RenderModalFrame("Клавиши", strings.Join(lines, "\n"), footer, ms)
}
