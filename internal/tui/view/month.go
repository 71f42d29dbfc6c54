package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Versuscsdota/MirrorCRM/internal/dateutil"
)

// MonthMarker is shown next to days that have slots.
const MonthMarker = "●"

// MonthModel contains the data for the month calendar.
type MonthModel struct {
	Title     string
	Cells     []dateutil.CalendarCell
	Counts    map[string]int
	Selected  string
	Today     string
	CellWidth int
	Loading   bool
}

// MonthStyles groups styles for the month calendar.
type MonthStyles struct {
	Title      lipgloss.Style
	Header     lipgloss.Style
	Day        lipgloss.Style
	OtherMonth lipgloss.Style
	Marker     lipgloss.Style
	Today      lipgloss.Style
	Selected   lipgloss.Style
}

// RenderMonth renders a 6x7 Monday-first calendar. Days with a positive
// count carry a marker; days with zero or no count are unmarked.
func RenderMonth(model MonthModel, styles MonthStyles) string {
	cw := max(model.CellWidth, 6)

	var b strings.Builder
	title := model.Title
	if model.Loading {
		title += " …"
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n\n")

	header := make([]string, 0, len(WeekdayHeader))
	for _, d := range WeekdayHeader {
		header = append(header, styles.Header.Render(PadRight(" "+d, cw)))
	}
	b.WriteString(strings.Join(header, ""))

	for i, cell := range model.Cells {
		if i%7 == 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderMonthCell(cell, model, styles, cw))
	}
	return b.String()
}

func renderMonthCell(cell dateutil.CalendarCell, model MonthModel, styles MonthStyles, cw int) string {
	if cell.OtherMonth {
		return styles.OtherMonth.Render(PadRight(fmt.Sprintf(" %2d", cell.Day), cw))
	}

	style := styles.Day
	switch cell.Date {
	case model.Selected:
		style = styles.Selected
	case model.Today:
		style = styles.Today
	}

	text := fmt.Sprintf(" %2d", cell.Day)
	if model.Counts[cell.Date] > 0 {
		marker := " " + MonthMarker
		return style.Render(text) + styles.Marker.Inherit(style).Render(PadRight(marker, cw-len(text)))
	}
	return style.Render(PadRight(text, cw))
}
