// Package view provides rendering helpers for the TUI.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
)

var (
	monthNames = [...]string{
		"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
		"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
	}
	weekdayShort = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
)

// WeekdayHeader is the Monday-first calendar header.
var WeekdayHeader = []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// MonthTitle formats a month as "Март 2024".
func MonthTitle(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

// DayTitle formats a date as "Пт 01.03.2024".
func DayTitle(t time.Time) string {
	return weekdayShort[t.Weekday()] + " " + t.Format("02.01.2006")
}

// Truncate cuts s to width cells, ending with an ellipsis when shortened.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// PadRight pads plain text with spaces to width cells, truncating if longer.
func PadRight(s string, width int) string {
	s = Truncate(s, width)
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
