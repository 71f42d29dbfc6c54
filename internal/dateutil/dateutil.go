// Package dateutil provides date parsing and calendar helpers.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Layouts used on the wire.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidMonthFormat = errors.New("month must be in YYYY-MM format")
)

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseDate parses a date string in YYYY-MM-DD format.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// ParseMonth parses a month string in YYYY-MM format and returns its first day.
// If the string is empty, returns the first day of the current month.
func ParseMonth(s string) (time.Time, error) {
	if s == "" {
		return FirstOfMonth(time.Now()), nil
	}
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidMonthFormat
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatMonth formats t as YYYY-MM.
func FormatMonth(t time.Time) string {
	return t.Format(MonthLayout)
}

// Today returns today's date as YYYY-MM-DD in local time.
func Today() string {
	return FormatDate(time.Now())
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FirstOfMonth returns midnight of the first day of t's month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// AddDays shifts a YYYY-MM-DD date by n days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// MonthOf returns the YYYY-MM month a YYYY-MM-DD date belongs to.
func MonthOf(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatMonth(t), nil
}

// CalendarCell is one cell of a 6x7 month calendar.
type CalendarCell struct {
	Day        int
	Date       string // empty for days of the neighbouring months
	OtherMonth bool
}

// CalendarCells is the number of cells in a month calendar (6 weeks).
const CalendarCells = 42

// MonthGrid lays out a month as 42 Monday-first cells, padding with the
// trailing days of the previous month and the leading days of the next.
func MonthGrid(month time.Time) []CalendarCell {
	first := FirstOfMonth(month)
	startDow := (int(first.Weekday()) + 6) % 7 // Mon=0
	daysInMonth := first.AddDate(0, 1, -1).Day()
	prevDays := first.AddDate(0, 0, -1).Day()

	cells := make([]CalendarCell, 0, CalendarCells)
	for i := startDow - 1; i >= 0; i-- {
		cells = append(cells, CalendarCell{Day: prevDays - i, OtherMonth: true})
	}
	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, first.Location())
		cells = append(cells, CalendarCell{Day: d, Date: FormatDate(date)})
	}
	next := 1
	for len(cells) < CalendarCells {
		cells = append(cells, CalendarCell{Day: next, OtherMonth: true})
		next++
	}
	return cells
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": returns relativeTo date
//   - Keywords: "tomorrow", "yesterday"
//   - Weekday names: "monday" through "sunday" (next occurrence)
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//
// All inputs are case-insensitive. Past dates are allowed.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if targetDay, ok := weekdayMap[input]; ok {
		return nextWeekday(today, targetDay), nil
	}

	result, err := time.Parse(DateLayout, input)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return result, nil
}

// nextWeekday returns the next occurrence of the given weekday after today.
// If today is the target weekday, returns one week from today.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	current := today.Weekday()
	daysUntil := int(target) - int(current)
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}
