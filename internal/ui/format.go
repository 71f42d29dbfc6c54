package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Versuscsdota/MirrorCRM/internal/slot"
)

// DayStats holds aggregated figures for one day of slots.
type DayStats struct {
	Slots         int
	BookedMinutes int
	ByStatus      map[slot.Status]int
	PerResource   map[string]int
	Orphaned      int // slots whose employee is not in the list
}

// AccumulateStats adds one slot to stats.
func AccumulateStats(stats *DayStats, s slot.Slot, known map[string]bool) {
	if stats.ByStatus == nil {
		stats.ByStatus = make(map[slot.Status]int)
		stats.PerResource = make(map[string]int)
	}
	stats.Slots++
	stats.BookedMinutes += max(0, s.Duration())

	status := s.Status
	if !status.Valid() {
		status = slot.StatusNotConfirmed
	}
	stats.ByStatus[status]++
	stats.PerResource[s.ResourceID]++
	if s.ResourceID != "" && len(known) > 0 && !known[s.ResourceID] {
		stats.Orphaned++
	}
}

// PrintOpts configures slot printing behavior.
type PrintOpts struct {
	Verbose       bool // Show notes and ids
	MaxTitleWidth int  // Maximum title width (0 = auto)
}

// CalcMaxTitleWidth calculates the title column width.
func (o PrintOpts) CalcMaxTitleWidth(defaultWidth int) int {
	if o.MaxTitleWidth > 0 {
		return o.MaxTitleWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// "    HH:MM–HH:MM (1.5ч)  " is ~24 cells, the status column ~22.
	available := termWidth() - 46
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintSlotRow prints a single slot row with consistent formatting.
func PrintSlotRow(w io.Writer, s slot.Slot, opts PrintOpts, maxTitleWidth int) {
	title := s.DisplayTitle()
	if ansi.StringWidth(title) > maxTitleWidth {
		title = ansi.Truncate(title, maxTitleWidth, "…")
	}
	pad := max(0, maxTitleWidth-ansi.StringWidth(title))

	fmt.Fprintf(w, "    %-24s%s%s  %s",
		s.TimeLabel(), title, strings.Repeat(" ", pad), formatStatus(s.Status))
	if opts.Verbose {
		fmt.Fprintf(w, "  %s", formatMuted("#"+s.ID))
	}
	fmt.Fprintln(w)

	if opts.Verbose && s.Notes != "" {
		wrapAndPrint(w, s.Notes, "      ", maxTitleWidth+24)
	}
}

// PrintStats prints the day summary line.
func PrintStats(w io.Writer, stats DayStats) {
	fmt.Fprintf(w, "Слотов: %d | Занято: %s", stats.Slots, FormatDuration(stats.BookedMinutes))
	for _, st := range slot.Statuses() {
		if n := stats.ByStatus[st]; n > 0 {
			fmt.Fprintf(w, " | %s: %d", formatStatus(st), n)
		}
	}
	fmt.Fprintln(w)
	if stats.Orphaned > 0 {
		fmt.Fprintln(w, formatMuted(fmt.Sprintf("Без сотрудника в списке: %d", stats.Orphaned)))
	}
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0м"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dм", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dч", hours)
	}
	return fmt.Sprintf("%dч%dм", hours, mins)
}

// wrapAndPrint wraps text to width and prints each line with prefix.
func wrapAndPrint(w io.Writer, text, prefix string, width int) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	line := ""
	for _, word := range words {
		switch {
		case line == "":
			line = word
		case ansi.StringWidth(line)+1+ansi.StringWidth(word) <= width:
			line += " " + word
		default:
			fmt.Fprintln(w, formatMuted(prefix+line))
			line = word
		}
	}
	if line != "" {
		fmt.Fprintln(w, formatMuted(prefix+line))
	}
}
