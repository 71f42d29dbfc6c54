package view

import (
	"testing"
	"time"
)

func TestMonthAndDayTitles(t *testing.T) {
	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := MonthTitle(d); got != "Март 2024" {
		t.Errorf("MonthTitle = %q", got)
	}
	if got := DayTitle(d); got != "Пт 01.03.2024" {
		t.Errorf("DayTitle = %q", got)
	}
}

func TestTruncateAndPad(t *testing.T) {
	tests := []struct {
		in    string
		width int
		trunc string
		pad   string
	}{
		{"Casting", 10, "Casting", "Casting   "},
		{"Casting", 4, "Cas…", "Cas…"},
		{"Слот", 4, "Слот", "Слот"},
		{"abc", 0, "", ""},
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.trunc {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.trunc)
		}
		if got := PadRight(tt.in, tt.width); got != tt.pad {
			t.Errorf("PadRight(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.pad)
		}
	}
}
