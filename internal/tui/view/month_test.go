package view

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/Versuscsdota/MirrorCRM/internal/dateutil"
)

func TestRenderMonthMarksDaysWithSlots(t *testing.T) {
	month := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	model := MonthModel{
		Title:     MonthTitle(month),
		Cells:     dateutil.MonthGrid(month),
		Counts:    map[string]int{"2024-03-05": 2, "2024-03-06": 0},
		CellWidth: 6,
	}

	out := ansi.Strip(RenderMonth(model, MonthStyles{}))
	lines := strings.Split(out, "\n")

	// title, blank, weekday header, 6 weeks
	if len(lines) != 9 {
		t.Fatalf("got %d lines, want 9:\n%s", len(lines), out)
	}
	if lines[0] != "Март 2024" {
		t.Errorf("title = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], " Пн") {
		t.Errorf("header should start on Monday, got %q", lines[2])
	}
	if strings.Count(out, MonthMarker) != 1 {
		t.Errorf("expected exactly one marker, got %d:\n%s", strings.Count(out, MonthMarker), out)
	}
	// 2024-03-01 is a Friday: the first week starts with 26..29 February.
	if !strings.HasPrefix(lines[3], " 26") {
		t.Errorf("first week = %q, want padding from February", lines[3])
	}
	if !strings.Contains(lines[4], "5 "+MonthMarker) {
		t.Errorf("second week should mark the 5th: %q", lines[4])
	}
}

func TestRenderMonthLoadingTitle(t *testing.T) {
	out := ansi.Strip(RenderMonth(MonthModel{Title: "Март 2024", Loading: true}, MonthStyles{}))
	if !strings.HasPrefix(out, "Март 2024 …") {
		t.Fatalf("unexpected title %q", out)
	}
}
