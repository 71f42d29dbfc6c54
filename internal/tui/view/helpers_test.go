package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestPadLinesWithBackground(t *testing.T) {
	out := PadLinesWithBackground("ab\nabcdefgh\nc\nd", 4, 3, "")
	lines := strings.Split(ansi.Strip(out), "\n")
	want := []string{"ab  ", "abcd", "c   "}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestSplice(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		segment string
		left    int
		want    string
	}{
		{"middle", "..........", "abc", 3, "...abc...."},
		{"start", "..........", "abc", 0, "abc......."},
		{"clipped right", "..........", "abcdef", 7, ".......abc"},
		{"clipped left", "..........", "abcdef", -2, "cdef......"},
		{"past the end", "..........", "abc", 10, ".........."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(Splice(tt.line, tt.segment, tt.left, 10))
			if got != tt.want {
				t.Errorf("Splice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpliceKeepsStyledBase(t *testing.T) {
	base := lipgloss.NewStyle().Bold(true).Render("0123456789")
	got := Splice(base, "XY", 4, 10)
	if ansi.Strip(got) != "0123XY6789" {
		t.Fatalf("unexpected splice %q", ansi.Strip(got))
	}
	if ansi.StringWidth(got) != 10 {
		t.Fatalf("width = %d, want 10", ansi.StringWidth(got))
	}
}

func TestRenderModalOverlayCentersContent(t *testing.T) {
	base := strings.Repeat(strings.Repeat(".", 10)+"\n", 4) + strings.Repeat(".", 10)
	out := RenderModalOverlay(base, "ab\ncd", 10, 5, "")

	lines := strings.Split(ansi.Strip(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	if lines[0] != ".........." {
		t.Errorf("line 0 = %q, want untouched base", lines[0])
	}
	if lines[1] != "....ab...." || lines[2] != "....cd...." {
		t.Errorf("modal not centered: %q / %q", lines[1], lines[2])
	}
}

func TestModalBackgroundSeqEmpty(t *testing.T) {
	if ModalBackgroundSeq("") != "" {
		t.Fatal("expected no sequence for an empty color")
	}
	if ApplyModalBackgroundResets("x\x1b[0my", "") != "x\x1b[0my" {
		t.Fatal("line should be unchanged without a modal background")
	}
}
