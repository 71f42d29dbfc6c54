package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PlaceBox renders content in a lipgloss.Place box with background fill.
func PlaceBox(w, h int, vAlign lipgloss.Position, content string, bg lipgloss.Color) string {
	placed := lipgloss.Place(w, h, lipgloss.Left, vAlign, content, lipgloss.WithWhitespaceBackground(bg))
	return PadLinesWithBackground(placed, w, h, bg)
}

// PadLinesWithBackground pads or cuts content to exactly width x height cells.
func PadLinesWithBackground(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	pad := lipgloss.NewStyle().Background(bg)
	for i, line := range lines {
		lines[i] = FitLine(line, width, pad)
	}
	return strings.Join(lines, "\n")
}

// FitLine cuts a styled line to width cells or pads it with pad.
func FitLine(line string, width int, pad lipgloss.Style) string {
	w := ansi.StringWidth(line)
	switch {
	case w > width:
		return ansi.Cut(line, 0, width)
	case w < width:
		return line + pad.Render(strings.Repeat(" ", width-w))
	default:
		return line
	}
}

// Splice replaces the cells [left, left+width of segment) of a styled line.
func Splice(line, segment string, left, lineWidth int) string {
	segW := ansi.StringWidth(segment)
	if segW == 0 || left >= lineWidth {
		return line
	}
	if left < 0 {
		segment = ansi.Cut(segment, -left, segW)
		segW += left
		left = 0
	}
	if left+segW > lineWidth {
		segment = ansi.Cut(segment, 0, lineWidth-left)
		segW = lineWidth - left
	}
	return ansi.Cut(line, 0, left) + segment + ansi.ResetStyle + ansi.Cut(line, left+segW, lineWidth)
}

// RenderModalOverlay centers modalContent and splices it over the base content.
func RenderModalOverlay(baseContent, modalContent string, width, height int, modalBg lipgloss.Color) string {
	modalLines := strings.Split(modalContent, "\n")
	modalWidth := 0
	for _, line := range modalLines {
		modalWidth = max(modalWidth, ansi.StringWidth(line))
	}
	if modalWidth == 0 {
		return baseContent
	}
	modalWidth = min(modalWidth, width)

	top := max(0, (height-len(modalLines))/2)
	left := max(0, (width-modalWidth)/2)

	pad := lipgloss.NewStyle().Background(modalBg)
	baseLines := strings.Split(PadLinesWithBackground(baseContent, width, height, ""), "\n")
	for i, line := range modalLines {
		row := top + i
		if row >= len(baseLines) {
			break
		}
		line = ApplyModalBackgroundResets(FitLine(line, modalWidth, pad), modalBg)
		baseLines[row] = Splice(baseLines[row], line, left, width)
	}
	return strings.Join(baseLines, "\n")
}

// ApplyModalBackgroundResets reapplies modal background after ANSI resets.
func ApplyModalBackgroundResets(line string, modalBg lipgloss.Color) string {
	bgSeq := ModalBackgroundSeq(modalBg)
	if bgSeq == "" {
		return line
	}
	line = strings.ReplaceAll(line, ansi.ResetStyle, ansi.ResetStyle+bgSeq)
	line = strings.ReplaceAll(line, "\x1b[0m", "\x1b[0m"+bgSeq)
	line = strings.ReplaceAll(line, "\x1b[49m", "\x1b[49m"+bgSeq)
	return line
}

// ModalBackgroundSeq returns the background escape sequence for the modal color.
func ModalBackgroundSeq(modalBg lipgloss.Color) string {
	if modalBg == "" {
		return ""
	}
	return ansi.Style{}.BackgroundColor(ansi.HexColor(string(modalBg))).String()
}
