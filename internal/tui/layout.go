package tui

import (
	"math"

	"github.com/Versuscsdota/MirrorCRM/internal/grid"
	"github.com/Versuscsdota/MirrorCRM/internal/tui/view"
)

const (
	headerLines   = 2 // title, hour ruler
	footerLines   = view.FooterHeight
	maxLabelWidth = 18
	minLabelWidth = 6
	maxRowLines   = 3

	// anonymousRowLabel names the single row shown when there are no employees.
	anonymousRowLabel = "Слоты"
)

// gridLayout maps terminal cells onto the editor's pixel space. One column
// is pxPerCell pixels wide and one line is pxPerLine pixels tall, so a
// resource row of rowLines lines is exactly one RowHeight.
type gridLayout struct {
	left      int // first column of the time axis
	top       int // first line of the first row
	cells     int // time axis width in columns
	rowLines  int
	rows      int
	pxPerCell float64
	pxPerLine float64
}

// newGridLayout fits the grid into a width x height terminal. cellsPerHour
// fixes the horizontal scale; zero fits the whole day into the width.
func newGridLayout(g grid.Geometry, width, height, rows, labelWidth, cellsPerHour int) gridLayout {
	l := gridLayout{
		left: labelWidth,
		top:  headerLines,
		rows: max(rows, 1),
	}

	avail := max(width-labelWidth, 1)
	if cellsPerHour > 0 {
		l.cells = int(math.Ceil(float64(g.DayEnd-g.DayStart) * float64(cellsPerHour) / 60))
		l.pxPerCell = g.PxPerMinute * 60 / float64(cellsPerHour)
	} else {
		l.cells = avail
		l.pxPerCell = g.DayWidth() / float64(avail)
	}
	l.cells = min(l.cells, avail)

	bodyLines := height - headerLines - footerLines
	l.rowLines = 1
	for n := maxRowLines; n > 1; n-- {
		if n*l.rows <= bodyLines {
			l.rowLines = n
			break
		}
	}
	l.pxPerLine = g.RowHeight / float64(l.rowLines)
	return l
}

// labelWidth sizes the row label column for the given names.
func labelWidth(names []string) int {
	w := minLabelWidth
	for _, n := range names {
		w = max(w, len([]rune(n))+1)
	}
	return min(w, maxLabelWidth)
}

// xToPx returns the pixel at the centre of column x.
func (l gridLayout) xToPx(x int) float64 {
	return (float64(x-l.left) + 0.5) * l.pxPerCell
}

// yToPx returns the pixel at the centre of line y.
func (l gridLayout) yToPx(y int) float64 {
	return (float64(y-l.top) + 0.5) * l.pxPerLine
}

// rowAt returns the resource row under line y.
func (l gridLayout) rowAt(y int) (int, bool) {
	if y < l.top {
		return 0, false
	}
	row := (y - l.top) / l.rowLines
	if row >= l.rows {
		return 0, false
	}
	return row, true
}

// inTimeAxis reports whether column x is on the time axis.
func (l gridLayout) inTimeAxis(x int) bool {
	return x >= l.left && x < l.left+l.cells
}

// pxToCol returns the time axis column (relative to left) holding px.
func (l gridLayout) pxToCol(px float64) int {
	return int(math.Floor(px / l.pxPerCell))
}

// blockCols returns the columns [start, end) a block covers, relative to
// the time axis and clipped to it. Every block covers at least one column.
func (l gridLayout) blockCols(b grid.Block) (start, end int) {
	start = int(math.Floor(b.Left / l.pxPerCell))
	end = int(math.Ceil(b.Right() / l.pxPerCell))
	if end <= start {
		end = start + 1
	}
	start = max(start, 0)
	end = min(end, l.cells)
	if start >= end {
		start = max(end-1, 0)
	}
	return start, end
}

// bodyHeight returns the number of lines the rows take.
func (l gridLayout) bodyHeight() int {
	return l.rows * l.rowLines
}
