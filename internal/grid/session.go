package grid

import "math"

// Mode is the kind of pointer drag in progress.
type Mode int

const (
	ModeMove Mode = iota
	ModeResizeLeft
	ModeResizeRight
)

// String returns the mode name used in logs.
func (m Mode) String() string {
	switch m {
	case ModeMove:
		return "move"
	case ModeResizeLeft:
		return "resize-left"
	case ModeResizeRight:
		return "resize-right"
	default:
		return "unknown"
	}
}

// Session is one drag of one block, from pointer press to release.
// It only does geometry; persisting the outcome is the Editor's job.
type Session struct {
	SlotID string
	Mode   Mode

	geom    Geometry
	numRows int

	originX, originY float64
	startLeft        float64
	startWidth       float64
	startRow         int

	left  float64
	width float64
	row   int
}

// Begin starts a drag session for block b with the pointer at (x, y).
func Begin(b Block, mode Mode, x, y float64, numRows int, g Geometry) *Session {
	return &Session{
		SlotID:     b.SlotID,
		Mode:       mode,
		geom:       g,
		numRows:    max(1, numRows),
		originX:    x,
		originY:    y,
		startLeft:  b.Left,
		startWidth: b.Width,
		startRow:   b.Row,
		left:       b.Left,
		width:      b.Width,
		row:        b.Row,
	}
}

// Move updates the block geometry for the pointer at (x, y).
func (s *Session) Move(x, y float64) {
	dx := x - s.originX
	dy := y - s.originY
	dayWidth := s.geom.DayWidth()
	minWidth := s.geom.MinWidth

	switch s.Mode {
	case ModeMove:
		s.left = Clamp(s.startLeft+dx, 0, dayWidth-s.startWidth)
		s.width = s.startWidth
		s.row = s.targetRow(dy)

	case ModeResizeLeft:
		right := s.startLeft + s.startWidth
		s.left = Clamp(s.startLeft+dx, 0, right-minWidth)
		s.width = math.Max(minWidth, right-s.left)

	case ModeResizeRight:
		s.width = Clamp(s.startWidth+dx, minWidth, dayWidth-s.startLeft)
	}
}

// targetRow snaps vertical travel to a row. Travel within the threshold keeps
// the original row.
func (s *Session) targetRow(dy float64) int {
	if math.Abs(dy) <= s.geom.RowThreshold || s.numRows <= 1 {
		return s.startRow
	}
	offset := roundHalfUp(dy / s.geom.RowHeight)
	return clampInt(s.startRow+offset, 0, s.numRows-1)
}

// Left returns the current left offset.
func (s *Session) Left() float64 { return s.left }

// Width returns the current width.
func (s *Session) Width() float64 { return s.width }

// Row returns the current row.
func (s *Session) Row() int { return s.row }

// StartRow returns the row the drag began on.
func (s *Session) StartRow() int { return s.startRow }

// DropTarget returns the highlighted candidate row, if it differs from the origin row.
func (s *Session) DropTarget() (int, bool) {
	if s.row != s.startRow {
		return s.row, true
	}
	return 0, false
}

// Block returns b with the session's live geometry applied.
func (s *Session) Block(b Block) Block {
	b.Left = s.left
	b.Width = s.width
	b.Row = s.row
	return b
}

// Result is the final geometry of a drag converted back to times.
type Result struct {
	SlotID     string
	Start, End int // minutes since midnight
	Row        int
	RowChanged bool
}

// Result converts the current geometry back into start/end minutes.
func (s *Session) Result() Result {
	start, end := s.geom.Times(s.left, s.width)
	return Result{
		SlotID:     s.SlotID,
		Start:      start,
		End:        end,
		Row:        s.row,
		RowChanged: s.row != s.startRow,
	}
}
