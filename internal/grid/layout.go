package grid

import "github.com/Versuscsdota/MirrorCRM/internal/slot"

// Block is a slot placed on the grid.
type Block struct {
	SlotID string
	Row    int
	Left   float64
	Width  float64
	Title  string
	Label  string // "10:00–11:00 (1ч)"
	Status slot.Status
}

// Right returns the block's right edge.
func (b Block) Right() float64 {
	return b.Left + b.Width
}

// Contains reports whether x falls on the block.
func (b Block) Contains(x float64) bool {
	return x >= b.Left && x < b.Right()
}

// Rows maps resource ids onto row indices. With no resources the grid has a
// single anonymous row that takes every slot.
type Rows struct {
	ids   []string
	index map[string]int
}

// NewRows builds the row index for the given resources, in order.
func NewRows(resources []slot.Resource) Rows {
	r := Rows{index: make(map[string]int, len(resources))}
	for _, res := range resources {
		if _, dup := r.index[res.ID]; dup {
			continue
		}
		r.index[res.ID] = len(r.ids)
		r.ids = append(r.ids, res.ID)
	}
	return r
}

// Len returns the number of rows, at least 1.
func (r Rows) Len() int {
	if len(r.ids) == 0 {
		return 1
	}
	return len(r.ids)
}

// Anonymous reports whether the grid has no resource rows.
func (r Rows) Anonymous() bool {
	return len(r.ids) == 0
}

// Index returns the row of a resource id.
func (r Rows) Index(resourceID string) (int, bool) {
	if r.Anonymous() {
		return 0, true
	}
	i, ok := r.index[resourceID]
	return i, ok
}

// ID returns the resource id of a row, empty for the anonymous row.
func (r Rows) ID(row int) string {
	if row < 0 || row >= len(r.ids) {
		return ""
	}
	return r.ids[row]
}

// Layout positions every slot whose resource has a row. Positions depend only
// on the slot's time span; same-time slots on one row are not stacked.
func Layout(slots []slot.Slot, rows Rows, g Geometry) []Block {
	blocks := make([]Block, 0, len(slots))
	for i := range slots {
		s := &slots[i]
		row, ok := rows.Index(s.ResourceID)
		if !ok {
			continue
		}
		left, width := g.Span(s.StartMinutes(), s.EndMinutes())
		blocks = append(blocks, Block{
			SlotID: s.ID,
			Row:    row,
			Left:   left,
			Width:  width,
			Title:  s.DisplayTitle(),
			Label:  s.TimeLabel(),
			Status: s.Status,
		})
	}
	return blocks
}

// BlockAt returns the topmost block under x on the given row.
func BlockAt(blocks []Block, row int, x float64) (Block, bool) {
	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i].Row == row && blocks[i].Contains(x) {
			return blocks[i], true
		}
	}
	return Block{}, false
}

// HitTest picks the drag mode from where on the block the pointer went down.
// Edges are edge pixels wide; blocks narrower than three edges only move.
func HitTest(b Block, x, edge float64) Mode {
	if b.Width < 3*edge {
		return ModeMove
	}
	if x-b.Left < edge {
		return ModeResizeLeft
	}
	if b.Right()-x <= edge {
		return ModeResizeRight
	}
	return ModeMove
}
