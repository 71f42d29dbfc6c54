package grid

import (
	"errors"

	"github.com/Versuscsdota/MirrorCRM/internal/slot"
)

// Editor errors.
var (
	ErrBusy            = errors.New("previous change is still being saved")
	ErrAlreadyDragging = errors.New("already dragging a slot")
	ErrNotDragging     = errors.New("not dragging")
	ErrUnknownSlot     = errors.New("slot not found on the grid")
	ErrNothingPending  = errors.New("no change is being saved")
)

// Pending is a drag outcome sent to the server and not yet confirmed.
type Pending struct {
	Request         slot.UpdateRequest
	Before          slot.Slot
	After           slot.Slot
	ResourceChanged bool
}

// Editor owns the slots of the displayed date. It keeps the last
// server-confirmed list (saved) apart from the list on screen (working),
// which carries optimistic edits until the server confirms or rejects them.
//
// Only one drag commit may be in flight: BeginDrag fails with ErrBusy until
// Confirm or Rollback settles it.
type Editor struct {
	geom      Geometry
	date      string
	resources []slot.Resource
	rows      Rows

	saved   []slot.Slot
	working []slot.Slot

	session *Session
	pending *Pending
}

// NewEditor creates an empty editor with the given geometry.
func NewEditor(g Geometry) *Editor {
	return &Editor{geom: g, rows: NewRows(nil)}
}

// Geometry returns the editor geometry.
func (e *Editor) Geometry() Geometry {
	return e.geom
}

// SetGeometry changes the scale, e.g. after a terminal resize. An active drag is dropped.
func (e *Editor) SetGeometry(g Geometry) {
	e.geom = g
	e.session = nil
}

// Date returns the displayed date.
func (e *Editor) Date() string {
	return e.date
}

// Resources returns the grid rows' resources.
func (e *Editor) Resources() []slot.Resource {
	return e.resources
}

// Rows returns the resource row index.
func (e *Editor) Rows() Rows {
	return e.rows
}

// Load replaces all state with a freshly fetched day. Any drag or pending
// commit belongs to the previous list and is discarded.
func (e *Editor) Load(date string, slots []slot.Slot, resources []slot.Resource) {
	e.date = date
	e.resources = append([]slot.Resource(nil), resources...)
	e.rows = NewRows(e.resources)
	e.saved = slot.Clone(slots)
	slot.SortByStart(e.saved)
	e.working = slot.Clone(e.saved)
	e.session = nil
	e.pending = nil
}

// Reset replaces the slots of the current date with server truth.
func (e *Editor) Reset(slots []slot.Slot) {
	e.Load(e.date, slots, e.resources)
}

// Slots returns a copy of the slots on screen.
func (e *Editor) Slots() []slot.Slot {
	return slot.Clone(e.working)
}

// Saved returns a copy of the last server-confirmed slots.
func (e *Editor) Saved() []slot.Slot {
	return slot.Clone(e.saved)
}

// Slot returns the on-screen slot with the given id.
func (e *Editor) Slot(id string) (slot.Slot, bool) {
	i := slot.Find(e.working, id)
	if i < 0 {
		return slot.Slot{}, false
	}
	return e.working[i], true
}

// Blocks lays out the on-screen slots, with the dragged block at its live position.
func (e *Editor) Blocks() []Block {
	blocks := Layout(e.working, e.rows, e.geom)
	if e.session == nil {
		return blocks
	}
	for i := range blocks {
		if blocks[i].SlotID == e.session.SlotID {
			blocks[i] = e.session.Block(blocks[i])
		}
	}
	return blocks
}

// Dragging returns the active drag session, or nil.
func (e *Editor) Dragging() *Session {
	return e.session
}

// Busy reports whether a commit is in flight.
func (e *Editor) Busy() bool {
	return e.pending != nil
}

// Pending returns the in-flight commit, or nil.
func (e *Editor) Pending() *Pending {
	return e.pending
}

// BeginDrag starts dragging a slot with the pointer at (x, y).
func (e *Editor) BeginDrag(slotID string, mode Mode, x, y float64) error {
	if e.pending != nil {
		return ErrBusy
	}
	if e.session != nil {
		return ErrAlreadyDragging
	}
	for _, b := range Layout(e.working, e.rows, e.geom) {
		if b.SlotID == slotID {
			e.session = Begin(b, mode, x, y, e.rows.Len(), e.geom)
			return nil
		}
	}
	return ErrUnknownSlot
}

// DragTo moves the pointer of the active drag.
func (e *Editor) DragTo(x, y float64) error {
	if e.session == nil {
		return ErrNotDragging
	}
	e.session.Move(x, y)
	return nil
}

// CancelDrag abandons the active drag without any change.
func (e *Editor) CancelDrag() {
	e.session = nil
}

// EndDrag releases the pointer. When the slot's time or resource changed it
// applies the change optimistically, marks it in flight and returns the
// update to send. It returns nil when the drag changed nothing.
func (e *Editor) EndDrag() (*Pending, error) {
	if e.session == nil {
		return nil, ErrNotDragging
	}
	res := e.session.Result()
	e.session = nil

	i := slot.Find(e.working, res.SlotID)
	if i < 0 {
		return nil, ErrUnknownSlot
	}
	before := e.working[i]

	start, end := res.Start, res.End
	if end <= start {
		end = min(start+1, e.geom.DayEnd)
		start = end - 1
	}

	req := slot.UpdateRequest{
		ID:    before.ID,
		Date:  before.Date,
		Start: slot.ClockFromMinutes(start),
		End:   slot.ClockFromMinutes(end),
	}
	if req.Date == "" {
		req.Date = e.date
	}

	resourceChanged := false
	if res.RowChanged && !e.rows.Anonymous() {
		if id := e.rows.ID(res.Row); id != "" && id != before.ResourceID {
			req.ResourceID = id
			resourceChanged = true
		}
	}
	timeChanged := req.Start != clockPrefix(before.Start) || req.End != clockPrefix(before.End)
	if !timeChanged && !resourceChanged {
		return nil, nil
	}

	after := req.Apply(before)
	e.working[i] = after
	e.pending = &Pending{
		Request:         req,
		Before:          before,
		After:           after,
		ResourceChanged: resourceChanged,
	}
	return e.pending, nil
}

// Confirm settles the in-flight commit with the server's copy of the slot.
// A response without an id falls back to the optimistic result.
func (e *Editor) Confirm(updated slot.Slot) error {
	if e.pending == nil {
		return ErrNothingPending
	}
	if updated.ID == "" {
		updated = e.pending.After
	}
	e.pending = nil
	e.Adopt("", updated)
	return nil
}

// Rollback discards every optimistic change and redraws from the last
// server-confirmed list.
func (e *Editor) Rollback() {
	e.working = slot.Clone(e.saved)
	e.session = nil
	e.pending = nil
}

// Insert adds an unconfirmed slot to the screen only.
func (e *Editor) Insert(s slot.Slot) {
	e.working = append(e.working, s)
	slot.SortByStart(e.working)
}

// Adopt records a server-confirmed slot. When replaceID is set, the slot
// with that id (a temporary one) is replaced.
func (e *Editor) Adopt(replaceID string, s slot.Slot) {
	if s.Date != "" && e.date != "" && s.Date != e.date {
		e.working = removeID(e.working, replaceID)
		e.working = removeID(e.working, s.ID)
		e.saved = removeID(e.saved, s.ID)
		return
	}
	if replaceID != "" {
		e.working = removeID(e.working, replaceID)
	}
	e.saved = upsert(e.saved, s)
	e.working = upsert(e.working, s)
}

// Remove takes a slot off the screen, returning it for undo.
func (e *Editor) Remove(id string) (slot.Slot, bool) {
	i := slot.Find(e.working, id)
	if i < 0 {
		return slot.Slot{}, false
	}
	s := e.working[i]
	e.working = removeID(e.working, id)
	return s, true
}

// Forget drops a slot from the server-confirmed list after a successful delete.
func (e *Editor) Forget(id string) {
	e.saved = removeID(e.saved, id)
	e.working = removeID(e.working, id)
}

func upsert(list []slot.Slot, s slot.Slot) []slot.Slot {
	if i := slot.Find(list, s.ID); i >= 0 {
		list[i] = s
	} else {
		list = append(list, s)
	}
	slot.SortByStart(list)
	return list
}

func removeID(list []slot.Slot, id string) []slot.Slot {
	if id == "" {
		return list
	}
	out := list[:0]
	for _, s := range list {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

func clockPrefix(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}
