package grid

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Versuscsdota/MirrorCRM/internal/slot"
)

func editorFixture() *Editor {
	e := NewEditor(DefaultGeometry())
	e.Load("2024-03-01", []slot.Slot{
		{ID: "s1", Date: "2024-03-01", Start: "10:00", End: "11:00", ResourceID: "A", Title: "Casting"},
		{ID: "s2", Date: "2024-03-01", Start: "12:00", End: "12:30", ResourceID: "B", Title: "Interview"},
	}, []slot.Resource{
		{ID: "A", FullName: "Anna"},
		{ID: "B", FullName: "Boris"},
		{ID: "C", FullName: "Clara"},
	})
	return e
}

func blockOf(t *testing.T, e *Editor, id string) Block {
	t.Helper()
	for _, b := range e.Blocks() {
		if b.SlotID == id {
			return b
		}
	}
	t.Fatalf("block %s not found", id)
	return Block{}
}

func TestEditorDragRightOneMinute(t *testing.T) {
	e := editorFixture()
	g := e.Geometry()
	b := blockOf(t, e, "s1")
	x := b.Left + b.Width/2

	if err := e.BeginDrag("s1", ModeMove, x, 0); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	if err := e.DragTo(x+g.PxPerMinute, 0); err != nil {
		t.Fatalf("DragTo: %v", err)
	}
	p, err := e.EndDrag()
	if err != nil {
		t.Fatalf("EndDrag: %v", err)
	}
	if p == nil {
		t.Fatal("expected a pending update")
	}

	want := slot.UpdateRequest{ID: "s1", Date: "2024-03-01", Start: "10:01", End: "11:01"}
	if p.Request != want {
		t.Errorf("request = %+v, want %+v", p.Request, want)
	}
	if !e.Busy() {
		t.Error("editor should be busy while the commit is in flight")
	}
}

func TestEditorDragHalfMinuteRoundsUp(t *testing.T) {
	e := editorFixture()
	b := blockOf(t, e, "s1")

	_ = e.BeginDrag("s1", ModeMove, b.Left, 0)
	_ = e.DragTo(b.Left+3, 0) // 1.5 minutes at 2px per minute
	p, err := e.EndDrag()
	if err != nil || p == nil {
		t.Fatalf("EndDrag = %v, %v", p, err)
	}
	if p.Request.Start != "10:02" || p.Request.End != "11:02" {
		t.Errorf("request = %+v, want 10:02-11:02", p.Request)
	}
}

func TestEditorClickWithoutMovementSendsNothing(t *testing.T) {
	e := editorFixture()
	b := blockOf(t, e, "s1")

	_ = e.BeginDrag("s1", ModeMove, b.Left+10, 5)
	_ = e.DragTo(b.Left+10.4, 9)
	p, err := e.EndDrag()
	if err != nil {
		t.Fatalf("EndDrag: %v", err)
	}
	if p != nil {
		t.Errorf("expected no update, got %+v", p.Request)
	}
	if e.Busy() {
		t.Error("editor should not be busy")
	}
}

func TestEditorReassignResource(t *testing.T) {
	e := editorFixture()
	g := e.Geometry()
	b := blockOf(t, e, "s1")

	_ = e.BeginDrag("s1", ModeMove, b.Left+5, 10)
	_ = e.DragTo(b.Left+5, 10+g.RowHeight)

	live := blockOf(t, e, "s1")
	if live.Row != 1 {
		t.Errorf("live row = %d, want 1", live.Row)
	}
	if row, ok := e.Dragging().DropTarget(); !ok || row != 1 {
		t.Errorf("drop target = %d %v, want 1", row, ok)
	}

	p, err := e.EndDrag()
	if err != nil || p == nil {
		t.Fatalf("EndDrag = %v, %v", p, err)
	}
	if !p.ResourceChanged || p.Request.ResourceID != "B" {
		t.Errorf("request = %+v, want resource B", p.Request)
	}
	if p.Request.Start != "10:00" || p.Request.End != "11:00" {
		t.Errorf("time should be unchanged, got %s-%s", p.Request.Start, p.Request.End)
	}

	if err := e.Confirm(slot.Slot{}); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	got, _ := e.Slot("s1")
	if got.ResourceID != "B" {
		t.Errorf("resource after confirm = %s, want B", got.ResourceID)
	}
	saved := e.Saved()
	if saved[slot.Find(saved, "s1")].ResourceID != "B" {
		t.Error("confirmed change should be in the saved list")
	}
	if blockOf(t, e, "s1").Row != 1 {
		t.Error("block should be rendered in the new row")
	}
}

func TestEditorSingleFlight(t *testing.T) {
	e := editorFixture()
	b := blockOf(t, e, "s1")

	_ = e.BeginDrag("s1", ModeResizeRight, b.Right(), 0)
	_ = e.DragTo(b.Right()+60, 0)
	if _, err := e.EndDrag(); err != nil {
		t.Fatalf("EndDrag: %v", err)
	}

	if err := e.BeginDrag("s2", ModeMove, 0, 0); !errors.Is(err, ErrBusy) {
		t.Fatalf("second drag error = %v, want %v", err, ErrBusy)
	}

	if err := e.Confirm(slot.Slot{ID: "s1", Date: "2024-03-01", Start: "10:00", End: "11:30", ResourceID: "A"}); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if err := e.BeginDrag("s2", ModeMove, 0, 0); err != nil {
		t.Fatalf("drag after confirm: %v", err)
	}
}

func TestEditorAlreadyDragging(t *testing.T) {
	e := editorFixture()
	_ = e.BeginDrag("s1", ModeMove, 0, 0)
	if err := e.BeginDrag("s2", ModeMove, 0, 0); !errors.Is(err, ErrAlreadyDragging) {
		t.Errorf("got %v, want %v", err, ErrAlreadyDragging)
	}
	e.CancelDrag()
	if e.Dragging() != nil {
		t.Error("CancelDrag should clear the session")
	}
	if _, err := e.EndDrag(); !errors.Is(err, ErrNotDragging) {
		t.Errorf("got %v, want %v", err, ErrNotDragging)
	}
}

func TestEditorUnknownSlot(t *testing.T) {
	e := editorFixture()
	if err := e.BeginDrag("nope", ModeMove, 0, 0); !errors.Is(err, ErrUnknownSlot) {
		t.Errorf("got %v, want %v", err, ErrUnknownSlot)
	}
}

func TestEditorRollbackRestoresServerState(t *testing.T) {
	e := editorFixture()
	before := e.Saved()
	g := e.Geometry()

	// Optimistic create that never got confirmed.
	e.Insert(slot.Slot{ID: "tmp-1", Date: "2024-03-01", Start: "15:00", End: "15:30", ResourceID: "C"})

	b := blockOf(t, e, "s1")
	_ = e.BeginDrag("s1", ModeMove, b.Left, 0)
	_ = e.DragTo(b.Left+30*g.PxPerMinute, g.RowHeight*2)
	p, err := e.EndDrag()
	if err != nil || p == nil {
		t.Fatalf("EndDrag = %v, %v", p, err)
	}

	moved, _ := e.Slot("s1")
	if moved.Start != "10:30" || moved.ResourceID != "C" {
		t.Fatalf("optimistic slot = %+v", moved)
	}

	// The server rejected the update.
	e.Rollback()

	if !reflect.DeepEqual(e.Slots(), before) {
		t.Errorf("slots after rollback = %+v, want %+v", e.Slots(), before)
	}
	if e.Busy() {
		t.Error("rollback should clear the in-flight commit")
	}
	if len(e.Blocks()) != len(before) {
		t.Errorf("rendered %d blocks, want %d", len(e.Blocks()), len(before))
	}
}

func TestEditorConfirmWithoutPending(t *testing.T) {
	e := editorFixture()
	if err := e.Confirm(slot.Slot{ID: "s1"}); !errors.Is(err, ErrNothingPending) {
		t.Errorf("got %v, want %v", err, ErrNothingPending)
	}
}

func TestEditorLoadDiscardsPending(t *testing.T) {
	e := editorFixture()
	b := blockOf(t, e, "s1")
	_ = e.BeginDrag("s1", ModeMove, b.Left, 0)
	_ = e.DragTo(b.Left+20, 0)
	_, _ = e.EndDrag()

	e.Load("2024-03-02", nil, e.Resources())

	if e.Busy() || e.Date() != "2024-03-02" || len(e.Slots()) != 0 {
		t.Errorf("load should reset the editor: busy=%v date=%s slots=%d", e.Busy(), e.Date(), len(e.Slots()))
	}
}

func TestEditorCreateAndDeleteFlow(t *testing.T) {
	e := editorFixture()

	e.Insert(slot.Slot{ID: "tmp-1", Date: "2024-03-01", Start: "09:00", End: "09:30", ResourceID: "C"})
	if _, ok := e.Slot("tmp-1"); !ok {
		t.Fatal("optimistic insert should be on screen")
	}
	if slot.Find(e.Saved(), "tmp-1") >= 0 {
		t.Fatal("optimistic insert must not be in the saved list")
	}

	e.Adopt("tmp-1", slot.Slot{ID: "s3", Date: "2024-03-01", Start: "09:00", End: "09:30", ResourceID: "C"})
	if _, ok := e.Slot("tmp-1"); ok {
		t.Error("temporary slot should be replaced")
	}
	if got := e.Slots()[0].ID; got != "s3" {
		t.Errorf("first slot = %s, want s3 (sorted by start)", got)
	}

	removed, ok := e.Remove("s3")
	if !ok || removed.ID != "s3" {
		t.Fatalf("Remove = %+v %v", removed, ok)
	}
	if slot.Find(e.Saved(), "s3") < 0 {
		t.Error("unconfirmed delete should stay in the saved list")
	}
	e.Forget("s3")
	if slot.Find(e.Saved(), "s3") >= 0 {
		t.Error("confirmed delete should leave the saved list")
	}
}

func TestEditorAdoptOtherDate(t *testing.T) {
	e := editorFixture()
	e.Adopt("", slot.Slot{ID: "x", Date: "2024-03-05", Start: "10:00", End: "11:00", ResourceID: "A"})
	if _, ok := e.Slot("x"); ok {
		t.Error("slot for another date should not be shown")
	}
}

func TestLayoutAnonymousRow(t *testing.T) {
	slots := []slot.Slot{
		{ID: "a", Start: "12:00", End: "12:30"},
		{ID: "b", Start: "12:00", End: "12:30"},
	}
	blocks := Layout(slots, NewRows(nil), DefaultGeometry())
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	for _, b := range blocks {
		if b.Row != 0 || b.Left != 480 || b.Width != 60 {
			t.Errorf("block %+v, want row 0 left 480 width 60", b)
		}
	}
}

func TestLayoutSkipsUnknownResource(t *testing.T) {
	slots := []slot.Slot{{ID: "a", Start: "12:00", End: "12:30", ResourceID: "ghost"}}
	blocks := Layout(slots, NewRows([]slot.Resource{{ID: "A"}}), DefaultGeometry())
	if len(blocks) != 0 {
		t.Errorf("got %d blocks, want 0", len(blocks))
	}
}
