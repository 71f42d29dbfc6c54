// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Versuscsdota/MirrorCRM/internal/grid"
	"github.com/Versuscsdota/MirrorCRM/internal/poll"
	"github.com/Versuscsdota/MirrorCRM/internal/schedule"
	"github.com/Versuscsdota/MirrorCRM/internal/slot"
)

// Store is the local state the TUI persists to.
type Store interface {
	SaveDeleted(ctx context.Context, s slot.Slot, at time.Time) error
	TakeDeleted(ctx context.Context, id string, now time.Time) (slot.Slot, error)
	SetTheme(ctx context.Context, name string) error
}

// ErrSlotMissing is returned by Verify when the slot is not on the server yet.
var ErrSlotMissing = errors.New("slot not found on server")

// DayLoadedMsg is sent when a day's slots are loaded.
type DayLoadedMsg struct {
	Date      string
	Slots     []slot.Slot
	Resources []slot.Resource
	// ResourcesErr is set when the employee list could not be fetched;
	// the day still renders on a single anonymous row.
	ResourcesErr error
}

// DayLoadFailedMsg is sent when a day's slots could not be loaded.
type DayLoadFailedMsg struct {
	Date string
	Err  error
}

// MonthLoadedMsg is sent when the month overview is loaded.
type MonthLoadedMsg struct {
	Month string
	Days  []slot.MonthDay
}

// SlotUpdatedMsg is sent when the server accepted a drag commit.
type SlotUpdatedMsg struct {
	Slot    slot.Slot
	Pending grid.Pending
}

// UpdateFailedMsg is sent when the server rejected a drag commit.
type UpdateFailedMsg struct {
	Err     error
	Pending grid.Pending
}

// StatusChangedMsg is sent when the server accepted a status change.
type StatusChangedMsg struct {
	Slot slot.Slot
}

// SlotCreatedMsg is sent when a new slot was stored.
type SlotCreatedMsg struct {
	TempID string
	Slot   slot.Slot
}

// CreateFailedMsg is sent when creating a slot failed.
type CreateFailedMsg struct {
	TempID string
	Err    error
}

// SlotDeletedMsg is sent when the server deleted a slot.
type SlotDeletedMsg struct {
	Slot slot.Slot
	// UndoErr is set when the snapshot could not be kept; undo is unavailable.
	UndoErr error
}

// DeleteFailedMsg is sent when deleting a slot failed.
type DeleteFailedMsg struct {
	Slot slot.Slot
	Err  error
}

// SlotRestoredMsg is sent when undo re-created a deleted slot.
type SlotRestoredMsg struct {
	OldID string
	Slot  slot.Slot
}

// UndoExpiredMsg is sent when the undo window for a deleted slot closes.
type UndoExpiredMsg struct {
	ID string
}

// SyncedMsg is sent when the server list reflects a commit.
type SyncedMsg struct {
	Date  string
	Slots []slot.Slot
}

// SyncFailedMsg is sent when the server did not reflect a commit in time.
type SyncFailedMsg struct {
	Err error
}

// ThemeSavedMsg is sent when the theme preference was persisted.
type ThemeSavedMsg struct {
	Name string
}

// CopiedMsg is sent after text was copied to the clipboard.
type CopiedMsg struct {
	Text string
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadDay loads the slots and employees for a date.
func LoadDay(svc schedule.Service, date string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		slots, err := svc.ListDay(ctx, date)
		if err != nil {
			return DayLoadFailedMsg{Date: date, Err: err}
		}

		resources, err := svc.Resources(ctx)
		return DayLoadedMsg{Date: date, Slots: slots, Resources: resources, ResourcesErr: err}
	}
}

// LoadMonth loads the per-day slot counts for a month.
func LoadMonth(svc schedule.Service, month string) tea.Cmd {
	return func() tea.Msg {
		days, err := svc.Month(context.Background(), month)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return MonthLoadedMsg{Month: month, Days: days}
	}
}

// CommitUpdate sends a drag result to the server. Commits are never retried.
func CommitUpdate(svc schedule.Service, p grid.Pending) tea.Cmd {
	return func() tea.Msg {
		s, err := svc.Update(context.Background(), p.Request)
		if err != nil {
			return UpdateFailedMsg{Err: err, Pending: p}
		}
		return SlotUpdatedMsg{Slot: s, Pending: p}
	}
}

// UpdateStatus sends a status change for a slot.
func UpdateStatus(svc schedule.Service, s slot.Slot, status slot.Status) tea.Cmd {
	return func() tea.Msg {
		req := slot.UpdateRequest{ID: s.ID, Date: s.Date, Status: status}
		updated, err := svc.Update(context.Background(), req)
		if err != nil {
			return ErrMsg{Err: err}
		}
		if updated.ID == "" {
			updated = req.Apply(s)
		}
		return StatusChangedMsg{Slot: updated}
	}
}

// Create stores a new slot. tempID identifies the optimistic copy shown meanwhile.
func Create(svc schedule.Service, tempID string, req slot.CreateRequest) tea.Cmd {
	return func() tea.Msg {
		s, err := svc.Create(context.Background(), req)
		if err != nil {
			return CreateFailedMsg{TempID: tempID, Err: err}
		}
		return SlotCreatedMsg{TempID: tempID, Slot: s}
	}
}

// Delete removes a slot on the server and keeps a snapshot for undo.
func Delete(svc schedule.Service, store Store, s slot.Slot, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		if err := svc.Delete(ctx, s.ID, s.Date); err != nil {
			return DeleteFailedMsg{Slot: s, Err: err}
		}

		var undoErr error
		if store != nil {
			undoErr = store.SaveDeleted(ctx, s, now())
		}
		return SlotDeletedMsg{Slot: s, UndoErr: undoErr}
	}
}

// Undo re-creates a deleted slot from its snapshot.
func Undo(svc schedule.Service, store Store, id string, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		snapshot, err := store.TakeDeleted(ctx, id, now())
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("undo: %w", err)}
		}

		restored, err := svc.Create(ctx, snapshot.Snapshot())
		if err != nil {
			return ErrMsg{Err: err}
		}
		return SlotRestoredMsg{OldID: id, Slot: restored}
	}
}

// UndoTimeout fires UndoExpiredMsg once the undo window has passed.
func UndoTimeout(id string, window time.Duration) tea.Cmd {
	return tea.Tick(window, func(time.Time) tea.Msg {
		return UndoExpiredMsg{ID: id}
	})
}

// Verify polls the day until the server shows want with its committed
// times and resource.
func Verify(svc schedule.Service, want slot.Slot, opts poll.Options) tea.Cmd {
	return func() tea.Msg {
		var latest []slot.Slot
		err := poll.Until(context.Background(), opts, func(ctx context.Context) (bool, error) {
			slots, err := svc.ListDay(ctx, want.Date)
			if err != nil {
				return false, err
			}
			latest = slots
			i := slot.Find(slots, want.ID)
			if i < 0 {
				return false, ErrSlotMissing
			}
			return Matches(slots[i], want), nil
		})
		if err != nil {
			return SyncFailedMsg{Err: err}
		}
		return SyncedMsg{Date: want.Date, Slots: latest}
	}
}

// Matches reports whether got carries the committed placement of want.
func Matches(got, want slot.Slot) bool {
	if got.Start != want.Start || got.End != want.End {
		return false
	}
	return want.ResourceID == "" || got.ResourceID == want.ResourceID
}

// SaveTheme persists the theme preference.
func SaveTheme(store Store, name string) tea.Cmd {
	return func() tea.Msg {
		if err := store.SetTheme(context.Background(), name); err != nil {
			return ErrMsg{Err: err}
		}
		return ThemeSavedMsg{Name: name}
	}
}

// Copy writes text to the system clipboard.
func Copy(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return CopiedMsg{Text: text}
	}
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
