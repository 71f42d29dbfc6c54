package ui

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Versuscsdota/MirrorCRM/internal/config"
	"github.com/Versuscsdota/MirrorCRM/internal/db"
	"github.com/Versuscsdota/MirrorCRM/internal/slot"
)

type fakeService struct {
	slots     []slot.Slot
	resources []slot.Resource
	month     []slot.MonthDay
	updates   []slot.UpdateRequest
	creates   []slot.CreateRequest
	deleted   []string
	nextID    int
}

func (f *fakeService) ListDay(_ context.Context, date string) ([]slot.Slot, error) {
	var out []slot.Slot
	for _, s := range f.slots {
		if s.Date == date {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeService) Month(_ context.Context, _ string) ([]slot.MonthDay, error) {
	return f.month, nil
}

func (f *fakeService) Create(_ context.Context, req slot.CreateRequest) (slot.Slot, error) {
	f.creates = append(f.creates, req)
	f.nextID++
	s := slot.Slot{
		ID:         "n" + strconv.Itoa(f.nextID),
		Date:       req.Date,
		Start:      req.Start,
		End:        req.End,
		Title:      req.Title,
		Notes:      req.Notes,
		ResourceID: req.ResourceID,
	}
	f.slots = append(f.slots, s)
	return s, nil
}

func (f *fakeService) Update(_ context.Context, req slot.UpdateRequest) (slot.Slot, error) {
	f.updates = append(f.updates, req)
	i := slot.Find(f.slots, req.ID)
	if i < 0 {
		return slot.Slot{}, errors.New("no such slot")
	}
	f.slots[i] = req.Apply(f.slots[i])
	return f.slots[i], nil
}

func (f *fakeService) Delete(_ context.Context, id, _ string) error {
	i := slot.Find(f.slots, id)
	if i < 0 {
		return errors.New("no such slot")
	}
	f.deleted = append(f.deleted, id)
	f.slots = append(f.slots[:i], f.slots[i+1:]...)
	return nil
}

func (f *fakeService) Resources(_ context.Context) ([]slot.Resource, error) {
	return f.resources, nil
}

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newService() *fakeService {
	return &fakeService{
		slots: []slot.Slot{
			{ID: "s1", Date: "2024-03-01", Start: "10:00", End: "11:00", ResourceID: "A", Title: "Иванова", Status: slot.StatusConfirmed},
			{ID: "s2", Date: "2024-03-01", Start: "12:00", End: "12:30", ResourceID: "B", Title: "Петрова"},
		},
		resources: []slot.Resource{{ID: "A", FullName: "Anna"}, {ID: "B", FullName: "Boris"}},
	}
}

func newTestApp(t *testing.T, svc *fakeService) *App {
	t.Helper()
	DisableColor()
	t.Cleanup(EnableColor)

	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "test.db")

	a := NewApp(svc, cfg)
	a.now = func() time.Time { return fixedNow }
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func run(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a.root.SetOut(&out)
	a.root.SetErr(&out)
	a.root.SetArgs(args)
	err := a.Execute()
	return out.String(), err
}

func TestDayGroupsByEmployee(t *testing.T) {
	a := newTestApp(t, newService())

	out, err := run(t, a, "day")
	require.NoError(t, err)

	assert.Contains(t, out, "Пт 01.03.2024")
	assert.Contains(t, out, "Anna")
	assert.Contains(t, out, "Boris")
	assert.Contains(t, out, "10:00")
	assert.Contains(t, out, "Иванова")
	assert.Less(t, bytes.Index([]byte(out), []byte("Anna")), bytes.Index([]byte(out), []byte("Boris")))
}

func TestDayEmpty(t *testing.T) {
	a := newTestApp(t, newService())

	out, err := run(t, a, "day", "--date=2024-03-02")
	require.NoError(t, err)
	assert.Contains(t, out, "На этот день слотов нет.")
}

func TestDayAcceptsRelativeDate(t *testing.T) {
	a := newTestApp(t, newService())

	out, err := run(t, a, "day", "--date=tomorrow")
	require.NoError(t, err)
	assert.Contains(t, out, "Сб 02.03.2024")

	_, err = run(t, a, "day", "--date=someday")
	require.Error(t, err)
}

func TestMonthShowsCounts(t *testing.T) {
	svc := newService()
	svc.month = []slot.MonthDay{{Date: "2024-03-01", Count: 2}, {Date: "2024-03-15", Count: 3}}
	a := newTestApp(t, svc)

	out, err := run(t, a, "month", "--month=2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "1·2")
	assert.Contains(t, out, "15·3")
	assert.Contains(t, out, "Слотов за месяц: 5")
}

func TestAddDefaultsEndToDuration(t *testing.T) {
	svc := newService()
	a := newTestApp(t, svc)

	out, err := run(t, a, "add", "--start=14:00", "--title=Сидорова", "--resource=A")
	require.NoError(t, err)
	require.Len(t, svc.creates, 1)
	assert.Equal(t, slot.CreateRequest{Date: "2024-03-01", Start: "14:00", End: "14:30", Title: "Сидорова", ResourceID: "A"}, svc.creates[0])
	assert.Contains(t, out, "Создан слот #n1")
}

func TestAddRejectsFullTimeWithoutEmployee(t *testing.T) {
	svc := newService()
	svc.slots = append(svc.slots,
		slot.Slot{ID: "x1", Date: "2024-03-01", Start: "15:00", End: "15:30"},
		slot.Slot{ID: "x2", Date: "2024-03-01", Start: "15:00", End: "15:30"},
	)
	a := newTestApp(t, svc)

	_, err := run(t, a, "add", "--start=15:00")
	require.ErrorIs(t, err, ErrSlotFull)
	assert.Empty(t, svc.creates)
}

func TestAddRejectsSlotOutsideDay(t *testing.T) {
	svc := newService()
	a := newTestApp(t, svc)

	_, err := run(t, a, "add", "--start=21:50", "--resource=A")
	require.ErrorIs(t, err, slot.ErrOutsideDay)
	assert.Empty(t, svc.creates)
}

func TestMoveKeepsDuration(t *testing.T) {
	svc := newService()
	a := newTestApp(t, svc)

	out, err := run(t, a, "move", "s1", "--date=2024-03-01", "--start=13:00", "--resource=B", "--comment=перенос", "--wait", "--timeout=1s")
	require.NoError(t, err)
	require.Len(t, svc.updates, 1)
	assert.Equal(t, "13:00", svc.updates[0].Start)
	assert.Equal(t, "14:00", svc.updates[0].End)
	assert.Equal(t, "B", svc.updates[0].ResourceID)
	assert.Equal(t, "перенос", svc.updates[0].Comment)
	assert.Contains(t, out, "Сервер подтвердил изменение")
}

func TestMoveUnknownSlot(t *testing.T) {
	a := newTestApp(t, newService())

	_, err := run(t, a, "move", "nope", "--date=2024-03-01", "--start=13:00")
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestDeleteThenUndo(t *testing.T) {
	svc := newService()
	a := newTestApp(t, svc)

	out, err := run(t, a, "delete", "s1", "--date=2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, svc.deleted)
	assert.Contains(t, out, "mirrorcrm undo s1")

	out, err = run(t, a, "undo")
	require.NoError(t, err)
	require.Len(t, svc.creates, 1)
	assert.Equal(t, "10:00", svc.creates[0].Start)
	assert.Equal(t, "A", svc.creates[0].ResourceID)
	assert.Contains(t, out, "Восстановлен слот #n1")
}

func TestUndoAfterWindowFails(t *testing.T) {
	svc := newService()
	a := newTestApp(t, svc)

	_, err := run(t, a, "delete", "s2", "--date=2024-03-01")
	require.NoError(t, err)

	a.now = func() time.Time { return fixedNow.Add(db.UndoWindow + time.Second) }
	_, err = run(t, a, "undo", "s2")
	require.ErrorIs(t, err, db.ErrUndoExpired)
	assert.Empty(t, svc.creates)
}

func TestThemeCommand(t *testing.T) {
	a := newTestApp(t, newService())

	out, err := run(t, a, "theme")
	require.NoError(t, err)
	assert.Contains(t, out, "light")
	assert.Contains(t, out, "из конфигурации")

	_, err = run(t, a, "theme", "dark")
	require.NoError(t, err)

	out, err = run(t, a, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	_, err = run(t, a, "theme", "neon")
	require.ErrorIs(t, err, db.ErrInvalidTheme)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0м"},
		{45, "45м"},
		{60, "1ч"},
		{90, "1ч30м"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.minutes))
		})
	}
}
