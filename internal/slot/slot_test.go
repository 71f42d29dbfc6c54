package slot

import (
	"errors"
	"testing"
)

func TestMinutesFromClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:00", 480, false},
		{"10:30", 630, false},
		{"22:00", 1320, false},
		{"23:59", 1439, false},
		{"12:00:00", 720, false},
		{"24:00", 0, true},
		{"10:60", 0, true},
		{"9:00", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := MinutesFromClock(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidClock) {
					t.Fatalf("got error %v, want %v", err, ErrInvalidClock)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("MinutesFromClock(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestClockFromMinutes(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "00:00"},
		{601, "10:01"},
		{1320, "22:00"},
		{-5, "00:00"},
		{1440, "23:59"},
	}
	for _, tt := range tests {
		if got := ClockFromMinutes(tt.in); got != tt.want {
			t.Errorf("ClockFromMinutes(%d) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNewWithDuration(t *testing.T) {
	s, err := NewWithDuration("2024-03-01", "12:00", DefaultDuration, "Иванова", "Телефон: 123", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.End != "12:30" {
		t.Errorf("End = %s, want 12:30", s.End)
	}
	if s.Date != "2024-03-01" {
		t.Errorf("Date = %s, want 2024-03-01", s.Date)
	}
	if s.Notes != "Телефон: 123" {
		t.Errorf("Notes = %q", s.Notes)
	}
	if s.Status != StatusNotConfirmed {
		t.Errorf("Status = %s, want %s", s.Status, StatusNotConfirmed)
	}
}

func TestNewWithDurationAcrossMidnight(t *testing.T) {
	// 23:45 + 30min wraps to 00:15 which is before the start.
	_, err := NewWithDuration("2024-03-01", "23:45", DefaultDuration, "late", "", "")
	if !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("got error %v, want %v", err, ErrEndBeforeStart)
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		start   string
		end     string
		wantErr bool
	}{
		{"valid", "2024-03-01", "10:00", "11:00", false},
		{"equal times", "2024-03-01", "10:00", "10:00", true},
		{"end before start", "2024-03-01", "11:00", "10:00", true},
		{"bad start", "2024-03-01", "1000", "11:00", true},
		{"bad date", "03/01/2024", "10:00", "11:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.date, tt.start, tt.end, "t", "", "A")
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithinDay(t *testing.T) {
	s := Slot{Start: "08:00", End: "22:00"}
	if !s.WithinDay(480, 1320) {
		t.Error("full day window should be within day")
	}
	s.Start = "07:59"
	if s.WithinDay(480, 1320) {
		t.Error("07:59 start should be outside the day")
	}
}

func TestDurationLabel(t *testing.T) {
	tests := []struct {
		start, end string
		want       string
	}{
		{"10:00", "11:00", "1ч"},
		{"10:00", "11:30", "1.5ч"},
		{"10:00", "10:20", "0.3ч"},
		{"10:00", "10:06", "0.1ч"},
		{"10:00", "10:02", "0ч"},
	}
	for _, tt := range tests {
		s := Slot{Start: tt.start, End: tt.end}
		if got := s.DurationLabel(); got != tt.want {
			t.Errorf("%s-%s label = %s, want %s", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestUpdateRequestApply(t *testing.T) {
	base := Slot{ID: "1", Date: "2024-03-01", Start: "10:00", End: "11:00", ResourceID: "A", Title: "x"}
	req := UpdateRequest{ID: "1", Date: "2024-03-01", Start: "10:01", End: "11:01", ResourceID: "B"}

	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := req.Apply(base)
	if got.Start != "10:01" || got.End != "11:01" || got.ResourceID != "B" || got.Title != "x" {
		t.Errorf("Apply = %+v", got)
	}
}

func TestUpdateRequestValidate(t *testing.T) {
	if err := (UpdateRequest{Date: "2024-03-01"}).Validate(); !errors.Is(err, ErrMissingID) {
		t.Errorf("got %v, want %v", err, ErrMissingID)
	}
	if err := (UpdateRequest{ID: "1"}).Validate(); err == nil {
		t.Error("missing date should fail")
	}
	if err := (UpdateRequest{ID: "1", Date: "2024-03-01", Start: "11:00", End: "10:00"}).Validate(); !errors.Is(err, ErrEndBeforeStart) {
		t.Errorf("got %v, want %v", err, ErrEndBeforeStart)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := Slot{ID: "7", Date: "2024-03-01", Start: "12:00", End: "12:30", Title: "t", Notes: "n", ResourceID: "A"}
	snap := s.Snapshot()
	if snap.Date != s.Date || snap.Start != s.Start || snap.End != s.End || snap.Title != s.Title || snap.Notes != s.Notes || snap.ResourceID != s.ResourceID {
		t.Errorf("Snapshot = %+v", snap)
	}
}

func TestCapacity(t *testing.T) {
	slots := []Slot{{Start: "12:00"}, {Start: "12:00:00"}, {Start: "12:30"}}
	if got := FreeAt(slots, "12:00"); got != 0 {
		t.Errorf("FreeAt(12:00) = %d, want 0", got)
	}
	if got := FreeAt(slots, "12:30"); got != 1 {
		t.Errorf("FreeAt(12:30) = %d, want 1", got)
	}
	if got := FreeAt(slots, "13:00"); got != 2 {
		t.Errorf("FreeAt(13:00) = %d, want 2", got)
	}
}

func TestSortByStart(t *testing.T) {
	slots := []Slot{{ID: "b", Start: "12:00"}, {ID: "a", Start: "12:00"}, {ID: "c", Start: "09:00"}}
	SortByStart(slots)
	got := slots[0].ID + slots[1].ID + slots[2].ID
	if got != "cab" {
		t.Errorf("order = %s, want cab", got)
	}
}

func TestStatusLabel(t *testing.T) {
	if got := Status("").Label(); got != "не подтвердилась" {
		t.Errorf("empty status label = %q", got)
	}
	if got := StatusFail.Label(); got != "слив" {
		t.Errorf("fail label = %q", got)
	}
	for _, s := range Statuses() {
		if !s.Valid() {
			t.Errorf("listed status %q is not valid", s)
		}
	}
	if Status("lost").Valid() {
		t.Error("unknown status should be invalid")
	}
}
