// Package slot defines the bookable-slot domain types for mirrorcrm.
package slot

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Versuscsdota/MirrorCRM/internal/dateutil"
)

// Validation errors.
var (
	ErrInvalidClock   = errors.New("time must be in HH:MM format")
	ErrEndBeforeStart = errors.New("end time must be after start time")
	ErrOutsideDay     = errors.New("slot must stay within the day window")
	ErrMissingID      = errors.New("slot id is required")
)

// DefaultDuration is the length in minutes of a slot created from a start time only.
const DefaultDuration = 30

// Status is the booking state shown on a slot.
type Status string

const (
	StatusNotConfirmed Status = "not_confirmed"
	StatusConfirmed    Status = "confirmed"
	StatusFail         Status = "fail"
	StatusThinking     Status = "thinking"
	StatusRegistration Status = "registration"
)

// Valid returns true if the status is a known value. Empty is treated as not confirmed.
func (s Status) Valid() bool {
	switch s {
	case "", StatusNotConfirmed, StatusConfirmed, StatusFail, StatusThinking, StatusRegistration:
		return true
	default:
		return false
	}
}

// Label returns the human-readable status shown in the UI.
func (s Status) Label() string {
	switch s {
	case StatusConfirmed:
		return "подтвердилась"
	case StatusFail:
		return "слив"
	case StatusThinking:
		return "ушла на подумать"
	case StatusRegistration:
		return "регистрация"
	default:
		return "не подтвердилась"
	}
}

// Statuses lists the known statuses in display order.
func Statuses() []Status {
	return []Status{StatusNotConfirmed, StatusConfirmed, StatusFail, StatusThinking, StatusRegistration}
}

// Slot is a bookable time interval on one date, optionally assigned to a resource.
type Slot struct {
	ID         string `json:"id"`
	Date       string `json:"date"`  // YYYY-MM-DD
	Start      string `json:"start"` // HH:MM
	End        string `json:"end"`   // HH:MM
	ResourceID string `json:"resourceId,omitempty"`
	Title      string `json:"title,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Status     Status `json:"status,omitempty"`
}

// Resource is a row of the grid, typically an employee.
type Resource struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
}

// MonthDay is the per-day slot count of the month overview.
type MonthDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Marked reports whether the day has any slots.
func (d MonthDay) Marked() bool {
	return d.Count > 0
}

// New creates a validated slot that has not been persisted yet.
// date can be empty (today) or YYYY-MM-DD.
func New(date, start, end, title, notes, resourceID string) (*Slot, error) {
	d, err := dateutil.ParseDate(date)
	if err != nil {
		return nil, err
	}
	s := &Slot{
		Date:       d.Format(dateutil.DateLayout),
		Start:      strings.TrimSpace(start),
		End:        strings.TrimSpace(end),
		ResourceID: resourceID,
		Title:      strings.TrimSpace(title),
		Notes:      strings.TrimSpace(notes),
		Status:     StatusNotConfirmed,
	}
	if err := s.ValidateTimes(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewWithDuration creates a slot ending minutes after start. The end wraps
// around midnight, so a slot that would cross it fails with ErrEndBeforeStart.
func NewWithDuration(date, start string, minutes int, title, notes, resourceID string) (*Slot, error) {
	startMin, err := MinutesFromClock(start)
	if err != nil {
		return nil, fmt.Errorf("start time: %w", err)
	}
	end := ClockFromMinutes((startMin + minutes) % MinutesPerDay)
	return New(date, start, end, title, notes, resourceID)
}

// ValidateTimes checks the clock format of Start and End and that Start < End.
func (s *Slot) ValidateTimes() error {
	start, err := MinutesFromClock(s.Start)
	if err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	end, err := MinutesFromClock(s.End)
	if err != nil {
		return fmt.Errorf("end time: %w", err)
	}
	if end <= start {
		return ErrEndBeforeStart
	}
	return nil
}

// WithinDay reports whether the slot lies inside [dayStart, dayEnd] (minutes).
func (s *Slot) WithinDay(dayStart, dayEnd int) bool {
	start, err1 := MinutesFromClock(s.Start)
	end, err2 := MinutesFromClock(s.End)
	if err1 != nil || err2 != nil {
		return false
	}
	return start >= dayStart && end <= dayEnd && start < end
}

// StartMinutes returns Start as minutes since midnight, 0 when malformed.
func (s *Slot) StartMinutes() int {
	m, _ := MinutesFromClock(s.Start)
	return m
}

// EndMinutes returns End as minutes since midnight, 0 when malformed.
func (s *Slot) EndMinutes() int {
	m, _ := MinutesFromClock(s.End)
	return m
}

// Duration returns the slot length in minutes.
func (s *Slot) Duration() int {
	return s.EndMinutes() - s.StartMinutes()
}

// DurationLabel renders the slot length in hours with one decimal, e.g. "1.5ч".
func (s *Slot) DurationLabel() string {
	return FormatHours(DurationHours(s.StartMinutes(), s.EndMinutes())) + "ч"
}

// TimeLabel renders "10:00–11:00 (1ч)".
func (s *Slot) TimeLabel() string {
	return fmt.Sprintf("%s–%s (%s)", s.Start, s.End, s.DurationLabel())
}

// DisplayTitle returns the title or the generic placeholder.
func (s *Slot) DisplayTitle() string {
	if s.Title == "" {
		return "Слот"
	}
	return s.Title
}

// Snapshot returns the payload needed to re-create a deleted slot.
func (s *Slot) Snapshot() CreateRequest {
	return CreateRequest{
		Date:       s.Date,
		Start:      s.Start,
		End:        s.End,
		Title:      s.Title,
		Notes:      s.Notes,
		ResourceID: s.ResourceID,
	}
}

// CreateRequest is the body of a create call.
type CreateRequest struct {
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Title      string `json:"title"`
	Notes      string `json:"notes,omitempty"`
	ResourceID string `json:"resourceId,omitempty"`
}

// Validate checks the date and times of a create payload.
func (r CreateRequest) Validate() error {
	if _, err := dateutil.ParseDate(r.Date); err != nil || r.Date == "" {
		return dateutil.ErrInvalidDateFormat
	}
	probe := Slot{Start: r.Start, End: r.End}
	return probe.ValidateTimes()
}

// UpdateRequest is the body of an update call. Only non-empty fields are sent.
type UpdateRequest struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Start      string `json:"start,omitempty"`
	End        string `json:"end,omitempty"`
	ResourceID string `json:"resourceId,omitempty"`
	Title      string `json:"title,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Comment    string `json:"comment,omitempty"`
	Status     Status `json:"status,omitempty"`
}

// Validate checks the identifying fields and any time fields present.
func (r UpdateRequest) Validate() error {
	if r.ID == "" {
		return ErrMissingID
	}
	if _, err := dateutil.ParseDate(r.Date); err != nil || r.Date == "" {
		return dateutil.ErrInvalidDateFormat
	}
	if r.Start == "" && r.End == "" {
		return nil
	}
	probe := Slot{Start: r.Start, End: r.End}
	return probe.ValidateTimes()
}

// Apply returns a copy of s with the request's non-empty fields applied.
func (r UpdateRequest) Apply(s Slot) Slot {
	if r.Start != "" {
		s.Start = r.Start
	}
	if r.End != "" {
		s.End = r.End
	}
	if r.ResourceID != "" {
		s.ResourceID = r.ResourceID
	}
	if r.Title != "" {
		s.Title = r.Title
	}
	if r.Notes != "" {
		s.Notes = r.Notes
	}
	if r.Status != "" {
		s.Status = r.Status
	}
	return s
}

// DurationHours returns (end-start) in hours rounded to one decimal place.
func DurationHours(startMin, endMin int) float64 {
	return math.Floor(float64(endMin-startMin)/60*10+0.5) / 10
}

// FormatHours renders hours without a trailing ".0".
func FormatHours(h float64) string {
	if h == math.Trunc(h) {
		return fmt.Sprintf("%d", int(h))
	}
	return fmt.Sprintf("%.1f", h)
}
