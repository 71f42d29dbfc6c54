package slot

import (
	"fmt"
	"sort"
)

// MinutesPerDay is 24 hours * 60 minutes.
const MinutesPerDay = 24 * 60

// MinutesFromClock converts "HH:MM" (or "HH:MM:SS", seconds ignored) to minutes since midnight.
func MinutesFromClock(hm string) (int, error) {
	if len(hm) > 5 {
		hm = hm[:5]
	}
	if len(hm) != 5 || hm[2] != ':' {
		return 0, ErrInvalidClock
	}
	digits := [4]byte{hm[0], hm[1], hm[3], hm[4]}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, ErrInvalidClock
		}
	}
	hours := int(hm[0]-'0')*10 + int(hm[1]-'0')
	mins := int(hm[3]-'0')*10 + int(hm[4]-'0')
	if hours > 23 || mins > 59 {
		return 0, ErrInvalidClock
	}
	return hours*60 + mins, nil
}

// ClockFromMinutes converts minutes since midnight to "HH:MM".
// Values are clamped to [0, 23:59].
func ClockFromMinutes(m int) string {
	if m < 0 {
		m = 0
	}
	if m >= MinutesPerDay {
		m = MinutesPerDay - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ValidateClock checks that s is a valid "HH:MM" string.
func ValidateClock(s string) error {
	_, err := MinutesFromClock(s)
	return err
}

// SortByStart orders slots by start time, then id, in place.
func SortByStart(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Start != slots[j].Start {
			return slots[i].Start < slots[j].Start
		}
		return slots[i].ID < slots[j].ID
	})
}

// Find returns the index of the slot with the given id, or -1.
func Find(slots []Slot, id string) int {
	for i := range slots {
		if slots[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy of the slice.
func Clone(slots []Slot) []Slot {
	if slots == nil {
		return nil
	}
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}

// CountAt returns how many slots start at the given "HH:MM" time.
func CountAt(slots []Slot, start string) int {
	n := 0
	for _, s := range slots {
		if len(s.Start) >= 5 && s.Start[:5] == start {
			n++
		}
	}
	return n
}

// Capacity is the number of bookings a single start time holds in the
// resource-less calendar.
const Capacity = 2

// FreeAt returns the remaining capacity at the given start time, never negative.
func FreeAt(slots []Slot, start string) int {
	return max(0, Capacity-CountAt(slots, start))
}
