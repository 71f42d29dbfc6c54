package integration

import (
	"context"
	"testing"
	"time"

	"github.com/Versuscsdota/MirrorCRM/internal/dateutil"
)

// Dates travel as YYYY-MM-DD strings, so the local zone must never shift a
// day. Late evening far east of UTC is the case that breaks naive code.
func TestTimezoneDates(t *testing.T) {
	_, client := startServer(t)

	zones := []*time.Location{
		time.UTC,
		time.FixedZone("UTC+14", 14*3600),
		time.FixedZone("UTC-11", -11*3600),
	}
	for _, loc := range zones {
		t.Run(loc.String(), func(t *testing.T) {
			now := time.Date(2024, 3, 1, 23, 30, 0, 0, loc)
			date := dateutil.FormatDate(now)
			if date != testDate {
				t.Fatalf("FormatDate: got %s, want %s", date, testDate)
			}

			slots, err := client.ListDay(context.Background(), date)
			if err != nil {
				t.Fatalf("ListDay: %v", err)
			}
			if len(slots) != 2 {
				t.Errorf("expected 2 slots on %s, got %d", date, len(slots))
			}

			cells := dateutil.MonthGrid(now)
			if len(cells) != dateutil.CalendarCells {
				t.Fatalf("expected %d cells, got %d", dateutil.CalendarCells, len(cells))
			}
			// March 2024 starts on a Friday: four days of February come first.
			if cells[4].Date != "2024-03-01" {
				t.Errorf("first of month at cell 4: got %q", cells[4].Date)
			}

			next, err := dateutil.AddDays(date, 1)
			if err != nil {
				t.Fatalf("AddDays: %v", err)
			}
			if next != "2024-03-02" {
				t.Errorf("AddDays: got %s, want 2024-03-02", next)
			}
		})
	}
}
