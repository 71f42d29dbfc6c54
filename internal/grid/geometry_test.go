package grid

import (
	"math"
	"testing"
)

func TestPixelMinuteRoundTrip(t *testing.T) {
	scales := []float64{0.2, 0.25, 1, 1.5, 2, 3.7}
	for _, ppm := range scales {
		g := DefaultGeometry()
		g.PxPerMinute = ppm
		for m := g.DayStart; m <= g.DayEnd; m++ {
			if got := g.PixelToMinutes(g.MinutesToPixel(m)); got != m {
				t.Fatalf("ppm=%v: round trip of %d gave %d", ppm, m, got)
			}
		}
	}
}

func TestPixelToMinutesRounding(t *testing.T) {
	g := DefaultGeometry() // 2px per minute, day starts 08:00
	tests := []struct {
		px   float64
		want int
	}{
		{0, 480},
		{0.9, 480},
		{1, 481}, // half a minute rounds up
		{2, 481},
		{2.9, 481},
		{3, 482},
		{1680, 1320},
	}
	for _, tt := range tests {
		if got := g.PixelToMinutes(tt.px); got != tt.want {
			t.Errorf("PixelToMinutes(%v) = %d, want %d", tt.px, got, tt.want)
		}
	}
}

func TestSpanMinimumWidth(t *testing.T) {
	g := DefaultGeometry()
	left, width := g.Span(600, 660)
	if left != 240 || width != 120 {
		t.Errorf("Span(10:00, 11:00) = (%v, %v), want (240, 120)", left, width)
	}

	_, width = g.Span(600, 600)
	if width != g.MinWidth {
		t.Errorf("zero-length width = %v, want %v", width, g.MinWidth)
	}
}

func TestClamp(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"inside", 5, 0, 10, 5},
		{"below", -3, 0, 10, 0},
		{"above", 12, 0, 10, 10},
		{"at lo", 0, 0, 10, 0},
		{"at hi", 10, 0, 10, 10},
		{"nan", math.NaN(), 0, 10, 0},
		{"+inf", inf, 0, 10, 10},
		{"-inf", -inf, 0, 10, 0},
		{"negative zero", math.Copysign(0, -1), 0, 10, 0},
		{"tiny", math.SmallestNonzeroFloat64, 0, 10, math.SmallestNonzeroFloat64},
		{"max float", math.MaxFloat64, -1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.v, tt.lo, tt.hi)
			if got != tt.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
			}
			if got < tt.lo || got > tt.hi {
				t.Errorf("Clamp result %v outside [%v, %v]", got, tt.lo, tt.hi)
			}
		})
	}
}

func TestClampAlwaysInRange(t *testing.T) {
	values := []float64{-1e308, -1000, -1, -0.5, 0, 0.5, 1, 999, 1e308, math.NaN(), math.Inf(1), math.Inf(-1)}
	bounds := [][2]float64{{0, 0}, {0, 1}, {-5, 5}, {100, 1680}}
	for _, b := range bounds {
		for _, v := range values {
			got := Clamp(v, b[0], b[1])
			if math.IsNaN(got) || got < b[0] || got > b[1] {
				t.Errorf("Clamp(%v, %v, %v) = %v", v, b[0], b[1], got)
			}
		}
	}
}

func TestClampInvertedBounds(t *testing.T) {
	if got := Clamp(5, 10, 0); got != 10 {
		t.Errorf("Clamp with lo > hi = %v, want lo", got)
	}
}

func TestHourTicks(t *testing.T) {
	ticks := HourTicks(DefaultGeometry())
	if len(ticks) != 15 {
		t.Fatalf("got %d ticks, want 15 (08:00..22:00)", len(ticks))
	}
	if ticks[0].Label != "08:00" || ticks[0].Left != 0 {
		t.Errorf("first tick = %+v", ticks[0])
	}
	last := ticks[len(ticks)-1]
	if last.Label != "22:00" || last.Left != 1680 {
		t.Errorf("last tick = %+v", last)
	}
}

func TestHourTicksUnalignedStart(t *testing.T) {
	g := DefaultGeometry()
	g.DayStart = 8*60 + 30
	ticks := HourTicks(g)
	if ticks[0].Label != "09:00" || ticks[0].Left != 60 {
		t.Errorf("first tick = %+v, want 09:00 at 60", ticks[0])
	}
}

func TestGeometryValidate(t *testing.T) {
	if err := DefaultGeometry().Validate(); err != nil {
		t.Fatalf("default geometry invalid: %v", err)
	}

	g := DefaultGeometry()
	g.DayEnd = g.DayStart
	if err := g.Validate(); err != ErrInvalidDayWindow {
		t.Errorf("got %v, want %v", err, ErrInvalidDayWindow)
	}

	g = DefaultGeometry()
	g.PxPerMinute = 0
	if err := g.Validate(); err != ErrInvalidScale {
		t.Errorf("got %v, want %v", err, ErrInvalidScale)
	}

	g = DefaultGeometry()
	g.RowHeight = math.NaN()
	if err := g.Validate(); err != ErrInvalidRowHeight {
		t.Errorf("got %v, want %v", err, ErrInvalidRowHeight)
	}
}
