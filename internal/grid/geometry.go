// Package grid implements the resource x time scheduling grid: geometry,
// block layout, the pointer drag state machine and the optimistic editor.
package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/Versuscsdota/MirrorCRM/internal/slot"
)

// Geometry errors.
var (
	ErrInvalidDayWindow = errors.New("day start must be before day end")
	ErrInvalidScale     = errors.New("pixels per minute must be positive")
	ErrInvalidRowHeight = errors.New("row height must be positive")
)

const (
	// DefaultDayStart is 08:00 in minutes since midnight.
	DefaultDayStart = 8 * 60
	// DefaultDayEnd is 22:00 in minutes since midnight.
	DefaultDayEnd = 22 * 60
	// DefaultPxPerMinute is the horizontal scale.
	DefaultPxPerMinute = 2
	// DefaultMinWidth keeps zero-length blocks visible and grabbable.
	DefaultMinWidth = 6
	// DefaultRowHeight is the height of one resource row.
	DefaultRowHeight = 56
	// DefaultRowThreshold is the vertical travel before a drag switches rows.
	DefaultRowThreshold = 10
)

// Geometry maps time-of-day onto the horizontal axis and resources onto rows.
// Units are abstract pixels; the renderer decides what one pixel is.
type Geometry struct {
	DayStart     int     // minutes from midnight
	DayEnd       int     // minutes from midnight
	PxPerMinute  float64 // horizontal scale
	MinWidth     float64 // floor for block width
	RowHeight    float64 // vertical size of a resource row
	RowThreshold float64 // |dy| beyond which a move drag targets another row
}

// DefaultGeometry returns the 08:00-22:00 grid at 2px per minute.
func DefaultGeometry() Geometry {
	return Geometry{
		DayStart:     DefaultDayStart,
		DayEnd:       DefaultDayEnd,
		PxPerMinute:  DefaultPxPerMinute,
		MinWidth:     DefaultMinWidth,
		RowHeight:    DefaultRowHeight,
		RowThreshold: DefaultRowThreshold,
	}
}

// Validate checks that the geometry can place blocks.
func (g Geometry) Validate() error {
	if g.DayStart < 0 || g.DayEnd > slot.MinutesPerDay || g.DayStart >= g.DayEnd {
		return ErrInvalidDayWindow
	}
	if !(g.PxPerMinute > 0) {
		return ErrInvalidScale
	}
	if !(g.RowHeight > 0) {
		return ErrInvalidRowHeight
	}
	if g.MinWidth < 0 || g.MinWidth > g.DayWidth() {
		return fmt.Errorf("min width %.1f outside [0, %.1f]", g.MinWidth, g.DayWidth())
	}
	return nil
}

// DayWidth is the width of the whole day window.
func (g Geometry) DayWidth() float64 {
	return float64(g.DayEnd-g.DayStart) * g.PxPerMinute
}

// MinutesToPixel converts minutes since midnight to a horizontal offset.
func (g Geometry) MinutesToPixel(m int) float64 {
	return float64(m-g.DayStart) * g.PxPerMinute
}

// PixelToMinutes converts a horizontal offset back to minutes since midnight,
// rounding to the nearest minute with halves rounded up.
func (g Geometry) PixelToMinutes(px float64) int {
	return roundHalfUp(px/g.PxPerMinute) + g.DayStart
}

// Span returns the left offset and width of a block covering [start, end).
// The width never drops below MinWidth.
func (g Geometry) Span(start, end int) (left, width float64) {
	left = g.MinutesToPixel(start)
	width = math.Max(g.MinWidth, float64(end-start)*g.PxPerMinute)
	return left, width
}

// Times converts block geometry back to start/end minutes.
func (g Geometry) Times(left, width float64) (start, end int) {
	return g.PixelToMinutes(left), g.PixelToMinutes(left + width)
}

// Clamp returns v limited to [lo, hi]. A NaN v yields lo, and lo wins when lo > hi.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	r := math.Max(lo, math.Min(hi, v))
	if math.IsNaN(r) {
		return lo
	}
	return r
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// roundHalfUp rounds like Math.round: x.5 goes towards +Inf.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Tick is an hour mark on the time axis.
type Tick struct {
	Minute int
	Left   float64
	Label  string
}

// HourTicks returns a tick at every 60-minute boundary from DayStart to DayEnd inclusive.
func HourTicks(g Geometry) []Tick {
	first := g.DayStart
	if rem := first % 60; rem != 0 {
		first += 60 - rem
	}
	var ticks []Tick
	for m := first; m <= g.DayEnd; m += 60 {
		ticks = append(ticks, Tick{
			Minute: m,
			Left:   g.MinutesToPixel(m),
			Label:  fmt.Sprintf("%02d:00", m/60),
		})
	}
	return ticks
}
