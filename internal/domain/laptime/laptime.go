// Package laptime defines the lap-time value type, its total ordering,
// and its display rendering.
package laptime

import (
	"errors"
	"fmt"
	"math"
)

// Field bounds for a well-formed lap time.
const (
	MaxSeconds = 59
	MaxMillis  = 999
)

// ErrInvalid marks a lap time with a field outside its declared bounds.
var ErrInvalid = errors.New("invalid lap time")

// LapTime is a (minutes, seconds, milliseconds) triple representing lap
// duration. It embeds directly into stored scores, so the JSON tags are
// part of the wire contract.
type LapTime struct {
	Minutes int `json:"min"`
	Seconds int `json:"sec"`
	Millis  int `json:"ms"`
}

// Validate reports whether all three fields are within bounds.
// Minutes has no upper bound; seconds and milliseconds do.
func (t LapTime) Validate() error {
	switch {
	case t.Minutes < 0:
		return fmt.Errorf("%w: min must be >= 0, got %d", ErrInvalid, t.Minutes)
	case t.Seconds < 0 || t.Seconds > MaxSeconds:
		return fmt.Errorf("%w: sec must be 0..%d, got %d", ErrInvalid, MaxSeconds, t.Seconds)
	case t.Millis < 0 || t.Millis > MaxMillis:
		return fmt.Errorf("%w: ms must be 0..%d, got %d", ErrInvalid, MaxMillis, t.Millis)
	}
	return nil
}

// TotalMinutes returns the lap time as fractional minutes. This value is
// the comparison key for ranking and delta arithmetic; it is never persisted.
func (t LapTime) TotalMinutes() float64 {
	return float64(t.Minutes) + float64(t.Seconds)/60 + float64(t.Millis)/60000
}

// Faster reports whether t is strictly faster than other.
func (t LapTime) Faster(other LapTime) bool {
	return t.TotalMinutes() < other.TotalMinutes()
}

// Format renders the lap time as "{min}.{sec:02}:{ms:03}", e.g. "1.15:000".
// This exact shape is consumed by the notification payloads and the UI.
func (t LapTime) Format() string {
	return fmt.Sprintf("%d.%02d:%03d", t.Minutes, t.Seconds, t.Millis)
}

// String implements fmt.Stringer using the display format.
func (t LapTime) String() string {
	return t.Format()
}

// DeltaSeconds returns how many seconds slower a is than b.
// Positive when a is the slower lap.
func DeltaSeconds(a, b LapTime) float64 {
	return (a.TotalMinutes() - b.TotalMinutes()) * 60
}

// FromMinutes converts fractional minutes back into a lap-time triple,
// truncating sub-millisecond remainders. Used to render derived values
// such as the field average.
func FromMinutes(total float64) LapTime {
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return LapTime{}
	}
	return LapTime{
		Minutes: int(total),
		Seconds: int(math.Floor(total*60)) % 60,
		Millis:  int(math.Floor(total*60000)) % 1000,
	}
}
