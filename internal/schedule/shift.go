// Package schedule holds the pure scheduling rules of the booking core:
// the fixed shift catalog and the expansion of a date range into the
// concrete per-day reservation windows.  Everything in this package works
// in UTC; conversion to institution-local time is a display concern.
package schedule

import (
	"errors"
	"time"
)

// Shift names accepted by the booking API.
const (
	ShiftMorning   = "morning"
	ShiftAfternoon = "afternoon"
	ShiftEvening   = "evening"
)

// ErrInvalidShift is returned when a shift name is not one of the three
// catalog keys.  The UI constrains input, so hitting this from a request
// indicates a caller bug rather than a user mistake.
var ErrInvalidShift = errors.New("invalid shift")

// Shift is a named time-of-day window with fixed wall-clock boundaries.
type Shift struct {
	Name        string
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// catalog is the single source of truth for shift windows.  The original
// system carried a second, slightly different table for display
// classification; here classification thresholds are derived from these
// booking windows instead (see Classify).
var catalog = map[string]Shift{
	ShiftMorning:   {Name: ShiftMorning, StartHour: 7, EndHour: 12},
	ShiftAfternoon: {Name: ShiftAfternoon, StartHour: 13, EndHour: 18},
	ShiftEvening:   {Name: ShiftEvening, StartHour: 19, EndHour: 22, EndMinute: 30},
}

// Lookup returns the shift registered under the given name.
func Lookup(name string) (Shift, error) {
	s, ok := catalog[name]
	if !ok {
		return Shift{}, ErrInvalidShift
	}
	return s, nil
}

// Window anchors the shift's wall-clock boundaries onto a calendar day and
// returns the concrete [start, end) timestamps in UTC.
func (s Shift) Window(day time.Time) (time.Time, time.Time) {
	y, m, d := day.UTC().Date()
	start := time.Date(y, m, d, s.StartHour, s.StartMinute, 0, 0, time.UTC)
	end := time.Date(y, m, d, s.EndHour, s.EndMinute, 0, 0, time.UTC)
	return start, end
}

// Classify derives the shift name from a reservation start time for
// calendar display.  Boundaries follow the booking catalog: noon starts
// the afternoon, 18:00 starts the evening, anything earlier is morning.
// The hour is extracted in UTC to match how timestamps are stored.
func Classify(start time.Time) string {
	switch h := start.UTC().Hour(); {
	case h >= 18:
		return ShiftEvening
	case h >= 12:
		return ShiftAfternoon
	default:
		return ShiftMorning
	}
}
