package schedule

import (
	"errors"
	"time"
)

// ErrNoValidDays is returned when a requested range contains no weekdays,
// e.g. a single Saturday.  The caller must not write anything in that case.
var ErrNoValidDays = errors.New("no valid days in range")

// Slot is one concrete reservation window produced by expanding a range.
type Slot struct {
	Day      time.Time
	StartsAt time.Time
	EndsAt   time.Time
}

// Expand turns an inclusive [from, to] date range and a shift name into one
// Slot per weekday.  Saturdays and Sundays are skipped.  The day count is a
// calendar-day difference, not an elapsed-time difference, so a same-day
// range yields exactly one candidate regardless of the time components of
// the inputs.  A range whose candidates are all weekend days fails with
// ErrNoValidDays.
func Expand(from, to time.Time, shiftName string) ([]Slot, error) {
	shift, err := Lookup(shiftName)
	if err != nil {
		return nil, err
	}
	first := midnightUTC(from)
	last := midnightUTC(to)
	if last.Before(first) {
		first, last = last, first
	}
	days := int(last.Sub(first).Hours() / 24)

	slots := make([]Slot, 0, days+1)
	for i := 0; i <= days; i++ {
		day := first.AddDate(0, 0, i)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		start, end := shift.Window(day)
		slots = append(slots, Slot{Day: day, StartsAt: start, EndsAt: end})
	}
	if len(slots) == 0 {
		return nil, ErrNoValidDays
	}
	return slots, nil
}

// midnightUTC truncates a timestamp to the start of its UTC calendar day.
func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
