package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name       string
		shift      string
		wantErr    bool
		wantStartH int
		wantEndH   int
		wantEndM   int
	}{
		{name: "morning", shift: ShiftMorning, wantStartH: 7, wantEndH: 12},
		{name: "afternoon", shift: ShiftAfternoon, wantStartH: 13, wantEndH: 18},
		{name: "evening ends at half past", shift: ShiftEvening, wantStartH: 19, wantEndH: 22, wantEndM: 30},
		{name: "unknown shift", shift: "night", wantErr: true},
		{name: "empty shift", shift: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Lookup(tt.shift)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidShift)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStartH, s.StartHour)
			assert.Equal(t, tt.wantEndH, s.EndHour)
			assert.Equal(t, tt.wantEndM, s.EndMinute)
		})
	}
}

func TestShiftWindow(t *testing.T) {
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC) // a Monday

	s, err := Lookup(ShiftEvening)
	require.NoError(t, err)
	start, end := s.Window(day)
	assert.Equal(t, time.Date(2025, 1, 6, 19, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 6, 22, 30, 0, 0, time.UTC), end)

	// The time component of the anchor day must not leak into the window.
	noon := time.Date(2025, 1, 6, 12, 45, 9, 0, time.UTC)
	start2, _ := s.Window(noon)
	assert.Equal(t, start, start2)
}

func TestClassify(t *testing.T) {
	day := func(h, m int) time.Time {
		return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
	}
	tests := []struct {
		name  string
		start time.Time
		want  string
	}{
		{"early morning", day(7, 0), ShiftMorning},
		{"late morning", day(11, 59), ShiftMorning},
		{"noon boundary is afternoon", day(12, 0), ShiftAfternoon},
		{"mid afternoon", day(15, 30), ShiftAfternoon},
		{"18:00 boundary is evening", day(18, 0), ShiftEvening},
		{"late evening", day(22, 29), ShiftEvening},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.start))
		})
	}
}

func TestClassifyUsesUTC(t *testing.T) {
	// 23:00 in UTC-4 is 03:00 UTC the next day: still morning, regardless
	// of the server's local zone.
	loc := time.FixedZone("UTC-4", -4*3600)
	start := time.Date(2025, 3, 10, 23, 0, 0, 0, loc)
	assert.Equal(t, ShiftMorning, Classify(start))
}
