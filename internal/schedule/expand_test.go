package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		shift    string
		wantDays []time.Time
		wantErr  error
	}{
		{
			name:     "full work week yields five slots",
			from:     d(2025, time.January, 6), // Monday
			to:       d(2025, time.January, 10),
			shift:    ShiftMorning,
			wantDays: []time.Time{d(2025, 1, 6), d(2025, 1, 7), d(2025, 1, 8), d(2025, 1, 9), d(2025, 1, 10)},
		},
		{
			name:     "range spanning a weekend skips sat and sun",
			from:     d(2025, time.January, 10), // Friday
			to:       d(2025, time.January, 13), // Monday
			shift:    ShiftAfternoon,
			wantDays: []time.Time{d(2025, 1, 10), d(2025, 1, 13)},
		},
		{
			name:     "single weekday",
			from:     d(2025, time.January, 8),
			to:       d(2025, time.January, 8),
			shift:    ShiftEvening,
			wantDays: []time.Time{d(2025, 1, 8)},
		},
		{
			name:    "single saturday fails",
			from:    d(2025, time.January, 11),
			to:      d(2025, time.January, 11),
			shift:   ShiftMorning,
			wantErr: ErrNoValidDays,
		},
		{
			name:    "weekend-only range fails",
			from:    d(2025, time.January, 11),
			to:      d(2025, time.January, 12),
			shift:   ShiftMorning,
			wantErr: ErrNoValidDays,
		},
		{
			name:    "unknown shift rejected before expansion",
			from:    d(2025, time.January, 6),
			to:      d(2025, time.January, 10),
			shift:   "dawn",
			wantErr: ErrInvalidShift,
		},
		{
			name:     "reversed range is normalized",
			from:     d(2025, time.January, 10),
			to:       d(2025, time.January, 6),
			shift:    ShiftMorning,
			wantDays: []time.Time{d(2025, 1, 6), d(2025, 1, 7), d(2025, 1, 8), d(2025, 1, 9), d(2025, 1, 10)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := Expand(tt.from, tt.to, tt.shift)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, slots)
				return
			}
			require.NoError(t, err)
			require.Len(t, slots, len(tt.wantDays))
			for i, want := range tt.wantDays {
				assert.Equal(t, want, slots[i].Day)
			}
		})
	}
}

func TestExpandWeekdayCountMatchesCalendar(t *testing.T) {
	// Jan 2025 has 23 weekdays; expanding the whole month must produce
	// exactly that many slots.
	slots, err := Expand(d(2025, time.January, 1), d(2025, time.January, 31), ShiftMorning)
	require.NoError(t, err)
	assert.Len(t, slots, 23)
	for _, s := range slots {
		wd := s.Day.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}

func TestExpandSlotWindows(t *testing.T) {
	// Scenario from the booking flow: morning shift for a Monday-Friday
	// range produces 07:00-12:00 windows on each respective date.
	slots, err := Expand(d(2025, time.January, 6), d(2025, time.January, 10), ShiftMorning)
	require.NoError(t, err)
	require.Len(t, slots, 5)
	for _, s := range slots {
		assert.Equal(t, 7, s.StartsAt.Hour())
		assert.Equal(t, 0, s.StartsAt.Minute())
		assert.Equal(t, 12, s.EndsAt.Hour())
		assert.Equal(t, s.Day.Year(), s.StartsAt.Year())
		assert.Equal(t, s.Day.YearDay(), s.StartsAt.YearDay())
		assert.True(t, s.StartsAt.Before(s.EndsAt))
	}
}

func TestExpandIgnoresTimeComponents(t *testing.T) {
	// 23:30 on Monday to 00:15 on Tuesday is still a two-day calendar
	// range, not a 45-minute one.
	from := time.Date(2025, time.January, 6, 23, 30, 0, 0, time.UTC)
	to := time.Date(2025, time.January, 7, 0, 15, 0, 0, time.UTC)
	slots, err := Expand(from, to, ShiftMorning)
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}
