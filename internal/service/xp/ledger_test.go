package xp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parisLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	return loc
}

func TestMultiplier(t *testing.T) {
	loc := parisLocation(t)
	ledger := NewLedger(loc)

	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{
			name: "weekday",
			at:   time.Date(2025, 3, 12, 15, 0, 0, 0, loc),
			want: 1,
		},
		{
			name: "sunday local time",
			at:   time.Date(2025, 3, 9, 12, 0, 0, 0, loc),
			want: 2,
		},
		{
			name: "saturday late utc is already sunday in paris",
			at:   time.Date(2025, 3, 8, 23, 30, 0, 0, time.UTC),
			want: 2,
		},
		{
			name: "sunday late utc is already monday in paris",
			at:   time.Date(2025, 3, 9, 23, 30, 0, 0, time.UTC),
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ledger.Multiplier(tt.at))
		})
	}
}

func TestAward(t *testing.T) {
	loc := parisLocation(t)
	ledger := NewLedger(loc)

	sunday := time.Date(2025, 3, 9, 12, 0, 0, 0, loc)
	wednesday := time.Date(2025, 3, 12, 12, 0, 0, 0, loc)

	assert.Equal(t, 10, ledger.Award(10, wednesday))
	assert.Equal(t, 20, ledger.Award(10, sunday))
	assert.Equal(t, 120, ledger.Award(60, sunday))
	assert.Equal(t, 0, ledger.Award(0, sunday))
	assert.Equal(t, 0, ledger.Award(-5, sunday))
}

func TestWeekWindow(t *testing.T) {
	loc := parisLocation(t)
	ledger := NewLedger(loc)

	tests := []struct {
		name      string
		at        time.Time
		wantStart time.Time
	}{
		{
			name:      "midweek",
			at:        time.Date(2025, 3, 12, 15, 30, 0, 0, loc),
			wantStart: time.Date(2025, 3, 10, 0, 0, 0, 0, loc),
		},
		{
			name:      "monday maps to itself",
			at:        time.Date(2025, 3, 10, 0, 0, 0, 0, loc),
			wantStart: time.Date(2025, 3, 10, 0, 0, 0, 0, loc),
		},
		{
			name:      "sunday maps to the previous monday",
			at:        time.Date(2025, 3, 16, 23, 59, 0, 0, loc),
			wantStart: time.Date(2025, 3, 10, 0, 0, 0, 0, loc),
		},
		{
			name:      "dst transition week keeps monday boundaries",
			at:        time.Date(2025, 3, 30, 12, 0, 0, 0, loc),
			wantStart: time.Date(2025, 3, 24, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := ledger.WeekWindow(tt.at)
			assert.True(t, start.Equal(tt.wantStart), "start = %v, want %v", start, tt.wantStart)
			assert.True(t, end.Equal(tt.wantStart.AddDate(0, 0, 7)))
			assert.False(t, tt.at.Before(start))
			assert.True(t, tt.at.Before(end))
		})
	}
}

func TestWeekWindowStableAcrossZones(t *testing.T) {
	loc := parisLocation(t)
	ledger := NewLedger(loc)

	// The same instant expressed in UTC and in Paris time must land in
	// the same week window.
	instant := time.Date(2025, 3, 12, 15, 30, 0, 0, loc)
	startLocal, _ := ledger.WeekWindow(instant)
	startUTC, _ := ledger.WeekWindow(instant.UTC())
	assert.True(t, startLocal.Equal(startUTC))
}
