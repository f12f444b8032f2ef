package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGrowthRate(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     float64
	}{
		{"zero base with growth", 600, 0, 0},
		{"zero base and zero current", 0, 0, 0},
		{"doubling", 200, 100, 100},
		{"decline", 75, 100, -25},
		{"fractional rounds to cents", 1, 3, -66.67},
		{"five fold", 600, 100, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GrowthRate(tt.current, tt.previous))
		})
	}
}

func TestCalendar_WeekStartIsSunday(t *testing.T) {
	assert.Equal(t, time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC), utc.WeekStart(now))

	sunday := time.Date(2024, time.March, 17, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC), utc.WeekStart(sunday))
}

func TestCalendar_UsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	cal := Calendar{Loc: tokyo}
	// 20:00 UTC on the 16th is already the 17th in Tokyo.
	ts := time.Date(2024, time.March, 16, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-17", cal.DateKey(ts))
	assert.Equal(t, "2024-03-16", utc.DateKey(ts))
}

func TestCalendar_MonthWindows(t *testing.T) {
	cur := utc.CurrentMonth(now)
	prev := utc.PreviousMonth(now)

	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), cur.From)
	assert.True(t, cur.To.IsZero())
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), prev.From)
	assert.Equal(t, cur.From, prev.To)

	jan := time.Date(2024, time.January, 31, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), utc.PreviousMonth(jan).From)
}

func TestWindow_Contains(t *testing.T) {
	w := Window{From: day(2024, time.March, 1), To: day(2024, time.March, 2)}

	assert.True(t, w.Contains(w.From))
	assert.False(t, w.Contains(w.To))
	assert.False(t, w.Contains(w.From.Add(-time.Second)))
	assert.True(t, Trailing(now, time.Hour).Contains(now.Add(time.Minute)))
}
