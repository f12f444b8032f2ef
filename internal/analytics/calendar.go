// Package analytics holds the booking aggregation and trend forecasting
// pipeline. Every function here is pure: it works on an in-memory snapshot
// and an explicit "now", so results are reproducible for a given input.
package analytics

import (
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// Calendar anchors day, week and month boundaries to one location.
// Weeks start on Sunday.
type Calendar struct {
	Loc *time.Location
}

func (c Calendar) in(t time.Time) time.Time {
	if c.Loc == nil {
		return t.UTC()
	}
	return t.In(c.Loc)
}

func (c Calendar) DayStart(t time.Time) time.Time {
	t = c.in(t)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (c Calendar) WeekStart(t time.Time) time.Time {
	day := c.DayStart(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func (c Calendar) MonthStart(t time.Time) time.Time {
	t = c.in(t)
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// DateKey formats the calendar date of t, e.g. "2024-03-17".
func (c Calendar) DateKey(t time.Time) string {
	return c.in(t).Format(dateLayout)
}

// Window is the half-open interval [From, To). A zero To leaves the window
// open-ended, which is how "up to now" windows are expressed: the snapshot
// was read at now, so nothing later can be in it.
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) Contains(t time.Time) bool {
	if t.Before(w.From) {
		return false
	}
	return w.To.IsZero() || t.Before(w.To)
}

// Trailing is [now-d, now].
func Trailing(now time.Time, d time.Duration) Window {
	return Window{From: now.Add(-d)}
}

// CurrentMonth is [first day of now's month, now].
func (c Calendar) CurrentMonth(now time.Time) Window {
	return Window{From: c.MonthStart(now)}
}

// PreviousMonth is [first day of last month, first day of this month).
func (c Calendar) PreviousMonth(now time.Time) Window {
	start := c.MonthStart(now)
	return Window{From: start.AddDate(0, -1, 0), To: start}
}

// Today is [midnight, now].
func (c Calendar) Today(now time.Time) Window {
	return Window{From: c.DayStart(now)}
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GrowthRate is the percentage change from previous to current, rounded to
// two decimals. A zero (or negative) base yields 0 rather than an infinite
// or misleading jump.
func GrowthRate(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return Round2((current - previous) / previous * 100)
}
