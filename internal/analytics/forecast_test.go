package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
)

func weeks(counts ...int) []WeekBucket {
	out := make([]WeekBucket, len(counts))
	for i, c := range counts {
		out[i] = WeekBucket{Bookings: c, Revenue: float64(c) * 100}
	}
	return out
}

func TestWeeklyBuckets_GroupsBySundayAscending(t *testing.T) {
	bookings := []domain.Booking{
		booking("b4", "h1", 40, day(2024, time.March, 18)),
		booking("b1", "h1", 10, day(2024, time.March, 3)),
		booking("b2", "h1", 20, day(2024, time.March, 5)),
		booking("b3", "h1", 30, day(2024, time.March, 12)),
		booking("ancient", "h1", 99, day(2023, time.December, 1)),
	}

	got := WeeklyBuckets(bookings, utc, Trailing(now, HistoryWindow))

	require.Len(t, got, 3)
	assert.Equal(t, "2024-03-03", got[0].Week)
	assert.Equal(t, 2, got[0].Bookings)
	assert.Equal(t, 30.0, got[0].Revenue)
	assert.Equal(t, "2024-03-10", got[1].Week)
	assert.Equal(t, "2024-03-17", got[2].Week)
}

func TestFitLine(t *testing.T) {
	line := FitLine([]float64{10, 12, 14})

	assert.InDelta(t, 2.0, line.Slope, 1e-9)
	assert.InDelta(t, 10.0, line.Intercept, 1e-9)
	assert.Equal(t, Line{}, FitLine([]float64{7}))
	assert.Equal(t, Line{}, FitLine(nil))
}

func TestProject_LinearTrend(t *testing.T) {
	history := weeks(10, 12, 14)

	p := Project(history, now, utc, ForecastWeeks)

	require.Len(t, p.Points, 4)
	assert.Equal(t, 16, p.Points[0].Bookings)
	assert.Equal(t, 18, p.Points[1].Bookings)
	assert.InDelta(t, p.BookingLine.At(float64(len(history))), float64(p.Points[0].Bookings), 1e-9)
	assert.InDelta(t, 1600.0, p.Points[0].Revenue, 1e-9)
	assert.Equal(t, TrendIncreasing, p.BookingTrend)
	assert.Equal(t, TrendIncreasing, p.RevenueTrend)
	assert.Equal(t, "2024-03-27", p.Points[0].Week)
	assert.Equal(t, "2024-04-17", p.Points[3].Week)
}

func TestProject_DecliningTrendFloorsAtZero(t *testing.T) {
	p := Project(weeks(9, 5, 1), now, utc, ForecastWeeks)

	assert.Equal(t, TrendDecreasing, p.BookingTrend)
	for _, pt := range p.Points {
		assert.Equal(t, 0, pt.Bookings)
		assert.Equal(t, 0.0, pt.Revenue)
	}
}

func TestProject_FlatSeriesIsDecreasing(t *testing.T) {
	p := Project(weeks(4, 4), now, utc, ForecastWeeks)
	assert.Equal(t, TrendDecreasing, p.BookingTrend)
	assert.Equal(t, 4, p.Points[0].Bookings)
}

func TestProject_SingleWeekIsScaledAndStable(t *testing.T) {
	history := []WeekBucket{{Week: "2024-03-17", Bookings: 10, Revenue: 50}}

	p := Project(history, now, utc, ForecastWeeks)

	assert.Equal(t, TrendStable, p.BookingTrend)
	assert.Equal(t, TrendStable, p.RevenueTrend)
	got := []int{}
	for _, pt := range p.Points {
		got = append(got, pt.Bookings)
		assert.Equal(t, 100.0, pt.Revenue)
	}
	assert.Equal(t, []int{10, 11, 12, 13}, got)
}

func TestProject_SingleWeekFloorsAtOneBooking(t *testing.T) {
	history := []WeekBucket{{Bookings: 0, Revenue: 0}}

	p := Project(history, now, utc, ForecastWeeks)

	for _, pt := range p.Points {
		assert.Equal(t, 1, pt.Bookings)
		assert.Equal(t, 100.0, pt.Revenue)
	}
}

func TestProject_NoHistory(t *testing.T) {
	p := Project(nil, now, utc, ForecastWeeks)

	require.Len(t, p.Points, 4)
	assert.Equal(t, TrendStable, p.BookingTrend)
	assert.Equal(t, TrendStable, p.RevenueTrend)
	for _, pt := range p.Points {
		assert.Zero(t, pt.Bookings)
		assert.Zero(t, pt.Revenue)
	}
}

func TestConfidence_NonIncreasingWithFloor(t *testing.T) {
	assert.Equal(t, 0.9, Confidence(1))
	assert.Equal(t, 0.8, Confidence(2))
	assert.Equal(t, 0.7, Confidence(3))
	assert.Equal(t, 0.6, Confidence(4))
	assert.Equal(t, 0.6, Confidence(9))

	p := Project(weeks(1, 2, 3), now, utc, 8)
	for i := 1; i < len(p.Points); i++ {
		assert.LessOrEqual(t, p.Points[i].Confidence, p.Points[i-1].Confidence)
		assert.GreaterOrEqual(t, p.Points[i].Confidence, 0.6)
	}
}
