package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
)

const (
	// HistoryWindow is how far back weekly history is collected.
	HistoryWindow  = 60 * 24 * time.Hour
	ForecastWeeks  = 4
	minConfidence  = 0.6
	confidenceStep = 0.1
)

type TrendLabel string

const (
	TrendIncreasing TrendLabel = "increasing"
	TrendDecreasing TrendLabel = "decreasing"
	TrendStable     TrendLabel = "stable"
)

type WeekBucket struct {
	Week     string  `json:"week"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`

	start time.Time
}

type ForecastPoint struct {
	Week       string  `json:"week"`
	Bookings   int     `json:"bookings"`
	Revenue    float64 `json:"revenue"`
	Confidence float64 `json:"confidence"`
}

// Line is y = Slope*x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

func (l Line) At(x float64) float64 { return l.Slope*x + l.Intercept }

type Projection struct {
	Points       []ForecastPoint
	BookingTrend TrendLabel
	RevenueTrend TrendLabel
	BookingLine  Line
	RevenueLine  Line
}

// WeeklyBuckets groups bookings created in w by the Sunday that starts
// their week and returns the buckets in ascending week order.
func WeeklyBuckets(bookings []domain.Booking, cal Calendar, w Window) []WeekBucket {
	byWeek := make(map[int64]*WeekBucket)
	for _, b := range bookings {
		if !w.Contains(b.CreatedAt) {
			continue
		}
		start := cal.WeekStart(b.CreatedAt)
		wb := byWeek[start.Unix()]
		if wb == nil {
			wb = &WeekBucket{Week: start.Format(dateLayout), start: start}
			byWeek[start.Unix()] = wb
		}
		wb.Bookings++
		wb.Revenue += b.Cost()
	}
	out := make([]WeekBucket, 0, len(byWeek))
	for _, wb := range byWeek {
		wb.Revenue = Round2(wb.Revenue)
		out = append(out, *wb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start.Before(out[j].start) })
	return out
}

// FitLine is an ordinary least-squares fit of ys against x = 0..n-1.
// It returns the zero line when fewer than two points are given.
func FitLine(ys []float64) Line {
	n := float64(len(ys))
	if len(ys) < 2 {
		return Line{}
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	return Line{Slope: slope, Intercept: (sumY - slope*sumX) / n}
}

// Confidence for forecast step i (1-based): 0.1 less per week out, never
// below 0.6.
func Confidence(step int) float64 {
	return Round2(math.Max(minConfidence, 1-float64(step)*confidenceStep))
}

// Project forecasts the next `weeks` weeks from the weekly history. A
// single week of history is scaled rather than extrapolated and is labelled
// stable; no history forecasts zeros.
func Project(history []WeekBucket, now time.Time, cal Calendar, weeks int) Projection {
	n := len(history)
	bookings := make([]float64, n)
	revenue := make([]float64, n)
	for i, wb := range history {
		bookings[i] = float64(wb.Bookings)
		revenue[i] = wb.Revenue
	}

	p := Projection{
		Points:       make([]ForecastPoint, 0, weeks),
		BookingTrend: TrendStable,
		RevenueTrend: TrendStable,
	}
	if n > 1 {
		p.BookingLine = FitLine(bookings)
		p.RevenueLine = FitLine(revenue)
		p.BookingTrend = label(p.BookingLine.Slope)
		p.RevenueTrend = label(p.RevenueLine.Slope)
	}

	for i := 1; i <= weeks; i++ {
		pt := ForecastPoint{
			Week:       cal.DateKey(now.AddDate(0, 0, 7*i)),
			Confidence: Confidence(i),
		}
		switch {
		case n > 1:
			x := float64(n + i - 1)
			pt.Bookings = int(math.Max(0, math.Round(p.BookingLine.At(x))))
			pt.Revenue = Round2(math.Max(0, p.RevenueLine.At(x)))
		case n == 1:
			scale := 0.9 + float64(i)*0.1
			pt.Bookings = int(math.Max(1, math.Round(bookings[0]*scale)))
			pt.Revenue = Round2(math.Max(100, revenue[0]*scale))
		}
		p.Points = append(p.Points, pt)
	}
	return p
}

func label(slope float64) TrendLabel {
	if slope > 0 {
		return TrendIncreasing
	}
	return TrendDecreasing
}
