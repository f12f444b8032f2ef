package insights

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/analytics"
	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
	"github.com/lodgelogic/lodgelogic-insights/internal/metrics"
)

const (
	recentWindow = 30 * 24 * time.Hour
	weekWindow   = 7 * 24 * time.Hour
	// hotels, users and bookings are the collections each report reads.
	collectionsRead = 3
	bytesPerMB      = 1024 * 1024
)

type BookingReader interface {
	ListBookings(ctx context.Context, since *time.Time) ([]domain.Booking, error)
}

type HotelReader interface {
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
	GetHotel(ctx context.Context, id string) (*domain.Hotel, error)
}

type UserCounter interface {
	CountUsers(ctx context.Context) (int, error)
}

type ProcessSampler interface {
	Sample() metrics.ProcessStats
}

type RequestSampler interface {
	Snapshot() metrics.RequestSnapshot
}

type InsightsService struct {
	log      *zap.Logger
	bookings BookingReader
	hotels   HotelReader
	users    UserCounter
	process  ProcessSampler
	requests RequestSampler
	cal      analytics.Calendar
	now      func() time.Time
}

func NewInsightsService(log *zap.Logger, bookings BookingReader, hotels HotelReader, users UserCounter, process ProcessSampler, requests RequestSampler, loc *time.Location) *InsightsService {
	return &InsightsService{
		log:      log,
		bookings: bookings,
		hotels:   hotels,
		users:    users,
		process:  process,
		requests: requests,
		cal:      analytics.Calendar{Loc: loc},
		now:      time.Now,
	}
}

// WithClock replaces the wall clock, for tests and backfills.
func (s *InsightsService) WithClock(now func() time.Time) *InsightsService {
	s.now = now
	return s
}

var tracer = otel.Tracer("github.com/lodgelogic/lodgelogic-insights/internal/service/insights")

// observe runs one report computation inside a span and records its
// duration, counting failures per report.
func observe[T any](ctx context.Context, report string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, "insights."+report)
	defer span.End()
	start := time.Now()
	out, err := fn(ctx)
	metrics.InsightsDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.InsightsFailuresTotal.WithLabelValues(report).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

func (s *InsightsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	return observe(ctx, "dashboard", s.dashboard)
}

func (s *InsightsService) Forecast(ctx context.Context) (*Forecast, error) {
	return observe(ctx, "forecast", s.forecast)
}

func (s *InsightsService) Performance(ctx context.Context) (*Performance, error) {
	return observe(ctx, "performance", s.performance)
}

func (s *InsightsService) dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now()
	hotels, err := s.hotels.ListHotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	users, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	bookings, err := s.bookings.ListBookings(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total := analytics.Total(bookings)
	recent := analytics.TotalIn(bookings, analytics.Trailing(now, recentWindow))
	current := analytics.TotalIn(bookings, s.cal.CurrentMonth(now))
	previous := analytics.TotalIn(bookings, s.cal.PreviousMonth(now))

	d := &Dashboard{
		Overview: Overview{
			TotalHotels:    len(hotels),
			TotalUsers:     users,
			TotalBookings:  total.Count,
			RecentBookings: recent.Count,
			TotalRevenue:   total.Revenue,
			RecentRevenue:  recent.Revenue,
			RevenueGrowth:  analytics.GrowthRate(current.Revenue, previous.Revenue),
		},
		PopularDestinations: analytics.PopularDestinations(bookings, hotels, analytics.TopDestinations),
		DailyBookings:       analytics.DailyBookings(bookings, s.cal, analytics.RecentDays),
		HotelPerformance:    analytics.HotelPerformance(bookings, hotels, analytics.TopHotels),
		LastUpdated:         now.UTC(),
	}
	s.log.Debug("dashboard computed",
		zap.Int("bookings", total.Count),
		zap.Int("destinations", len(d.PopularDestinations)),
		zap.Int("daily_points", len(d.DailyBookings)),
		zap.Int("hotels_ranked", len(d.HotelPerformance)),
	)
	return d, nil
}

func (s *InsightsService) forecast(ctx context.Context) (*Forecast, error) {
	now := s.now()
	history := analytics.Trailing(now, analytics.HistoryWindow)
	prevMonth := s.cal.PreviousMonth(now)

	// One read covers both the weekly history and last month's bookings.
	since := history.From
	if prevMonth.From.Before(since) {
		since = prevMonth.From
	}
	bookings, err := s.bookings.ListBookings(ctx, &since)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	weekly := analytics.WeeklyBuckets(bookings, s.cal, history)
	p := analytics.Project(weekly, now, s.cal, analytics.ForecastWeeks)
	current := analytics.TotalIn(bookings, s.cal.CurrentMonth(now))
	previous := analytics.TotalIn(bookings, prevMonth)

	f := &Forecast{
		Historical:     weekly,
		Forecasts:      p.Points,
		SeasonalGrowth: analytics.GrowthRate(float64(current.Count), float64(previous.Count)),
		Trends:         Trends{BookingTrend: p.BookingTrend, RevenueTrend: p.RevenueTrend},
		LastUpdated:    now.UTC(),
	}
	s.log.Debug("forecast computed",
		zap.Int("weeks", len(weekly)),
		zap.Float64("booking_slope", p.BookingLine.Slope),
		zap.String("booking_trend", string(p.BookingTrend)),
		zap.Float64("seasonal_growth", f.SeasonalGrowth),
	)
	return f, nil
}

func (s *InsightsService) performance(ctx context.Context) (*Performance, error) {
	now := s.now()
	hotels, err := s.hotels.ListHotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	bookings, err := s.bookings.ListBookings(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	total := analytics.Total(bookings)

	proc := s.process.Sample()
	mem := MemoryUsage{
		Used:  int(math.Round(float64(proc.HeapUsedBytes) / bytesPerMB)),
		Total: int(math.Round(float64(proc.HeapTotalBytes) / bytesPerMB)),
	}
	if proc.HeapTotalBytes > 0 {
		mem.Percentage = int(math.Round(float64(proc.HeapUsedBytes) / float64(proc.HeapTotalBytes) * 100))
	}
	reqs := s.requests.Snapshot()

	return &Performance{
		System: SystemMetrics{
			Memory: mem,
			CPU:    CPUUsage{User: proc.CPUUserMicros, System: proc.CPUSystemMicros},
			Uptime: proc.Uptime.Seconds(),
		},
		Database: DatabaseMetrics{
			Collections:   collectionsRead,
			TotalHotels:   len(hotels),
			TotalBookings: total.Count,
			TotalRevenue:  total.Revenue,
		},
		Application: ApplicationMetrics{
			AvgResponseTime:   int(reqs.AvgResponseTime.Milliseconds()),
			RequestsPerMinute: analytics.Round2(reqs.RequestsPerMinute),
			ErrorRate:         analytics.Round2(reqs.ErrorRate),
			Source:            "measured",
			SampleWindow:      reqs.Window.String(),
			TodayBookings:     analytics.TotalIn(bookings, s.cal.Today(now)).Count,
			// Trailing seven days, not the calendar week used by the forecast.
			ThisWeekBookings: analytics.TotalIn(bookings, analytics.Trailing(now, weekWindow)).Count,
		},
		LastUpdated: now.UTC(),
	}, nil
}
