package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/analytics"
	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
	"github.com/lodgelogic/lodgelogic-insights/internal/metrics"
)

type MockBookingReader struct {
	mock.Mock
}

func (m *MockBookingReader) ListBookings(ctx context.Context, since *time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockHotelReader struct {
	mock.Mock
}

func (m *MockHotelReader) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Hotel), args.Error(1)
}

func (m *MockHotelReader) GetHotel(ctx context.Context, id string) (*domain.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

type MockUserCounter struct {
	mock.Mock
}

func (m *MockUserCounter) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type stubProcess struct{ stats metrics.ProcessStats }

func (s stubProcess) Sample() metrics.ProcessStats { return s.stats }

type stubRequests struct{ snap metrics.RequestSnapshot }

func (s stubRequests) Snapshot() metrics.RequestSnapshot { return s.snap }

// Wednesday.
var now = time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)

func booking(id, hotelID string, amount float64, created time.Time) domain.Booking {
	return domain.Booking{
		ID:            id,
		UserID:        "u-" + id,
		HotelID:       hotelID,
		TotalCost:     &amount,
		Status:        domain.BookingStatusConfirmed,
		PaymentStatus: domain.PaymentStatusPaid,
		CreatedAt:     created,
	}
}

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 10, 0, 0, 0, time.UTC)
}

func monthOverMonthBookings() []domain.Booking {
	return []domain.Booking{
		booking("b1", "h1", 100, day(time.March, 5)),
		booking("b2", "h1", 200, day(time.March, 10)),
		booking("b3", "h1", 300, day(time.March, 15)),
		booking("b4", "h1", 50, day(time.February, 10)),
		booking("b5", "h1", 50, day(time.February, 20)),
	}
}

var paris = domain.Hotel{ID: "h1", Name: "Le Petit", City: "Paris", StarRating: 4, PricePerNight: 180, IsActive: true}

type fixture struct {
	bookings *MockBookingReader
	hotels   *MockHotelReader
	users    *MockUserCounter
	svc      *InsightsService
}

func newFixture(proc metrics.ProcessStats, reqs metrics.RequestSnapshot) *fixture {
	f := &fixture{
		bookings: &MockBookingReader{},
		hotels:   &MockHotelReader{},
		users:    &MockUserCounter{},
	}
	f.svc = NewInsightsService(zap.NewNop(), f.bookings, f.hotels, f.users,
		stubProcess{proc}, stubRequests{reqs}, time.UTC).
		WithClock(func() time.Time { return now })
	return f
}

func TestDashboard_MonthOverMonthGrowth(t *testing.T) {
	f := newFixture(metrics.ProcessStats{}, metrics.RequestSnapshot{})
	f.hotels.On("ListHotels", mock.Anything).Return([]domain.Hotel{paris}, nil)
	f.users.On("CountUsers", mock.Anything).Return(12, nil)
	f.bookings.On("ListBookings", mock.Anything, (*time.Time)(nil)).Return(monthOverMonthBookings(), nil)

	d, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Overview{
		TotalHotels:   1,
		TotalUsers:    12,
		TotalBookings: 5,
		// Feb 20 onwards falls inside the trailing 30 days.
		RecentBookings: 4,
		TotalRevenue:   700,
		RecentRevenue:  650,
		RevenueGrowth:  500,
	}, d.Overview)

	require.Len(t, d.PopularDestinations, 1)
	assert.Equal(t, "Paris", d.PopularDestinations[0].City)
	assert.Equal(t, 5, d.PopularDestinations[0].Count)
	assert.Equal(t, 700.0, d.PopularDestinations[0].TotalRevenue)

	require.Len(t, d.HotelPerformance, 1)
	assert.Equal(t, "h1", d.HotelPerformance[0].HotelID)

	require.Len(t, d.DailyBookings, 5)
	assert.Equal(t, "2024-02-10", d.DailyBookings[0].Date)
	assert.Equal(t, "2024-03-15", d.DailyBookings[4].Date)
	assert.Equal(t, now, d.LastUpdated)

	f.bookings.AssertExpectations(t)
	f.hotels.AssertExpectations(t)
	f.users.AssertExpectations(t)
}

func TestDashboard_EmptyStoreYieldsEmptyLists(t *testing.T) {
	f := newFixture(metrics.ProcessStats{}, metrics.RequestSnapshot{})
	f.hotels.On("ListHotels", mock.Anything).Return([]domain.Hotel{}, nil)
	f.users.On("CountUsers", mock.Anything).Return(0, nil)
	f.bookings.On("ListBookings", mock.Anything, (*time.Time)(nil)).Return([]domain.Booking{}, nil)

	d, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, d.PopularDestinations)
	assert.NotNil(t, d.DailyBookings)
	assert.NotNil(t, d.HotelPerformance)
	assert.Empty(t, d.PopularDestinations)
	assert.Zero(t, d.Overview.RevenueGrowth)
}

func TestDashboard_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection refused")

	f := newFixture(metrics.ProcessStats{}, metrics.RequestSnapshot{})
	f.hotels.On("ListHotels", mock.Anything).Return(nil, boom)
	_, err := f.svc.Dashboard(context.Background())
	require.ErrorIs(t, err, boom)
	f.users.AssertNotCalled(t, "CountUsers", mock.Anything)

	f = newFixture(metrics.ProcessStats{}, metrics.RequestSnapshot{})
	f.hotels.On("ListHotels", mock.Anything).Return([]domain.Hotel{paris}, nil)
	f.users.On("CountUsers", mock.Anything).Return(1, nil)
	f.bookings.On("ListBookings", mock.Anything, (*time.Time)(nil)).Return(nil, boom)
	_, err = f.svc.Dashboard(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "list bookings")
}

func TestForecast_ReadsFromEarliestNeededDate(t *testing.T) {
	f := newFixture(metrics.ProcessStats{}, metrics.RequestSnapshot{})
	wantSince := now.Add(-analytics.HistoryWindow)
	f.bookings.On("ListBookings", mock.Anything, mock.MatchedBy(func(since *time.Time) bool {
		return since != nil && since.Equal(wantSince)
	})).Return(monthOverMonthBookings(), nil)

	fc, err := f.svc.Forecast(context.Background())
	require.NoError(t, err)

	// Three bookings this month against two last month.
	assert.Equal(t, 50.0, fc.SeasonalGrowth)
	require.Len(t, fc.Forecasts, analytics.ForecastWeeks)
	assert.Equal(t, "2024-03-27", fc.Forecasts[0].Week)
	assert.Equal(t, 0.9, fc.Forecasts[0].Confidence)
	assert.NotEmpty(t, fc.Historical)
	for _, p := range fc.Forecasts {
		assert.GreaterOrEqual(t, p.Bookings, 0)
		assert.GreaterOrEqual(t, p.Revenue, 0.0)
	}
	f.bookings.AssertExpectations(t)
}

func TestForecast_LinearHistory(t *testing.T) {
	f := newFixture(metrics.ProcessStats{}, metrics.RequestSnapshot{})
	// Weeks starting Sun Mar 3, 10 and 17 with 10, 12 and 14 bookings.
	var bs []domain.Booking
	for w, n := range []int{10, 12, 14} {
		for i := 0; i < n; i++ {
			bs = append(bs, booking("b", "h1", 100, time.Date(2024, time.March, 4+7*w, 9, 0, 0, 0, time.UTC)))
		}
	}
	f.bookings.On("ListBookings", mock.Anything, mock.Anything).Return(bs, nil)

	fc, err := f.svc.Forecast(context.Background())
	require.NoError(t, err)

	require.Len(t, fc.Historical, 3)
	assert.Equal(t, 16, fc.Forecasts[0].Bookings)
	assert.Equal(t, analytics.TrendIncreasing, fc.Trends.BookingTrend)
	assert.Equal(t, analytics.TrendIncreasing, fc.Trends.RevenueTrend)
}

func TestForecast_NoHistory(t *testing.T) {
	f := newFixture(metrics.ProcessStats{}, metrics.RequestSnapshot{})
	f.bookings.On("ListBookings", mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)

	fc, err := f.svc.Forecast(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, fc.Historical)
	assert.Empty(t, fc.Historical)
	require.Len(t, fc.Forecasts, 4)
	assert.Equal(t, analytics.TrendStable, fc.Trends.BookingTrend)
	assert.Zero(t, fc.SeasonalGrowth)
}

func TestForecast_PropagatesStoreErrors(t *testing.T) {
	f := newFixture(metrics.ProcessStats{}, metrics.RequestSnapshot{})
	boom := errors.New("timeout")
	f.bookings.On("ListBookings", mock.Anything, mock.Anything).Return(nil, boom)

	fc, err := f.svc.Forecast(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Nil(t, fc)
}

func TestPerformance_ReportsMeasuredFigures(t *testing.T) {
	proc := metrics.ProcessStats{
		HeapUsedBytes:   64 * bytesPerMB,
		HeapTotalBytes:  256 * bytesPerMB,
		CPUUserMicros:   1_500_000,
		CPUSystemMicros: 250_000,
		Uptime:          90 * time.Second,
	}
	reqs := metrics.RequestSnapshot{
		Window:            5 * time.Minute,
		Requests:          300,
		Errors:            3,
		RequestsPerMinute: 60,
		ErrorRate:         1,
		AvgResponseTime:   42 * time.Millisecond,
	}
	f := newFixture(proc, reqs)
	f.hotels.On("ListHotels", mock.Anything).Return([]domain.Hotel{paris}, nil)
	bs := append(monthOverMonthBookings(),
		booking("b6", "h1", 80, now.Add(-2*time.Hour)),
		booking("b7", "h1", 20, now.Add(-3*24*time.Hour)),
	)
	f.bookings.On("ListBookings", mock.Anything, (*time.Time)(nil)).Return(bs, nil)

	p, err := f.svc.Performance(context.Background())
	require.NoError(t, err)

	assert.Equal(t, MemoryUsage{Used: 64, Total: 256, Percentage: 25}, p.System.Memory)
	assert.Equal(t, CPUUsage{User: 1_500_000, System: 250_000}, p.System.CPU)
	assert.Equal(t, 90.0, p.System.Uptime)

	assert.Equal(t, DatabaseMetrics{Collections: 3, TotalHotels: 1, TotalBookings: 7, TotalRevenue: 800}, p.Database)

	assert.Equal(t, 42, p.Application.AvgResponseTime)
	assert.Equal(t, 60.0, p.Application.RequestsPerMinute)
	assert.Equal(t, 1.0, p.Application.ErrorRate)
	assert.Equal(t, "measured", p.Application.Source)
	assert.Equal(t, "5m0s", p.Application.SampleWindow)
	assert.Equal(t, 1, p.Application.TodayBookings)
	// b6, b7 and the Mar 15 booking.
	assert.Equal(t, 3, p.Application.ThisWeekBookings)
}

func TestPerformance_ZeroHeapTotal(t *testing.T) {
	f := newFixture(metrics.ProcessStats{}, metrics.RequestSnapshot{})
	f.hotels.On("ListHotels", mock.Anything).Return([]domain.Hotel{}, nil)
	f.bookings.On("ListBookings", mock.Anything, (*time.Time)(nil)).Return([]domain.Booking{}, nil)

	p, err := f.svc.Performance(context.Background())
	require.NoError(t, err)
	assert.Zero(t, p.System.Memory.Percentage)
}

func TestPerformance_RoundsMemoryFigures(t *testing.T) {
	// 64.6 MB used of 100 MB.
	used := uint64(646 * bytesPerMB / 10)
	f := newFixture(metrics.ProcessStats{HeapUsedBytes: used, HeapTotalBytes: 100 * bytesPerMB}, metrics.RequestSnapshot{})
	f.hotels.On("ListHotels", mock.Anything).Return([]domain.Hotel{}, nil)
	f.bookings.On("ListBookings", mock.Anything, (*time.Time)(nil)).Return([]domain.Booking{}, nil)

	p, err := f.svc.Performance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MemoryUsage{Used: 65, Total: 100, Percentage: 65}, p.System.Memory)
}
