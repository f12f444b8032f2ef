package snapshot

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/analytics"
	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
	"github.com/lodgelogic/lodgelogic-insights/internal/metrics"
)

// DefaultRange is how far back ListSnapshots looks when no start is given.
const DefaultRange = 30 * 24 * time.Hour

type BookingReader interface {
	ListBookings(ctx context.Context, since *time.Time) ([]domain.Booking, error)
}

type HotelReader interface {
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
}

type UserCounter interface {
	CountUsers(ctx context.Context) (int, error)
}

type SnapshotStore interface {
	Upsert(ctx context.Context, s *domain.DailySnapshot) error
	ListRange(ctx context.Context, from, to time.Time) ([]domain.DailySnapshot, error)
}

type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v interface{}) error
}

type SnapshotService struct {
	log       *zap.Logger
	bookings  BookingReader
	hotels    HotelReader
	users     UserCounter
	snapshots SnapshotStore
	events    EventPublisher
	cal       analytics.Calendar
	now       func() time.Time
}

// NewSnapshotService builds the service; events may be nil, in which case
// nothing is announced after a write.
func NewSnapshotService(log *zap.Logger, bookings BookingReader, hotels HotelReader, users UserCounter, snapshots SnapshotStore, events EventPublisher, loc *time.Location) *SnapshotService {
	return &SnapshotService{
		log:       log,
		bookings:  bookings,
		hotels:    hotels,
		users:     users,
		snapshots: snapshots,
		events:    events,
		cal:       analytics.Calendar{Loc: loc},
		now:       time.Now,
	}
}

func (s *SnapshotService) WithClock(now func() time.Time) *SnapshotService {
	s.now = now
	return s
}

// BuildForDay computes the roll-up for the calendar day containing day.
func (s *SnapshotService) BuildForDay(ctx context.Context, day time.Time) (*domain.DailySnapshot, error) {
	start := s.cal.DayStart(day)
	w := analytics.Window{From: start, To: start.AddDate(0, 0, 1)}

	bookings, err := s.bookings.ListBookings(ctx, &w.From)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	hotels, err := s.hotels.ListHotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	users, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	dayBookings := analytics.CreatedIn(bookings, w)
	total := analytics.Total(dayBookings)
	byStatus := analytics.ByStatus(dayBookings)

	m := domain.SnapshotMetrics{
		TotalBookings: total.Count,
		TotalRevenue:  total.Revenue,
		TotalUsers:    users,
		TotalHotels:   len(hotels),
	}
	if total.Count > 0 {
		m.AverageBookingValue = analytics.Round2(total.Revenue / float64(total.Count))
		m.CancellationRate = analytics.Round2(float64(byStatus[domain.BookingStatusCancelled]) / float64(total.Count) * 100)
	}
	m.AverageRating = averageRating(dayBookings, hotels)

	return &domain.DailySnapshot{
		ID:      uuid.NewString(),
		Date:    start,
		Metrics: m,
		Breakdown: domain.SnapshotBreakdown{
			ByStatus:        byStatus,
			ByPaymentStatus: analytics.ByPaymentStatus(dayBookings),
			ByDestination:   byDestination(dayBookings, hotels),
			ByHotelType:     byHotelType(dayBookings, hotels),
		},
	}, nil
}

// byDestination groups bookings by the city of their hotel. Bookings whose
// hotel is unknown are left out.
func byDestination(bookings []domain.Booking, hotels []domain.Hotel) []domain.DestinationBreakdown {
	city := make(map[string]string, len(hotels))
	for _, h := range hotels {
		city[h.ID] = h.City
	}
	byCity := make(map[string]*domain.DestinationBreakdown)
	for _, b := range bookings {
		c, ok := city[b.HotelID]
		if !ok {
			continue
		}
		d := byCity[c]
		if d == nil {
			d = &domain.DestinationBreakdown{City: c}
			byCity[c] = d
		}
		d.Bookings++
		d.Revenue += b.Cost()
	}
	out := make([]domain.DestinationBreakdown, 0, len(byCity))
	for _, d := range byCity {
		d.Revenue = analytics.Round2(d.Revenue)
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bookings != out[j].Bookings {
			return out[i].Bookings > out[j].Bookings
		}
		return out[i].City < out[j].City
	})
	return out
}

// byHotelType counts each booking once under every type its hotel lists.
func byHotelType(bookings []domain.Booking, hotels []domain.Hotel) []domain.HotelTypeBreakdown {
	types := make(map[string][]string, len(hotels))
	for _, h := range hotels {
		types[h.ID] = h.Types
	}
	byType := make(map[string]*domain.HotelTypeBreakdown)
	for _, b := range bookings {
		for _, t := range types[b.HotelID] {
			d := byType[t]
			if d == nil {
				d = &domain.HotelTypeBreakdown{Type: t}
				byType[t] = d
			}
			d.Bookings++
			d.Revenue += b.Cost()
		}
	}
	out := make([]domain.HotelTypeBreakdown, 0, len(byType))
	for _, d := range byType {
		d.Revenue = analytics.Round2(d.Revenue)
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bookings != out[j].Bookings {
			return out[i].Bookings > out[j].Bookings
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// averageRating is the mean rating over the distinct rated hotels that
// received a booking.
func averageRating(bookings []domain.Booking, hotels []domain.Hotel) float64 {
	rating := make(map[string]float64, len(hotels))
	for _, h := range hotels {
		if h.AverageRating > 0 {
			rating[h.ID] = h.AverageRating
		}
	}
	seen := make(map[string]bool)
	var sum float64
	for _, b := range bookings {
		r, ok := rating[b.HotelID]
		if !ok || seen[b.HotelID] {
			continue
		}
		seen[b.HotelID] = true
		sum += r
	}
	if len(seen) == 0 {
		return 0
	}
	return analytics.Round2(sum / float64(len(seen)))
}

// CaptureYesterday builds and stores the snapshot for the previous
// calendar day, then announces it. Re-running for the same day replaces
// the stored figures.
func (s *SnapshotService) CaptureYesterday(ctx context.Context) (*domain.DailySnapshot, error) {
	yesterday := s.cal.DayStart(s.now()).AddDate(0, 0, -1)
	snap, err := s.BuildForDay(ctx, yesterday)
	if err != nil {
		return nil, err
	}
	if err := s.snapshots.Upsert(ctx, snap); err != nil {
		s.log.Error("Failed to store snapshot", zap.Error(err), zap.String("date", s.cal.DateKey(snap.Date)))
		return nil, fmt.Errorf("store snapshot: %w", err)
	}
	metrics.SnapshotsWrittenTotal.Inc()
	s.log.Info("snapshot stored",
		zap.String("snapshot_id", snap.ID),
		zap.String("date", s.cal.DateKey(snap.Date)),
		zap.Int("bookings", snap.Metrics.TotalBookings),
		zap.Float64("revenue", snap.Metrics.TotalRevenue),
	)

	if s.events != nil {
		ev := domain.SnapshotEvent{
			Type:       domain.EventSnapshotCreated,
			SnapshotID: snap.ID,
			Date:       s.cal.DateKey(snap.Date),
			Bookings:   snap.Metrics.TotalBookings,
			Revenue:    snap.Metrics.TotalRevenue,
			CreatedAt:  s.now().UTC(),
		}
		// The snapshot is already stored; a lost announcement is only logged.
		if err := s.events.PublishJSON(ctx, ev.Date, ev); err != nil {
			s.log.Warn("Failed to publish snapshot event", zap.Error(err), zap.String("snapshot_id", snap.ID))
		}
	}
	return snap, nil
}

// RunPeriodic captures yesterday's snapshot every interval until ctx is done.
func (s *SnapshotService) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("Starting periodic snapshotter", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Stopping periodic snapshotter")
			return
		case <-ticker.C:
			if _, err := s.CaptureYesterday(ctx); err != nil {
				s.log.Error("Periodic snapshot failed", zap.Error(err))
			}
		}
	}
}

// ListSnapshots returns stored snapshots between from and to inclusive.
// A zero to means today; a zero from means DefaultRange before to.
func (s *SnapshotService) ListSnapshots(ctx context.Context, from, to time.Time) ([]domain.DailySnapshot, error) {
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.Add(-DefaultRange)
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: from %s is after to %s", ErrInvalidRange, s.cal.DateKey(from), s.cal.DateKey(to))
	}
	out, err := s.snapshots.ListRange(ctx, s.cal.DayStart(from), to)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	if out == nil {
		out = []domain.DailySnapshot{}
	}
	return out, nil
}
