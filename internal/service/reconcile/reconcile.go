package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
	"github.com/lodgelogic/lodgelogic-insights/internal/metrics"
)

type CounterReconciler interface {
	ReconcileCounters(ctx context.Context) ([]domain.CounterDrift, error)
}

type ReconcileService struct {
	log    *zap.Logger
	hotels CounterReconciler
}

func NewReconcileService(log *zap.Logger, hotels CounterReconciler) *ReconcileService {
	return &ReconcileService{log: log, hotels: hotels}
}

// Run rewrites drifted hotel counters from the bookings and returns how
// many hotels were corrected.
func (s *ReconcileService) Run(ctx context.Context) (int, error) {
	metrics.ReconciliationRunsTotal.Inc()
	drifts, err := s.hotels.ReconcileCounters(ctx)
	if err != nil {
		return 0, fmt.Errorf("reconcile counters: %w", err)
	}
	for _, d := range drifts {
		metrics.ReconciliationFixesTotal.Inc()
		s.log.Info("reconciled",
			zap.String("hotel_id", d.HotelID),
			zap.Int("bookings_was", d.StoredBookings),
			zap.Int("bookings", d.ActualBookings),
			zap.Float64("revenue_was", d.StoredRevenue),
			zap.Float64("revenue", d.ActualRevenue),
		)
	}
	return len(drifts), nil
}
