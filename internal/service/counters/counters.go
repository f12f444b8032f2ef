package counters

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
)

var (
	ErrUnknownEventType = errors.New("unknown booking event type")
	// ErrUnknownHotel means the event referenced a hotel that no longer
	// exists. There is nothing to update, so callers should not retry.
	ErrUnknownHotel = errors.New("hotel not found")
)

type CounterStore interface {
	ApplyCounterDelta(ctx context.Context, hotelID string, d domain.CounterDelta) (bool, error)
}

type CounterService struct {
	log    *zap.Logger
	hotels CounterStore
}

func NewCounterService(log *zap.Logger, hotels CounterStore) *CounterService {
	return &CounterService{log: log, hotels: hotels}
}

// DeltaFor maps a booking lifecycle event to the change it makes to the
// hotel's stored counters.
func DeltaFor(e domain.BookingEvent) (domain.CounterDelta, error) {
	switch e.Type {
	case domain.EventBookingCreated:
		return domain.CounterDelta{Bookings: 1, Revenue: e.TotalCost}, nil
	case domain.EventBookingDeleted:
		return domain.CounterDelta{Bookings: -1, Revenue: -e.TotalCost}, nil
	case domain.EventBookingRefunded:
		return domain.CounterDelta{Revenue: -e.RefundAmount}, nil
	default:
		return domain.CounterDelta{}, fmt.Errorf("%w: %q", ErrUnknownEventType, e.Type)
	}
}

func (s *CounterService) Apply(ctx context.Context, e domain.BookingEvent) error {
	d, err := DeltaFor(e)
	if err != nil {
		return err
	}
	if d.IsZero() {
		s.log.Debug("event carries no counter change", zap.String("type", e.Type), zap.String("booking_id", e.BookingID))
		return nil
	}
	ok, err := s.hotels.ApplyCounterDelta(ctx, e.HotelID, d)
	if err != nil {
		s.log.Error("Failed to apply counter delta", zap.Error(err), zap.String("hotel_id", e.HotelID))
		return fmt.Errorf("apply counter delta: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHotel, e.HotelID)
	}
	s.log.Info("hotel counters updated",
		zap.String("type", e.Type),
		zap.String("hotel_id", e.HotelID),
		zap.String("booking_id", e.BookingID),
		zap.Int("bookings_delta", d.Bookings),
		zap.Float64("revenue_delta", d.Revenue),
	)
	return nil
}
