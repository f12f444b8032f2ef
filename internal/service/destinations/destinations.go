package destinations

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/analytics"
	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
	"github.com/lodgelogic/lodgelogic-insights/internal/metrics"
)

type HotelReader interface {
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
}

type Cache interface {
	Get(ctx context.Context) ([]domain.Destination, bool, error)
	Set(ctx context.Context, destinations []domain.Destination) error
}

type DestinationsService struct {
	log    *zap.Logger
	hotels HotelReader
	cache  Cache
}

// NewDestinationsService wires the directory; cache may be nil.
func NewDestinationsService(log *zap.Logger, hotels HotelReader, cache Cache) *DestinationsService {
	return &DestinationsService{log: log, hotels: hotels, cache: cache}
}

// List serves the directory from cache when possible. Any cache error is
// logged and the directory is rebuilt from the store.
func (s *DestinationsService) List(ctx context.Context) ([]domain.Destination, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			metrics.DestinationsCacheTotal.WithLabelValues("error").Inc()
			s.log.Warn("destinations cache read failed", zap.Error(err))
		case ok:
			metrics.DestinationsCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.DestinationsCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	hotels, err := s.hotels.ListHotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	out := Group(hotels)

	if s.cache != nil {
		if err := s.cache.Set(ctx, out); err != nil {
			s.log.Warn("destinations cache write failed", zap.Error(err))
		}
	}
	return out, nil
}

// Group builds one entry per city from the active hotels, most hotels first.
func Group(hotels []domain.Hotel) []domain.Destination {
	type acc struct {
		d   domain.Destination
		sum float64
	}
	byCity := make(map[string]*acc)
	for _, h := range hotels {
		if !h.IsActive || h.City == "" {
			continue
		}
		a := byCity[h.City]
		if a == nil {
			a = &acc{d: domain.Destination{City: h.City, Country: h.Country, MinPrice: math.Inf(1)}}
			byCity[h.City] = a
		}
		a.d.HotelCount++
		a.sum += h.PricePerNight
		a.d.MinPrice = math.Min(a.d.MinPrice, h.PricePerNight)
	}

	out := make([]domain.Destination, 0, len(byCity))
	for _, a := range byCity {
		a.d.AvgPrice = analytics.Round2(a.sum / float64(a.d.HotelCount))
		out = append(out, a.d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HotelCount != out[j].HotelCount {
			return out[i].HotelCount > out[j].HotelCount
		}
		return out[i].City < out[j].City
	})
	return out
}
