// Package bootstrap opens the backing store selected by configuration and
// hands out the repositories every binary needs.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/config"
	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
	"github.com/lodgelogic/lodgelogic-insights/internal/store"
	storeBookings "github.com/lodgelogic/lodgelogic-insights/internal/store/bookings"
	storeHotels "github.com/lodgelogic/lodgelogic-insights/internal/store/hotels"
	storeMongo "github.com/lodgelogic/lodgelogic-insights/internal/store/mongo"
	storeSnapshots "github.com/lodgelogic/lodgelogic-insights/internal/store/snapshots"
	storeUsers "github.com/lodgelogic/lodgelogic-insights/internal/store/users"
)

type BookingStore interface {
	ListBookings(ctx context.Context, since *time.Time) ([]domain.Booking, error)
}

type HotelStore interface {
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
	GetHotel(ctx context.Context, id string) (*domain.Hotel, error)
	ApplyCounterDelta(ctx context.Context, id string, d domain.CounterDelta) (bool, error)
	ReconcileCounters(ctx context.Context) ([]domain.CounterDrift, error)
}

type UserStore interface {
	CountUsers(ctx context.Context) (int, error)
}

type SnapshotStore interface {
	Upsert(ctx context.Context, s *domain.DailySnapshot) error
	ListRange(ctx context.Context, from, to time.Time) ([]domain.DailySnapshot, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Stores groups the repositories of one backend.
type Stores struct {
	Driver    string
	Bookings  BookingStore
	Hotels    HotelStore
	Users     UserStore
	Snapshots SnapshotStore

	conn  pinger
	close func()
}

func (s *Stores) Ping(ctx context.Context) error { return s.conn.Ping(ctx) }

func (s *Stores) Close() { s.close() }

// OpenStores connects to the backend named by cfg.StoreDriver.
func OpenStores(ctx context.Context, cfg config.Config, log *zap.Logger) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := store.NewDB(ctx, cfg.PostgresURL, int32(cfg.MaxDBConnections))
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Stores{
			Driver:    cfg.StoreDriver,
			Bookings:  storeBookings.NewBookingsRepository(db, log),
			Hotels:    storeHotels.NewHotelsRepository(db, log),
			Users:     storeUsers.NewUsersRepository(db, log),
			Snapshots: storeSnapshots.NewSnapshotsRepository(db, log),
			conn:      db,
			close:     db.Close,
		}, nil
	case config.StoreMongo:
		c, err := storeMongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		return &Stores{
			Driver:    cfg.StoreDriver,
			Bookings:  storeMongo.NewBookingsRepository(c, log),
			Hotels:    storeMongo.NewHotelsRepository(c, log),
			Users:     storeMongo.NewUsersRepository(c, log),
			Snapshots: storeMongo.NewSnapshotsRepository(c, log),
			conn:      c,
			close:     c.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
