package hotels

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
	"github.com/lodgelogic/lodgelogic-insights/internal/store"
)

type HotelsRepository struct {
	db  *store.DB
	log *zap.Logger
}

func NewHotelsRepository(db *store.DB, log *zap.Logger) *HotelsRepository {
	return &HotelsRepository{db: db, log: log}
}

const selectHotels = `
		SELECT id::text, user_id, name, city, country, star_rating, types, average_rating::float8,
		       price_per_night::float8, total_bookings, total_revenue::float8, is_active,
		       created_at, updated_at
		FROM hotels`

func (r *HotelsRepository) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.Pool.Query(ctx, selectHotels+` ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// GetHotel returns nil, nil when no hotel has the given id.
func (r *HotelsRepository) GetHotel(ctx context.Context, id string) (*domain.Hotel, error) {
	h, err := scanHotel(r.db.Pool.QueryRow(ctx, selectHotels+` WHERE id::text = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

// ApplyCounterDelta adjusts the stored booking counters. It reports false
// when the hotel does not exist.
func (r *HotelsRepository) ApplyCounterDelta(ctx context.Context, id string, d domain.CounterDelta) (bool, error) {
	result, err := r.db.Pool.Exec(ctx, `
		UPDATE hotels
		SET total_bookings = total_bookings + $1,
		    total_revenue = total_revenue + $2,
		    updated_at = now()
		WHERE id::text = $3`, d.Bookings, d.Revenue, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// ReconcileCounters recomputes every hotel's counters from the bookings
// table and returns the hotels that were corrected.
func (r *HotelsRepository) ReconcileCounters(ctx context.Context) ([]domain.CounterDrift, error) {
	var drifts []domain.CounterDrift
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT h.id::text, h.total_bookings, h.total_revenue::float8,
			       COUNT(b.id), COALESCE(SUM(b.total_cost), 0)::float8
			FROM hotels h
			LEFT JOIN bookings b ON b.hotel_id = h.id::text
			GROUP BY h.id, h.total_bookings, h.total_revenue
			HAVING h.total_bookings <> COUNT(b.id)
			    OR h.total_revenue <> COALESCE(SUM(b.total_cost), 0)`)
		if err != nil {
			return err
		}
		for rows.Next() {
			var d domain.CounterDrift
			if err := rows.Scan(&d.HotelID, &d.StoredBookings, &d.StoredRevenue, &d.ActualBookings, &d.ActualRevenue); err != nil {
				rows.Close()
				return err
			}
			drifts = append(drifts, d)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, d := range drifts {
			_, err := tx.Exec(ctx, `
				UPDATE hotels SET total_bookings = $1, total_revenue = $2, updated_at = now()
				WHERE id::text = $3`, d.ActualBookings, d.ActualRevenue, d.HotelID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return drifts, err
}

func scanHotel(row pgx.Row) (domain.Hotel, error) {
	var h domain.Hotel
	err := row.Scan(
		&h.ID, &h.UserID, &h.Name, &h.City, &h.Country, &h.StarRating, &h.Types, &h.AverageRating,
		&h.PricePerNight, &h.TotalBookings, &h.TotalRevenue, &h.IsActive, &h.CreatedAt, &h.UpdatedAt,
	)
	return h, err
}
