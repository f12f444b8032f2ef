package bookings

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
	"github.com/lodgelogic/lodgelogic-insights/internal/store"
)

type BookingsRepository struct {
	db  *store.DB
	log *zap.Logger
}

func NewBookingsRepository(db *store.DB, log *zap.Logger) *BookingsRepository {
	return &BookingsRepository{db: db, log: log}
}

const selectBookings = `
		SELECT id::text, user_id, hotel_id, first_name, last_name, email, COALESCE(phone, ''),
		       adult_count, child_count, check_in, check_out, total_cost::float8,
		       status, payment_status, COALESCE(refund_amount, 0)::float8, created_at, updated_at
		FROM bookings`

// ListBookings returns every booking created at or after since, or all
// bookings when since is nil.
func (r *BookingsRepository) ListBookings(ctx context.Context, since *time.Time) ([]domain.Booking, error) {
	query := selectBookings
	args := []interface{}{}
	if since != nil {
		query += ` WHERE created_at >= $1`
		args = append(args, *since)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var b domain.Booking
	var status, paymentStatus string
	err := row.Scan(
		&b.ID, &b.UserID, &b.HotelID, &b.FirstName, &b.LastName, &b.Email, &b.Phone,
		&b.AdultCount, &b.ChildCount, &b.CheckIn, &b.CheckOut, &b.TotalCost,
		&status, &paymentStatus, &b.RefundAmount, &b.CreatedAt, &b.UpdatedAt,
	)
	b.Status = domain.BookingStatus(status)
	b.PaymentStatus = domain.PaymentStatus(paymentStatus)
	return b, err
}
