package analytics

import (
	"time"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
)

var (
	utc = Calendar{Loc: time.UTC}
	// Wednesday.
	now = time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
)

func cost(v float64) *float64 { return &v }

func booking(id, hotelID string, amount float64, created time.Time) domain.Booking {
	return domain.Booking{
		ID:            id,
		UserID:        "u-" + id,
		HotelID:       hotelID,
		TotalCost:     cost(amount),
		Status:        domain.BookingStatusConfirmed,
		PaymentStatus: domain.PaymentStatusPaid,
		CreatedAt:     created,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}
