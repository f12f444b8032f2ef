package domain

import "time"

const (
	EventBookingCreated  = "booking.created"
	EventBookingDeleted  = "booking.deleted"
	EventBookingRefunded = "booking.refunded"

	EventSnapshotCreated = "analytics.snapshot.created"
)

// BookingEvent is published by the booking-management service whenever a
// booking changes in a way that affects hotel counters.
type BookingEvent struct {
	Type         string    `json:"type"`
	BookingID    string    `json:"booking_id"`
	HotelID      string    `json:"hotel_id"`
	UserID       string    `json:"user_id"`
	TotalCost    float64   `json:"total_cost"`
	RefundAmount float64   `json:"refund_amount"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type SnapshotEvent struct {
	Type       string    `json:"type"`
	SnapshotID string    `json:"snapshot_id"`
	Date       string    `json:"date"`
	Bookings   int       `json:"bookings"`
	Revenue    float64   `json:"revenue"`
	CreatedAt  time.Time `json:"created_at"`
}
