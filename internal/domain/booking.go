package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusRefunded  BookingStatus = "refunded"
)

// BookingStatuses lists every lifecycle status in display order.
var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCancelled,
	BookingStatusCompleted,
	BookingStatusRefunded,
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var PaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

// Booking is a read-only booking fact. TotalCost is nil when the stored
// document has no cost; aggregations treat that as zero.
type Booking struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	HotelID       string        `json:"hotelId"`
	FirstName     string        `json:"firstName"`
	LastName      string        `json:"lastName"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone,omitempty"`
	AdultCount    int           `json:"adultCount"`
	ChildCount    int           `json:"childCount"`
	CheckIn       time.Time     `json:"checkIn"`
	CheckOut      time.Time     `json:"checkOut"`
	TotalCost     *float64      `json:"totalCost,omitempty"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	RefundAmount  float64       `json:"refundAmount"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Cost returns the booking's total cost, zero when absent.
func (b Booking) Cost() float64 {
	if b.TotalCost == nil {
		return 0
	}
	return *b.TotalCost
}
