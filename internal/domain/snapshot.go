package domain

import "time"

// DailySnapshot is the persisted analytics roll-up for one calendar day.
type DailySnapshot struct {
	ID      string          `json:"id"`
	Date    time.Time       `json:"date"`
	Metrics SnapshotMetrics `json:"metrics"`
	// Breakdown is stored as a single JSON document.
	Breakdown SnapshotBreakdown `json:"breakdown"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type SnapshotMetrics struct {
	TotalBookings       int     `json:"totalBookings"`
	TotalRevenue        float64 `json:"totalRevenue"`
	TotalUsers          int     `json:"totalUsers"`
	TotalHotels         int     `json:"totalHotels"`
	AverageBookingValue float64 `json:"averageBookingValue"`
	CancellationRate    float64 `json:"cancellationRate"`
	// Mean guest rating of the hotels booked that day; 0 when none are rated.
	AverageRating float64 `json:"averageRating"`
}

type SnapshotBreakdown struct {
	ByStatus        map[BookingStatus]int  `json:"byStatus"`
	ByPaymentStatus map[PaymentStatus]int  `json:"byPaymentStatus"`
	ByDestination   []DestinationBreakdown `json:"byDestination"`
	ByHotelType     []HotelTypeBreakdown   `json:"byHotelType"`
}

type DestinationBreakdown struct {
	City     string  `json:"city"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

type HotelTypeBreakdown struct {
	Type     string  `json:"type"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}
