package domain

import "time"

type Hotel struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	StarRating    int       `json:"starRating"`
	Types         []string  `json:"types"`
	AverageRating float64   `json:"averageRating"`
	PricePerNight float64   `json:"pricePerNight"`
	TotalBookings int       `json:"totalBookings"`
	TotalRevenue  float64   `json:"totalRevenue"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CounterDelta is an adjustment to a hotel's stored booking counters.
type CounterDelta struct {
	Bookings int
	Revenue  float64
}

func (d CounterDelta) IsZero() bool { return d.Bookings == 0 && d.Revenue == 0 }

// Destination is one city in the public destination directory.
type Destination struct {
	City       string  `json:"city"`
	Country    string  `json:"country"`
	HotelCount int     `json:"hotelCount"`
	AvgPrice   float64 `json:"avgPrice"`
	MinPrice   float64 `json:"minPrice"`
}

// CounterDrift is a hotel whose stored counters disagree with its bookings.
type CounterDrift struct {
	HotelID        string
	StoredBookings int
	StoredRevenue  float64
	ActualBookings int
	ActualRevenue  float64
}
