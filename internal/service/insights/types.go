package insights

import (
	"time"

	"github.com/lodgelogic/lodgelogic-insights/internal/analytics"
)

type Overview struct {
	TotalHotels    int     `json:"totalHotels"`
	TotalUsers     int     `json:"totalUsers"`
	TotalBookings  int     `json:"totalBookings"`
	RecentBookings int     `json:"recentBookings"`
	TotalRevenue   float64 `json:"totalRevenue"`
	RecentRevenue  float64 `json:"recentRevenue"`
	RevenueGrowth  float64 `json:"revenueGrowth"`
}

type Dashboard struct {
	Overview            Overview                      `json:"overview"`
	PopularDestinations []analytics.DestinationBucket `json:"popularDestinations"`
	DailyBookings       []analytics.DayBucket         `json:"dailyBookings"`
	HotelPerformance    []analytics.HotelBucket       `json:"hotelPerformance"`
	LastUpdated         time.Time                     `json:"lastUpdated"`
}

type Trends struct {
	BookingTrend analytics.TrendLabel `json:"bookingTrend"`
	RevenueTrend analytics.TrendLabel `json:"revenueTrend"`
}

type Forecast struct {
	Historical     []analytics.WeekBucket    `json:"historical"`
	Forecasts      []analytics.ForecastPoint `json:"forecasts"`
	SeasonalGrowth float64                   `json:"seasonalGrowth"`
	Trends         Trends                    `json:"trends"`
	LastUpdated    time.Time                 `json:"lastUpdated"`
}

type MemoryUsage struct {
	Used       int `json:"used"`  // MB
	Total      int `json:"total"` // MB
	Percentage int `json:"percentage"`
}

type CPUUsage struct {
	User   int64 `json:"user"`   // microseconds
	System int64 `json:"system"` // microseconds
}

type SystemMetrics struct {
	Memory MemoryUsage `json:"memory"`
	CPU    CPUUsage    `json:"cpu"`
	Uptime float64     `json:"uptime"` // seconds
}

type DatabaseMetrics struct {
	Collections   int     `json:"collections"`
	TotalHotels   int     `json:"totalHotels"`
	TotalBookings int     `json:"totalBookings"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// ApplicationMetrics traffic figures are measured by the HTTP middleware
// over SampleWindow; Source says so explicitly.
type ApplicationMetrics struct {
	AvgResponseTime   int     `json:"avgResponseTime"` // ms
	RequestsPerMinute float64 `json:"requestsPerMinute"`
	ErrorRate         float64 `json:"errorRate"` // percent
	Source            string  `json:"source"`
	SampleWindow      string  `json:"sampleWindow"`
	TodayBookings     int     `json:"todayBookings"`
	ThisWeekBookings  int     `json:"thisWeekBookings"`
}

type Performance struct {
	System      SystemMetrics      `json:"system"`
	Database    DatabaseMetrics    `json:"database"`
	Application ApplicationMetrics `json:"application"`
	LastUpdated time.Time          `json:"lastUpdated"`
}
