package analytics

import (
	"sort"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
)

const (
	TopDestinations = 5
	TopHotels       = 10
	RecentDays      = 7
)

type Totals struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// Total counts bookings and sums their cost, treating a missing cost as 0.
func Total(bookings []domain.Booking) Totals {
	var t Totals
	for _, b := range bookings {
		t.Count++
		t.Revenue += b.Cost()
	}
	t.Revenue = Round2(t.Revenue)
	return t
}

// TotalIn is Total restricted to bookings created inside w.
func TotalIn(bookings []domain.Booking, w Window) Totals {
	var t Totals
	for _, b := range bookings {
		if !w.Contains(b.CreatedAt) {
			continue
		}
		t.Count++
		t.Revenue += b.Cost()
	}
	t.Revenue = Round2(t.Revenue)
	return t
}

// CreatedIn returns the bookings created inside w, preserving order.
func CreatedIn(bookings []domain.Booking, w Window) []domain.Booking {
	out := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if w.Contains(b.CreatedAt) {
			out = append(out, b)
		}
	}
	return out
}

func ByStatus(bookings []domain.Booking) map[domain.BookingStatus]int {
	out := make(map[domain.BookingStatus]int, len(domain.BookingStatuses))
	for _, s := range domain.BookingStatuses {
		out[s] = 0
	}
	for _, b := range bookings {
		out[b.Status]++
	}
	return out
}

func ByPaymentStatus(bookings []domain.Booking) map[domain.PaymentStatus]int {
	out := make(map[domain.PaymentStatus]int, len(domain.PaymentStatuses))
	for _, s := range domain.PaymentStatuses {
		out[s] = 0
	}
	for _, b := range bookings {
		out[b.PaymentStatus]++
	}
	return out
}

// DestinationBucket aggregates bookings per city. The "_id" key is what the
// dashboard client reads the city from.
type DestinationBucket struct {
	City         string  `json:"_id"`
	Count        int     `json:"count"`
	TotalRevenue float64 `json:"totalRevenue"`
	AvgPrice     float64 `json:"avgPrice"`

	priceSum float64
	hotels   int
}

type HotelBucket struct {
	HotelID       string  `json:"_id"`
	Name          string  `json:"name"`
	City          string  `json:"city"`
	StarRating    int     `json:"starRating"`
	PricePerNight float64 `json:"pricePerNight"`
	BookingCount  int     `json:"bookingCount"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

type DayBucket struct {
	Date     string  `json:"date"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

// hotelJoin groups bookings by hotel and drops bookings whose hotel id does
// not resolve to a known hotel.
func hotelJoin(bookings []domain.Booking, hotels []domain.Hotel) map[string]*HotelBucket {
	index := make(map[string]domain.Hotel, len(hotels))
	for _, h := range hotels {
		index[h.ID] = h
	}
	out := make(map[string]*HotelBucket)
	for _, b := range bookings {
		h, ok := index[b.HotelID]
		if !ok {
			continue
		}
		hb := out[h.ID]
		if hb == nil {
			hb = &HotelBucket{
				HotelID:       h.ID,
				Name:          h.Name,
				City:          h.City,
				StarRating:    h.StarRating,
				PricePerNight: h.PricePerNight,
			}
			out[h.ID] = hb
		}
		hb.BookingCount++
		hb.TotalRevenue += b.Cost()
	}
	return out
}

// PopularDestinations joins bookings to their hotel's city and returns the
// busiest cities. avgPrice is the mean nightly price of the city's hotels
// that have bookings. When no booking resolves to a hotel, the ranking is
// derived from the hotels' stored counters instead.
func PopularDestinations(bookings []domain.Booking, hotels []domain.Hotel, limit int) []DestinationBucket {
	byCity := make(map[string]*DestinationBucket)
	for _, hb := range hotelJoin(bookings, hotels) {
		d := byCity[hb.City]
		if d == nil {
			d = &DestinationBucket{City: hb.City}
			byCity[hb.City] = d
		}
		d.Count += hb.BookingCount
		d.TotalRevenue += hb.TotalRevenue
		d.priceSum += hb.PricePerNight
		d.hotels++
	}
	if len(byCity) == 0 {
		for _, h := range hotels {
			d := byCity[h.City]
			if d == nil {
				d = &DestinationBucket{City: h.City}
				byCity[h.City] = d
			}
			d.Count += h.TotalBookings
			d.TotalRevenue += h.TotalRevenue
			d.priceSum += h.PricePerNight
			d.hotels++
		}
	}

	out := make([]DestinationBucket, 0, len(byCity))
	for _, d := range byCity {
		d.TotalRevenue = Round2(d.TotalRevenue)
		if d.hotels > 0 {
			d.AvgPrice = Round2(d.priceSum / float64(d.hotels))
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].TotalRevenue != out[j].TotalRevenue {
			return out[i].TotalRevenue > out[j].TotalRevenue
		}
		return out[i].City < out[j].City
	})
	return truncate(out, limit)
}

// HotelPerformance ranks hotels by booking count, falling back to the
// hotels' stored counters when no booking resolves to a hotel.
func HotelPerformance(bookings []domain.Booking, hotels []domain.Hotel, limit int) []HotelBucket {
	joined := hotelJoin(bookings, hotels)
	out := make([]HotelBucket, 0, len(joined))
	for _, hb := range joined {
		hb.TotalRevenue = Round2(hb.TotalRevenue)
		out = append(out, *hb)
	}
	if len(out) == 0 {
		for _, h := range hotels {
			out = append(out, HotelBucket{
				HotelID:       h.ID,
				Name:          h.Name,
				City:          h.City,
				StarRating:    h.StarRating,
				PricePerNight: h.PricePerNight,
				BookingCount:  h.TotalBookings,
				TotalRevenue:  Round2(h.TotalRevenue),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BookingCount != out[j].BookingCount {
			return out[i].BookingCount > out[j].BookingCount
		}
		if out[i].TotalRevenue != out[j].TotalRevenue {
			return out[i].TotalRevenue > out[j].TotalRevenue
		}
		return out[i].HotelID < out[j].HotelID
	})
	return truncate(out, limit)
}

// DailyBookings groups bookings by creation date, ascending, keeping only
// the most recent `days` dates. Bookings without a creation time are skipped.
func DailyBookings(bookings []domain.Booking, cal Calendar, days int) []DayBucket {
	byDate := make(map[string]*DayBucket)
	for _, b := range bookings {
		if b.CreatedAt.IsZero() {
			continue
		}
		key := cal.DateKey(b.CreatedAt)
		d := byDate[key]
		if d == nil {
			d = &DayBucket{Date: key}
			byDate[key] = d
		}
		d.Bookings++
		d.Revenue += b.Cost()
	}
	out := make([]DayBucket, 0, len(byDate))
	for _, d := range byDate {
		d.Revenue = Round2(d.Revenue)
		out = append(out, *d)
	}
	// ISO dates sort lexically in calendar order.
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	if days >= 0 && len(out) > days {
		out = out[len(out)-days:]
	}
	return out
}

func truncate[T any](s []T, limit int) []T {
	if limit >= 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
