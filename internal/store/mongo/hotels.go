package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
)

type hotelDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	UserID        string             `bson:"userId"`
	Name          string             `bson:"name"`
	City          string             `bson:"city"`
	Country       string             `bson:"country"`
	StarRating    int                `bson:"starRating"`
	Type          []string           `bson:"type"`
	AverageRating float64            `bson:"averageRating"`
	PricePerNight float64            `bson:"pricePerNight"`
	TotalBookings int                `bson:"totalBookings"`
	TotalRevenue  float64            `bson:"totalRevenue"`
	IsActive      *bool              `bson:"isActive,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d hotelDoc) toDomain() domain.Hotel {
	h := domain.Hotel{
		ID:            d.ID.Hex(),
		UserID:        d.UserID,
		Name:          d.Name,
		City:          d.City,
		Country:       d.Country,
		StarRating:    d.StarRating,
		Types:         d.Type,
		AverageRating: d.AverageRating,
		PricePerNight: d.PricePerNight,
		TotalBookings: d.TotalBookings,
		TotalRevenue:  d.TotalRevenue,
		IsActive:      true,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.IsActive != nil {
		h.IsActive = *d.IsActive
	}
	return h
}

type HotelsRepository struct {
	c   *Client
	log *zap.Logger
}

func NewHotelsRepository(c *Client, log *zap.Logger) *HotelsRepository {
	return &HotelsRepository{c: c, log: log}
}

func (r *HotelsRepository) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	cur, err := r.c.collection(hotelsCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var docs []hotelDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Hotel, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// GetHotel returns nil, nil for unknown or malformed ids.
func (r *HotelsRepository) GetHotel(ctx context.Context, id string) (*domain.Hotel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc hotelDoc
	err = r.c.collection(hotelsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	h := doc.toDomain()
	return &h, nil
}

func (r *HotelsRepository) ApplyCounterDelta(ctx context.Context, id string, d domain.CounterDelta) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.c.collection(hotelsCollection).UpdateByID(ctx, oid, bson.M{
		"$inc": bson.M{"totalBookings": d.Bookings, "totalRevenue": d.Revenue},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// ReconcileCounters recomputes every hotel's counters from the bookings
// collection and returns the hotels that were corrected.
func (r *HotelsRepository) ReconcileCounters(ctx context.Context) ([]domain.CounterDrift, error) {
	cur, err := r.c.collection(bookingsCollection).Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":     "$hotelId",
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$totalCost", 0}}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	var sums []struct {
		HotelID string  `bson:"_id"`
		Count   int     `bson:"count"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cur.All(ctx, &sums); err != nil {
		return nil, err
	}
	actual := make(map[string]domain.CounterDelta, len(sums))
	for _, s := range sums {
		actual[s.HotelID] = domain.CounterDelta{Bookings: s.Count, Revenue: s.Revenue}
	}

	hotels, err := r.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	var drifts []domain.CounterDrift
	var writes []mongo.WriteModel
	now := time.Now()
	for _, h := range hotels {
		a := actual[h.ID]
		if h.TotalBookings == a.Bookings && h.TotalRevenue == a.Revenue {
			continue
		}
		drifts = append(drifts, domain.CounterDrift{
			HotelID:        h.ID,
			StoredBookings: h.TotalBookings,
			StoredRevenue:  h.TotalRevenue,
			ActualBookings: a.Bookings,
			ActualRevenue:  a.Revenue,
		})
		oid, _ := primitive.ObjectIDFromHex(h.ID)
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": oid}).
			SetUpdate(bson.M{"$set": bson.M{"totalBookings": a.Bookings, "totalRevenue": a.Revenue, "updatedAt": now}}))
	}
	if len(writes) == 0 {
		return drifts, nil
	}
	if _, err := r.c.collection(hotelsCollection).BulkWrite(ctx, writes); err != nil {
		return nil, err
	}
	return drifts, nil
}
