package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
)

type bookingDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	UserID        string             `bson:"userId"`
	HotelID       string             `bson:"hotelId"`
	FirstName     string             `bson:"firstName"`
	LastName      string             `bson:"lastName"`
	Email         string             `bson:"email"`
	Phone         string             `bson:"phone,omitempty"`
	AdultCount    int                `bson:"adultCount"`
	ChildCount    int                `bson:"childCount"`
	CheckIn       time.Time          `bson:"checkIn"`
	CheckOut      time.Time          `bson:"checkOut"`
	TotalCost     *float64           `bson:"totalCost,omitempty"`
	Status        string             `bson:"status"`
	PaymentStatus string             `bson:"paymentStatus"`
	RefundAmount  float64            `bson:"refundAmount"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d bookingDoc) toDomain() domain.Booking {
	return domain.Booking{
		ID:            d.ID.Hex(),
		UserID:        d.UserID,
		HotelID:       d.HotelID,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Email:         d.Email,
		Phone:         d.Phone,
		AdultCount:    d.AdultCount,
		ChildCount:    d.ChildCount,
		CheckIn:       d.CheckIn,
		CheckOut:      d.CheckOut,
		TotalCost:     d.TotalCost,
		Status:        domain.BookingStatus(d.Status),
		PaymentStatus: domain.PaymentStatus(d.PaymentStatus),
		RefundAmount:  d.RefundAmount,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type BookingsRepository struct {
	c   *Client
	log *zap.Logger
}

func NewBookingsRepository(c *Client, log *zap.Logger) *BookingsRepository {
	return &BookingsRepository{c: c, log: log}
}

func (r *BookingsRepository) ListBookings(ctx context.Context, since *time.Time) ([]domain.Booking, error) {
	filter := bson.M{}
	if since != nil {
		filter["createdAt"] = bson.M{"$gte": *since}
	}
	cur, err := r.c.collection(bookingsCollection).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []bookingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
