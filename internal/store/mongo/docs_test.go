package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
)

func TestBookingDoc_DecodesStoredShape(t *testing.T) {
	oid := primitive.NewObjectID()
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	raw, err := bson.Marshal(bson.M{
		"_id":           oid,
		"userId":        "u1",
		"hotelId":       "h1",
		"firstName":     "Ada",
		"status":        "confirmed",
		"paymentStatus": "paid",
		"createdAt":     created,
	})
	assert.NoError(t, err)

	var doc bookingDoc
	assert.NoError(t, bson.Unmarshal(raw, &doc))
	b := doc.toDomain()

	assert.Equal(t, oid.Hex(), b.ID)
	assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
	assert.Equal(t, domain.PaymentStatusPaid, b.PaymentStatus)
	assert.Nil(t, b.TotalCost)
	assert.Zero(t, b.Cost())
	assert.True(t, created.Equal(b.CreatedAt))
}

func TestHotelDoc_DefaultsToActive(t *testing.T) {
	inactive := false
	assert.True(t, hotelDoc{City: "Oslo"}.toDomain().IsActive)
	assert.False(t, hotelDoc{IsActive: &inactive}.toDomain().IsActive)
}
