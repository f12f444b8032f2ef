package kafkax

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, group, topic string) *Consumer {
	return &Consumer{reader: kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  group,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})}
}

func (c *Consumer) Fetch(ctx context.Context) (kafka.Message, error) {
	return c.reader.FetchMessage(ctx)
}

func (c *Consumer) Commit(ctx context.Context, m kafka.Message) error {
	return c.reader.CommitMessages(ctx, m)
}

func (c *Consumer) Close() error { return c.reader.Close() }

var ErrMissingHotel = errors.New("booking event has no hotel_id")

// ParseBookingEvent decodes a booking lifecycle message.
func ParseBookingEvent(b []byte) (domain.BookingEvent, error) {
	var e domain.BookingEvent
	if err := json.Unmarshal(b, &e); err != nil {
		return e, err
	}
	if e.HotelID == "" {
		return e, ErrMissingHotel
	}
	return e, nil
}
