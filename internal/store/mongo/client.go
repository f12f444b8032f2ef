// Package mongo serves the same read and counter contracts as the Postgres
// repositories from a MongoDB database laid out as the booking site stores
// it: "bookings", "hotels", "users" and "analytics" collections.
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	bookingsCollection  = "bookings"
	hotelsCollection    = "hotels"
	usersCollection     = "users"
	snapshotsCollection = "analytics"
)

type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewClient(ctx context.Context, uri, database string) (*Client, error) {
	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	client := &Client{client: c, db: c.Database(database)}
	if err := client.Ping(ctx); err != nil {
		_ = c.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = c.client.Disconnect(ctx)
}

func (c *Client) collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}
