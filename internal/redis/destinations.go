package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
)

const (
	destinationsKey = "cache:destinations"
	// Matches the rate limiter: an unreachable Redis must not stall requests.
	cacheCallTimeout = 50 * time.Millisecond
)

// DestinationCache stores the destination directory for a fixed TTL.
type DestinationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDestinationCache(client *redis.Client, ttl time.Duration) *DestinationCache {
	return &DestinationCache{client: client, ttl: ttl}
}

// Get returns ok=false on a cache miss.
func (c *DestinationCache) Get(ctx context.Context) ([]domain.Destination, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, cacheCallTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, destinationsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var out []domain.Destination
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (c *DestinationCache) Set(ctx context.Context, destinations []domain.Destination) error {
	payload, err := json.Marshal(destinations)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, cacheCallTimeout)
	defer cancel()
	return c.client.Set(ctx, destinationsKey, payload, c.ttl).Err()
}
