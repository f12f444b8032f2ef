package redisx

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
)

func newCache(t *testing.T, ttl time.Duration) (*DestinationCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewDestinationCache(client, ttl), mr
}

func TestDestinationCache_Get(t *testing.T) {
	tests := []struct {
		name    string
		stored  string
		wantOK  bool
		wantErr bool
		want    []domain.Destination
	}{
		{name: "miss"},
		{
			name:   "hit",
			stored: `[{"city":"Lisbon","country":"Portugal","hotelCount":2,"avgPrice":100,"minPrice":80}]`,
			wantOK: true,
			want:   []domain.Destination{{City: "Lisbon", Country: "Portugal", HotelCount: 2, AvgPrice: 100, MinPrice: 80}},
		},
		{name: "empty directory", stored: `[]`, wantOK: true, want: []domain.Destination{}},
		{name: "corrupt payload", stored: `{not json`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, mr := newCache(t, time.Minute)
			if tt.stored != "" {
				require.NoError(t, mr.Set(destinationsKey, tt.stored))
			}

			got, ok, err := cache.Get(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDestinationCache_SetAppliesTTL(t *testing.T) {
	cache, mr := newCache(t, 5*time.Minute)
	in := []domain.Destination{{City: "Porto", Country: "Portugal", HotelCount: 1, AvgPrice: 95, MinPrice: 95}}

	require.NoError(t, cache.Set(context.Background(), in))
	assert.Equal(t, 5*time.Minute, mr.TTL(destinationsKey))

	got, ok, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, got)

	mr.FastForward(5 * time.Minute)
	_, ok, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDestinationCache_UnreachableServerFailsFast(t *testing.T) {
	cache, mr := newCache(t, time.Minute)
	mr.Close()

	start := time.Now()
	_, ok, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)
}
