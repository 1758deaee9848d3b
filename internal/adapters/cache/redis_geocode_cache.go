// Package cache provides best-effort lookaside caches for geocoding and
// distance results, backed by Redis or SQLite. Entries are advisory and
// time-bounded; callers re-validate everything they read.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch-route-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const geocodeKeyPrefix = "geocode:"

// RedisGeocodeCache maps normalized address queries to coordinates with a
// TTL, so provider responses are never trusted indefinitely.
type RedisGeocodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{client: client, ttl: ttl}
}

type cachedCoordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

func (c *RedisGeocodeCache) Get(ctx context.Context, key string) (domain.Coordinates, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.Coordinates{}, false, errors.New("geocode cache: key must not be empty")
	}

	raw, err := c.client.Get(ctx, geocodeKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache %q: %w", key, err)
	}

	var v cachedCoordinates
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache %q: decode: %w", key, err)
	}
	return domain.Coordinates{Lon: v.Lon, Lat: v.Lat}, true, nil
}

func (c *RedisGeocodeCache) Put(ctx context.Context, key string, coord domain.Coordinates) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("geocode cache: key must not be empty")
	}

	raw, err := json.Marshal(cachedCoordinates{Lon: coord.Lon, Lat: coord.Lat})
	if err != nil {
		return fmt.Errorf("put geocode cache %q: encode: %w", key, err)
	}

	if err := c.client.Set(ctx, geocodeKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("put geocode cache %q: %w", key, err)
	}
	return nil
}
