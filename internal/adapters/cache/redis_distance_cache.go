package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

const distanceKeyPrefix = "leg:"

// RedisDistanceCache stores routed leg estimates keyed by coordinate pair.
type RedisDistanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDistanceCache(client *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{client: client, ttl: ttl}
}

type cachedLeg struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
	Method      string  `json:"method"`
}

func legKey(from, to domain.Coordinates) string {
	return distanceKeyPrefix + from.Key() + "|" + to.Key()
}

func (c *RedisDistanceCache) Get(ctx context.Context, from, to domain.Coordinates) (ports.LegEstimate, bool, error) {
	raw, err := c.client.Get(ctx, legKey(from, to)).Result()
	if errors.Is(err, redis.Nil) {
		return ports.LegEstimate{}, false, nil
	}
	if err != nil {
		return ports.LegEstimate{}, false, fmt.Errorf("get distance cache %s|%s: %w", from.Key(), to.Key(), err)
	}

	var v cachedLeg
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return ports.LegEstimate{}, false, fmt.Errorf("get distance cache %s|%s: decode: %w", from.Key(), to.Key(), err)
	}
	return ports.LegEstimate{
		DistanceKm:  v.DistanceKm,
		DurationMin: v.DurationMin,
		Method:      domain.EstimateMethod(v.Method),
	}, true, nil
}

func (c *RedisDistanceCache) Put(ctx context.Context, from, to domain.Coordinates, est ports.LegEstimate) error {
	raw, err := json.Marshal(cachedLeg{
		DistanceKm:  est.DistanceKm,
		DurationMin: est.DurationMin,
		Method:      string(est.Method),
	})
	if err != nil {
		return fmt.Errorf("put distance cache %s|%s: encode: %w", from.Key(), to.Key(), err)
	}

	if err := c.client.Set(ctx, legKey(from, to), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("put distance cache %s|%s: %w", from.Key(), to.Key(), err)
	}
	return nil
}
