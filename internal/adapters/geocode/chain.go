package geocode

import (
	"context"
	"errors"
	"fmt"
	"log"

	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
)

// ChainResolver tries an ordered list of geocoding providers until one
// yields a coordinate inside the plausible service area. Provider-specific
// branching stays out of the planner: each provider is just a strategy.
//
// A cache in front of the chain is best-effort. Hits are re-checked against
// the plausibility box on every read, and failed resolutions are never
// cached as permanent negatives.
type ChainResolver struct {
	Providers []ports.Geocoder
	Cache     ports.GeocodeCache
}

func NewChainResolver(cache ports.GeocodeCache, providers ...ports.Geocoder) *ChainResolver {
	return &ChainResolver{Providers: providers, Cache: cache}
}

func (r *ChainResolver) Resolve(ctx context.Context, q ports.GeocodeQuery) (domain.Coordinates, error) {
	key := q.CacheKey()

	if r.Cache != nil {
		coord, ok, err := r.Cache.Get(ctx, key)
		if err != nil {
			log.Printf("geocode cache read failed: key=%q err=%v", key, err)
		} else if ok && coord.InServiceArea() {
			return coord, nil
		}
	}

	var lastErr error
	for _, provider := range r.Providers {
		coord, err := provider.Resolve(ctx, q)
		if err != nil {
			lastErr = err
			continue
		}
		if !coord.InServiceArea() {
			lastErr = fmt.Errorf("resolve %q: coordinate %s outside service area: %w",
				key, coord.Key(), domain.ErrNoCoordinate)
			continue
		}

		if r.Cache != nil {
			if err := r.Cache.Put(ctx, key, coord); err != nil {
				log.Printf("geocode cache write failed: key=%q err=%v", key, err)
			}
		}
		return coord, nil
	}

	if lastErr != nil {
		return domain.Coordinates{}, lastErr
	}
	return domain.Coordinates{}, errors.New("geocode chain: no providers configured")
}
