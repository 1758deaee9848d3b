package ports

import (
	"context"

	"dispatch-route-service/internal/domain"
)

// GeocodeCache is a best-effort lookup keyed by normalized query string.
// Entries are advisory: callers re-check plausibility on every hit, and a
// failed resolution is never stored as a permanent negative.
type GeocodeCache interface {
	Get(ctx context.Context, key string) (domain.Coordinates, bool, error)
	Put(ctx context.Context, key string, c domain.Coordinates) error
}

// DistanceCache stores leg estimates keyed by coordinate pair. Only routed
// results are worth caching; fallback estimates are cheap to recompute.
type DistanceCache interface {
	Get(ctx context.Context, from, to domain.Coordinates) (LegEstimate, bool, error)
	Put(ctx context.Context, from, to domain.Coordinates, est LegEstimate) error
}
