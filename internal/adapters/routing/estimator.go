// Package routing provides the distance/duration estimator: an external
// routing service wrapped in plausibility filtering and a local fallback
// ladder, so a degraded provider never blocks planning.
package routing

import (
	"context"
	"fmt"
	"log"

	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
)

// FallbackEstimator implements ports.DistanceEstimator.
//
// Primary path: the routing service, filtered against the great-circle
// sanity bound. Fallback: great-circle distance scaled by the road detour
// factor. Routed results may be cached; fallback results are recomputed.
type FallbackEstimator struct {
	Routes ports.RouteService // optional; nil forces the fallback path
	Cache  ports.DistanceCache
}

func (e *FallbackEstimator) Estimate(ctx context.Context, from, to domain.Coordinates) (ports.LegEstimate, error) {
	if !from.InServiceArea() || !to.InServiceArea() {
		return ports.LegEstimate{}, fmt.Errorf(
			"estimate %s -> %s: coordinates outside service area: %w",
			from.Key(), to.Key(), domain.ErrNoEstimate)
	}

	beelineKm := from.DistanceKmTo(to)

	if e.Cache != nil {
		est, ok, err := e.Cache.Get(ctx, from, to)
		if err != nil {
			log.Printf("distance cache read failed: leg=%s|%s err=%v", from.Key(), to.Key(), err)
		} else if ok && plausibleRouted(est.DistanceKm, beelineKm) {
			return est, nil
		}
	}

	if e.Routes != nil {
		est, err := e.Routes.Route(ctx, from, to)
		switch {
		case err != nil:
			log.Printf("routing degraded: leg=%s|%s err=%v", from.Key(), to.Key(), err)
		case !plausibleRouted(est.DistanceKm, beelineKm):
			log.Printf("routing implausible: leg=%s|%s routed_km=%.1f beeline_km=%.1f",
				from.Key(), to.Key(), est.DistanceKm, beelineKm)
		default:
			if e.Cache != nil {
				if err := e.Cache.Put(ctx, from, to, est); err != nil {
					log.Printf("distance cache write failed: leg=%s|%s err=%v", from.Key(), to.Key(), err)
				}
			}
			return est, nil
		}
	}

	if beelineKm > domain.MaxPlausibleLegKm {
		return ports.LegEstimate{}, fmt.Errorf(
			"estimate %s -> %s: straight-line distance %.0f km implausible: %w",
			from.Key(), to.Key(), beelineKm, domain.ErrNoEstimate)
	}

	// Duration stays zero: fallback legs derive it from the vehicle's
	// average speed via LegEstimate.DurationFor.
	return ports.LegEstimate{
		DistanceKm: beelineKm * domain.RoadDetourFactor,
		Method:     domain.EstimateBeeline,
	}, nil
}

// plausibleRouted accepts a routed distance only when it is at least the
// great-circle distance, within the detour-ratio bound, and below the
// absolute intra-country ceiling.
func plausibleRouted(routedKm, beelineKm float64) bool {
	if routedKm <= 0 || routedKm > domain.MaxPlausibleLegKm {
		return false
	}
	if routedKm < beelineKm {
		return false
	}
	return routedKm <= beelineKm*domain.RoutedPlausibilityRatio
}
