package ports

import (
	"context"

	"dispatch-route-service/internal/domain"
)

// LegEstimate is the road distance and driving duration for one leg.
// DurationMin is only authoritative for routed legs; fallback legs leave it
// zero and the duration is derived from the vehicle's average speed.
type LegEstimate struct {
	DistanceKm  float64
	DurationMin float64
	Method      domain.EstimateMethod
}

// DurationFor returns the driving time in minutes for this leg. A
// service-supplied duration takes precedence for routed legs; everything
// else derives from distance over average speed. This is the single duration
// formula shared by every caller.
func (e LegEstimate) DurationFor(avgSpeedKmh float64) float64 {
	if e.Method == domain.EstimateRouted && e.DurationMin > 0 {
		return e.DurationMin
	}
	if avgSpeedKmh <= 0 {
		return 0
	}
	return e.DistanceKm / avgSpeedKmh * 60
}

// DistanceEstimator produces a leg estimate between two resolved
// coordinates, degrading through the fallback ladder rather than failing.
// domain.ErrNoEstimate is returned only when no estimate at all is possible.
type DistanceEstimator interface {
	Estimate(ctx context.Context, from, to domain.Coordinates) (LegEstimate, error)
}

// RouteService is the external routing boundary: road distance and duration
// between two coordinates, taken from the first route alternative.
type RouteService interface {
	Route(ctx context.Context, from, to domain.Coordinates) (LegEstimate, error)
}
