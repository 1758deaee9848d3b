package routing

import (
	"context"
	"errors"
	"math"
	"testing"

	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
)

type stubRoutes struct {
	est   ports.LegEstimate
	err   error
	calls int
}

func (s *stubRoutes) Route(ctx context.Context, from, to domain.Coordinates) (ports.LegEstimate, error) {
	s.calls++
	return s.est, s.err
}

type stubCache struct {
	m    map[string]ports.LegEstimate
	puts int
}

func newStubCache() *stubCache {
	return &stubCache{m: make(map[string]ports.LegEstimate)}
}

func (c *stubCache) Get(ctx context.Context, from, to domain.Coordinates) (ports.LegEstimate, bool, error) {
	est, ok := c.m[from.Key()+"|"+to.Key()]
	return est, ok, nil
}

func (c *stubCache) Put(ctx context.Context, from, to domain.Coordinates, est ports.LegEstimate) error {
	c.m[from.Key()+"|"+to.Key()] = est
	c.puts++
	return nil
}

var (
	legFrom = domain.Coordinates{Lon: 9.60, Lat: 49.85}
	// Roughly 40 km due south of legFrom.
	legTo = domain.Coordinates{Lon: 9.60, Lat: 49.49}
)

func TestEstimateRoutedPassesThrough(t *testing.T) {
	routes := &stubRoutes{est: ports.LegEstimate{DistanceKm: 52, DurationMin: 45, Method: domain.EstimateRouted}}
	cache := newStubCache()
	e := &FallbackEstimator{Routes: routes, Cache: cache}

	est, err := e.Estimate(context.Background(), legFrom, legTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.Method != domain.EstimateRouted || est.DistanceKm != 52 || est.DurationMin != 45 {
		t.Fatalf("estimate = %+v, want routed 52 km / 45 min", est)
	}
	if cache.puts != 1 {
		t.Fatalf("expected the routed result to be cached, puts = %d", cache.puts)
	}
}

func TestEstimateFallsBackToBeeline(t *testing.T) {
	routes := &stubRoutes{err: errors.New("service unavailable")}
	e := &FallbackEstimator{Routes: routes}

	est, err := e.Estimate(context.Background(), legFrom, legTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if est.Method != domain.EstimateBeeline {
		t.Fatalf("method = %q, want beeline", est.Method)
	}

	want := domain.BeelineEstimateKm(legFrom, legTo)
	if math.Abs(est.DistanceKm-want) > 1e-9 {
		t.Fatalf("distance = %f, want %f", est.DistanceKm, want)
	}
	// ~40 km great-circle scaled by the detour factor.
	if math.Abs(est.DistanceKm-52) > 1.0 {
		t.Fatalf("distance = %f, want ~52", est.DistanceKm)
	}
	if est.DurationMin != 0 {
		t.Fatalf("fallback duration = %f, want 0 (derived from vehicle speed)", est.DurationMin)
	}
}

func TestEstimateRejectsImplausibleRouted(t *testing.T) {
	// 150 km routed against a ~40 km great-circle exceeds the plausibility
	// ratio; the estimator must discard it and never cache it.
	routes := &stubRoutes{est: ports.LegEstimate{DistanceKm: 150, DurationMin: 120, Method: domain.EstimateRouted}}
	cache := newStubCache()
	e := &FallbackEstimator{Routes: routes, Cache: cache}

	est, err := e.Estimate(context.Background(), legFrom, legTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.Method != domain.EstimateBeeline {
		t.Fatalf("method = %q, want beeline", est.Method)
	}
	if cache.puts != 0 {
		t.Fatalf("implausible result cached, puts = %d", cache.puts)
	}
}

func TestEstimateRejectsRoutedBelowBeeline(t *testing.T) {
	routes := &stubRoutes{est: ports.LegEstimate{DistanceKm: 10, DurationMin: 10, Method: domain.EstimateRouted}}
	e := &FallbackEstimator{Routes: routes}

	est, err := e.Estimate(context.Background(), legFrom, legTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.Method != domain.EstimateBeeline {
		t.Fatalf("method = %q, want beeline (roads cannot undercut the great circle)", est.Method)
	}
}

func TestEstimateOutsideServiceArea(t *testing.T) {
	routes := &stubRoutes{}
	e := &FallbackEstimator{Routes: routes}

	_, err := e.Estimate(context.Background(), legFrom, domain.Coordinates{Lon: 2.35, Lat: 48.86})
	if !errors.Is(err, domain.ErrNoEstimate) {
		t.Fatalf("expected ErrNoEstimate, got %v", err)
	}
	if routes.calls != 0 {
		t.Fatalf("routing service consulted for out-of-area leg, calls = %d", routes.calls)
	}
}

func TestEstimateCacheHitSkipsService(t *testing.T) {
	routes := &stubRoutes{est: ports.LegEstimate{DistanceKm: 52, DurationMin: 45, Method: domain.EstimateRouted}}
	cache := newStubCache()
	cache.m[legFrom.Key()+"|"+legTo.Key()] = ports.LegEstimate{DistanceKm: 51, DurationMin: 44, Method: domain.EstimateRouted}

	e := &FallbackEstimator{Routes: routes, Cache: cache}
	est, err := e.Estimate(context.Background(), legFrom, legTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.DistanceKm != 51 {
		t.Fatalf("distance = %f, want the cached 51", est.DistanceKm)
	}
	if routes.calls != 0 {
		t.Fatalf("routing service consulted despite cache hit, calls = %d", routes.calls)
	}
}

func TestEstimateIgnoresImplausibleCacheEntry(t *testing.T) {
	routes := &stubRoutes{est: ports.LegEstimate{DistanceKm: 52, DurationMin: 45, Method: domain.EstimateRouted}}
	cache := newStubCache()
	cache.m[legFrom.Key()+"|"+legTo.Key()] = ports.LegEstimate{DistanceKm: 900, DurationMin: 600, Method: domain.EstimateRouted}

	e := &FallbackEstimator{Routes: routes, Cache: cache}
	est, err := e.Estimate(context.Background(), legFrom, legTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.DistanceKm != 52 {
		t.Fatalf("distance = %f, want the fresh routed 52", est.DistanceKm)
	}
	if routes.calls != 1 {
		t.Fatalf("expected one routing call, got %d", routes.calls)
	}
}
