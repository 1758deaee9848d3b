package routing

import (
	"context"
	"fmt"

	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
)

type MockLeg struct {
	From, To    domain.Coordinates
	DistanceKm  float64
	DurationMin float64
}

// MockEstimator serves fixed leg estimates in tests and records how often
// it was consulted.
type MockEstimator struct {
	m     map[string]ports.LegEstimate
	Calls int
}

func NewMockEstimator(legs []MockLeg) *MockEstimator {
	m := make(map[string]ports.LegEstimate, len(legs))
	for _, l := range legs {
		m[l.From.Key()+"|"+l.To.Key()] = ports.LegEstimate{
			DistanceKm:  l.DistanceKm,
			DurationMin: l.DurationMin,
			Method:      domain.EstimateRouted,
		}
	}
	return &MockEstimator{m: m}
}

func (p *MockEstimator) Estimate(ctx context.Context, from, to domain.Coordinates) (ports.LegEstimate, error) {
	p.Calls++
	est, ok := p.m[from.Key()+"|"+to.Key()]
	if !ok {
		return ports.LegEstimate{}, fmt.Errorf("missing leg %q -> %q: %w", from.Key(), to.Key(), domain.ErrNoEstimate)
	}
	return est, nil
}
