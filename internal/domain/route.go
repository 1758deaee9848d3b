package domain

import "time"

// EstimateMethod records how a leg's distance was obtained, so a plan can
// carry degraded-confidence legs instead of failing outright.
type EstimateMethod string

const (
	// Road distance from the routing service.
	EstimateRouted EstimateMethod = "routed"
	// Great-circle distance scaled by the road detour factor.
	EstimateBeeline EstimateMethod = "beeline"
	// Coarse postal-code zone estimate; last resort.
	EstimatePostal EstimateMethod = "postal"
)

// RouteStop is one delivery in visiting order with its computed schedule.
type RouteStop struct {
	DeliveryID int
	ArriveAt   time.Time
	DepartAt   time.Time
	// Cumulative road distance from the depot up to this stop.
	DistanceFromDepotKm float64
	LegDistanceKm       float64
	LegMethod           EstimateMethod
}

// RoutePlan is the aggregate planning result for one vehicle and one
// candidate delivery set. It is immutable planning data; persistence is the
// caller's responsibility.
type RoutePlan struct {
	PlanID   string
	DepartAt time.Time
	Stops    []RouteStop

	// Deliveries that could not be placed geographically. They need manual
	// placement and are deliberately not appended to the stop order.
	UnplacedDeliveryIDs []int
	Warnings            []string

	// Totals. TotalDistanceKm includes the return leg to the depot.
	TotalDistanceKm float64
	DrivingMin      float64
	BreakCount      int
	BreakMin        float64
	TotalElapsedMin float64

	FuelCost  float64
	WearCost  float64
	TotalCost float64
}

// Degraded reports whether any leg was estimated without the routing service.
func (p *RoutePlan) Degraded() bool {
	for _, s := range p.Stops {
		if s.LegMethod != EstimateRouted {
			return true
		}
	}
	return false
}
