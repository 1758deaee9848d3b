package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"

	"github.com/google/uuid"
)

// Planner orchestrates one planning call: capacity gate, lazy coordinate
// resolution, stop sequencing, and schedule/cost building. It holds no
// state across calls; concurrent calls need no coordination.
type Planner struct {
	Geocoder  ports.Geocoder
	Sequencer RouteSequencer
	Builder   *ScheduleBuilder
	// Optional. When set, freshly resolved coordinates are written back so
	// later planning calls skip the geocoder.
	Repo  ports.DeliveryRepository
	Depot domain.Depot
}

// PlanRoute plans a route for one vehicle and one candidate delivery set.
//
// Capacity violations abort before any sequencing or network work and are
// returned as *domain.CapacityError. Everything after the gate degrades
// instead of failing: unresolvable addresses become unplaced deliveries,
// degraded legs carry their estimation method, and the caller always gets a
// usable draft plan.
func (p *Planner) PlanRoute(
	ctx context.Context,
	deliveries []*domain.Delivery,
	vehicle domain.Vehicle,
	departAt time.Time,
) (*domain.RoutePlan, error) {
	cap := ValidateCapacity(deliveries, vehicle)
	if !cap.OK {
		return nil, &domain.CapacityError{
			TotalTonnes:    cap.TotalTonnes,
			CapacityTonnes: vehicle.CapacityTonnes,
		}
	}

	warnings := p.resolveCoordinates(ctx, deliveries)

	seq := p.Sequencer.Sequence(deliveries, p.Depot.Coord)

	plan, err := p.Builder.Build(ctx, seq.Ordered, vehicle, p.Depot, departAt)
	if err != nil {
		return nil, fmt.Errorf("plan route: build schedule: %w", err)
	}

	plan.PlanID = uuid.NewString()
	plan.Warnings = append(warnings, plan.Warnings...)
	for _, d := range seq.Unplaced {
		plan.UnplacedDeliveryIDs = append(plan.UnplacedDeliveryIDs, d.DeliveryID)
	}

	return plan, nil
}

// resolveCoordinates attaches coordinates to deliveries that lack one.
// Resolution failures are per-delivery warnings, not errors; the delivery
// stays in the set and the sequencer reports it as unplaced.
func (p *Planner) resolveCoordinates(ctx context.Context, deliveries []*domain.Delivery) []string {
	var warnings []string

	for _, d := range deliveries {
		if d.Resolved() {
			continue
		}

		c, err := p.Geocoder.Resolve(ctx, ports.QueryFor(d))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf(
				"delivery %d (%s): address could not be resolved", d.DeliveryID, d.Address()))
			continue
		}

		coord := c
		d.Coord = &coord

		if p.Repo != nil {
			if err := p.Repo.SaveCoordinates(ctx, d.DeliveryID, c); err != nil {
				log.Printf("coordinate write-back failed: delivery_id=%d err=%v", d.DeliveryID, err)
			}
		}
	}

	return warnings
}
