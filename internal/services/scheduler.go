package services

import (
	"context"
	"fmt"
	"time"

	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
)

// DriveBreakThresholdMin is the continuous driving time, in minutes, after
// which one statutory rest break is due (EU regulation 561/2006: 4.5 h).
// Loading and unloading time does not count toward it. Every break
// computation in the engine goes through breaksBetween, so there is exactly
// one threshold.
const DriveBreakThresholdMin = 270.0

// breaksBetween returns how many break thresholds are crossed when
// cumulative driving time grows from beforeMin to afterMin.
func breaksBetween(beforeMin, afterMin float64) int {
	return int(afterMin/DriveBreakThresholdMin) - int(beforeMin/DriveBreakThresholdMin)
}

// ScheduleBuilder turns an ordered delivery sequence into a RoutePlan:
// per-stop arrival and departure timestamps, accumulated distance and
// driving time, statutory breaks, and the fuel/wear cost decomposition.
//
// All intermediate arithmetic stays unrounded; rounding to two decimals
// happens only at the presentation boundary.
type ScheduleBuilder struct {
	Estimator ports.DistanceEstimator
}

// Build schedules the given visiting order for one vehicle, starting at
// departAt from the depot and ending with the return leg to the depot.
//
// A leg whose estimate degrades never fails the plan: the stop is scheduled
// with the least-bad available estimate and the leg carries its estimation
// method. Capacity must have been validated by the caller; the builder does
// not re-check it.
func (b *ScheduleBuilder) Build(
	ctx context.Context,
	ordered []*domain.Delivery,
	vehicle domain.Vehicle,
	depot domain.Depot,
	departAt time.Time,
) (*domain.RoutePlan, error) {
	plan := &domain.RoutePlan{
		DepartAt: departAt,
		Stops:    []domain.RouteStop{},
	}

	if len(ordered) == 0 {
		return plan, nil
	}

	// Loading happens once, at the depot, before the first leg.
	clock := departAt.Add(minutes(vehicle.LoadingMin))

	prevCoord := depot.Coord
	prevPostal := depot.PostalCode
	cumulativeKm := 0.0

	for _, d := range ordered {
		est := b.legEstimate(ctx, prevCoord, *d.Coord, prevPostal, d.PostalCode, plan)
		legDur := est.DurationFor(vehicle.AvgSpeedKmh)

		due := breaksBetween(plan.DrivingMin, plan.DrivingMin+legDur)
		plan.BreakCount += due

		arrive := clock.Add(minutes(legDur + float64(due)*vehicle.BreakMin))
		depart := arrive.Add(minutes(vehicle.UnloadingMin))
		clock = depart

		plan.DrivingMin += legDur
		plan.TotalDistanceKm += est.DistanceKm
		cumulativeKm += est.DistanceKm

		plan.Stops = append(plan.Stops, domain.RouteStop{
			DeliveryID:          d.DeliveryID,
			ArriveAt:            arrive,
			DepartAt:            depart,
			DistanceFromDepotKm: cumulativeKm,
			LegDistanceKm:       est.DistanceKm,
			LegMethod:           est.Method,
		})

		prevCoord = *d.Coord
		prevPostal = d.PostalCode
	}

	// Return leg back to the depot counts toward distance, driving time and
	// break accrual, but produces no stop.
	back := b.legEstimate(ctx, prevCoord, depot.Coord, prevPostal, depot.PostalCode, plan)
	backDur := back.DurationFor(vehicle.AvgSpeedKmh)
	plan.BreakCount += breaksBetween(plan.DrivingMin, plan.DrivingMin+backDur)
	plan.DrivingMin += backDur
	plan.TotalDistanceKm += back.DistanceKm

	plan.BreakMin = float64(plan.BreakCount) * vehicle.BreakMin
	plan.TotalElapsedMin = vehicle.LoadingMin +
		plan.DrivingMin +
		plan.BreakMin +
		vehicle.UnloadingMin*float64(len(plan.Stops))

	plan.FuelCost = plan.TotalDistanceKm / 100 * vehicle.FuelL100Km * vehicle.FuelPricePerLiter
	plan.WearCost = plan.TotalDistanceKm * vehicle.WearPerKm
	plan.TotalCost = plan.FuelCost + plan.WearCost

	return plan, nil
}

// legEstimate asks the estimator for one leg and degrades locally when even
// the estimator's own fallback ladder failed: great-circle with the road
// detour factor first, then the postal-code zone estimate.
func (b *ScheduleBuilder) legEstimate(
	ctx context.Context,
	from, to domain.Coordinates,
	fromPostal, toPostal string,
	plan *domain.RoutePlan,
) ports.LegEstimate {
	est, err := b.Estimator.Estimate(ctx, from, to)
	if err == nil {
		return est
	}

	if from.InServiceArea() && to.InServiceArea() {
		plan.Warnings = append(plan.Warnings, fmt.Sprintf(
			"leg %s -> %s: estimator failed (%v), using beeline estimate", from.Key(), to.Key(), err))
		return ports.LegEstimate{
			DistanceKm: domain.BeelineEstimateKm(from, to),
			Method:     domain.EstimateBeeline,
		}
	}

	if km, perr := domain.PostalZoneDistanceKm(fromPostal, toPostal); perr == nil {
		plan.Warnings = append(plan.Warnings, fmt.Sprintf(
			"leg %s -> %s: no usable coordinates, using postal zone estimate", fromPostal, toPostal))
		return ports.LegEstimate{DistanceKm: km, Method: domain.EstimatePostal}
	}

	plan.Warnings = append(plan.Warnings, fmt.Sprintf(
		"leg %s -> %s: no distance estimate available", fromPostal, toPostal))
	return ports.LegEstimate{Method: domain.EstimatePostal}
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}
