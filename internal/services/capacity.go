package services

import "dispatch-route-service/internal/domain"

// CapacityResult reports whether a candidate delivery set fits a vehicle.
type CapacityResult struct {
	OK          bool
	TotalTonnes float64
}

// ValidateCapacity is a pure sum-and-compare check: total tonnage of the
// candidate set must not exceed the vehicle's capacity. There is no
// partial-fit logic; the caller pre-selects the candidate subset and this
// function confirms or rejects the whole set.
func ValidateCapacity(deliveries []*domain.Delivery, vehicle domain.Vehicle) CapacityResult {
	var total float64
	for _, d := range deliveries {
		total += d.Tonnes()
	}
	return CapacityResult{
		OK:          total <= vehicle.CapacityTonnes,
		TotalTonnes: total,
	}
}
