package domain

import (
	"errors"
	"fmt"
)

// ErrNoCoordinate indicates that no geocoding provider produced a plausible
// coordinate for an address. Callers exclude the delivery from geographic
// placement; it is not a fatal planning error.
var ErrNoCoordinate = errors.New("no coordinate found")

// ErrNoEstimate indicates that no distance estimate could be produced for a
// leg, even through the fallback ladder.
var ErrNoEstimate = errors.New("no distance estimate available")

var ErrNotFound = errors.New("requested resource not found")

// CapacityError reports a candidate delivery set that exceeds the vehicle's
// tonnage limit. It is fatal for the requested set and raised before any
// sequencing work begins.
type CapacityError struct {
	TotalTonnes    float64
	CapacityTonnes float64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded: %.3f t loaded, %.3f t allowed", e.TotalTonnes, e.CapacityTonnes)
}
