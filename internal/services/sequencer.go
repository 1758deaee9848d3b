package services

import "dispatch-route-service/internal/domain"

// SequenceResult splits a candidate set into an ordered visiting sequence
// and the deliveries that could not be placed geographically.
type SequenceResult struct {
	Ordered []*domain.Delivery
	// Deliveries without a usable coordinate. They are reported for manual
	// placement, never silently collapsed onto the depot coordinate.
	Unplaced []*domain.Delivery
}

// RouteSequencer orders deliveries into a visiting sequence. Kept as an
// interface so a stronger heuristic (e.g. a 2-opt improvement pass) can be
// substituted without touching the schedule builder.
type RouteSequencer interface {
	Sequence(deliveries []*domain.Delivery, start domain.Coordinates) SequenceResult
}

// NearestNeighborSequencer orders stops with a greedy nearest-neighbor walk
// over resolved coordinates.
//
// Great-circle distance is used only for ranking, never for reported trip
// distance. The result is a heuristic tour, not an optimum: it does not
// guarantee minimal total distance.
type NearestNeighborSequencer struct{}

// Sequence repeatedly picks the unvisited delivery closest to the current
// position, starting at the depot. When two candidates are equidistant the
// first-listed one wins, so the output is deterministic for a fixed input
// order.
func (NearestNeighborSequencer) Sequence(deliveries []*domain.Delivery, start domain.Coordinates) SequenceResult {
	var res SequenceResult

	remaining := make([]*domain.Delivery, 0, len(deliveries))
	for _, d := range deliveries {
		if !d.Resolved() {
			res.Unplaced = append(res.Unplaced, d)
			continue
		}
		remaining = append(remaining, d)
	}

	current := start
	for len(remaining) > 0 {
		best := 0
		bestDist := current.DistanceKmTo(*remaining[0].Coord)
		for i := 1; i < len(remaining); i++ {
			// Strict less-than keeps the earlier-listed candidate on ties.
			if d := current.DistanceKmTo(*remaining[i].Coord); d < bestDist {
				best = i
				bestDist = d
			}
		}

		next := remaining[best]
		res.Ordered = append(res.Ordered, next)
		current = *next.Coord
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return res
}
