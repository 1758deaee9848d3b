package domain

import (
	"fmt"
	"strconv"
)

// Distance-estimation rules shared by the estimator and the schedule
// builder. A single definition keeps every code path on the same
// plausibility bounds.
const (
	// Road distance assumed per kilometer of great-circle distance.
	RoadDetourFactor = 1.3
	// A routed distance above this multiple of the great-circle distance is
	// discarded as implausible.
	RoutedPlausibilityRatio = 2.5
	// Absolute ceiling for a single intra-country leg.
	MaxPlausibleLegKm = 1000.0
)

// Postal-code zone fallback: one unit of difference between the two leading
// postal-code digits is taken as this many road kilometers. Coarse by
// design; used only when no coordinates are available at all.
const (
	postalZoneUnitKm    = 15.0
	postalSameZoneKm    = 20.0
	postalLeadingDigits = 2
)

// BeelineEstimateKm returns the great-circle distance scaled by the road
// detour factor.
func BeelineEstimateKm(from, to Coordinates) float64 {
	return from.DistanceKmTo(to) * RoadDetourFactor
}

// PostalZoneDistanceKm estimates the distance between two postal codes from
// the numeric difference of their leading digits.
func PostalZoneDistanceKm(fromPostal, toPostal string) (float64, error) {
	a, err := postalZone(fromPostal)
	if err != nil {
		return 0, err
	}
	b, err := postalZone(toPostal)
	if err != nil {
		return 0, err
	}

	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	if diff == 0 {
		return postalSameZoneKm, nil
	}
	return float64(diff) * postalZoneUnitKm, nil
}

func postalZone(postal string) (int, error) {
	if len(postal) < postalLeadingDigits {
		return 0, fmt.Errorf("postal code %q too short for zone estimate", postal)
	}
	zone, err := strconv.Atoi(postal[:postalLeadingDigits])
	if err != nil {
		return 0, fmt.Errorf("postal code %q is not numeric: %w", postal, err)
	}
	return zone, nil
}
