package domain

import (
	"math"
	"testing"
)

func TestBeelineEstimateKm(t *testing.T) {
	from := Coordinates{Lon: 9.0, Lat: 49.0}
	to := Coordinates{Lon: 10.0, Lat: 49.0}

	want := from.DistanceKmTo(to) * RoadDetourFactor
	if got := BeelineEstimateKm(from, to); math.Abs(got-want) > 1e-9 {
		t.Fatalf("BeelineEstimateKm = %f, want %f", got, want)
	}
}

func TestPostalZoneDistanceKm(t *testing.T) {
	// Zones 97 and 70 differ by 27 units.
	got, err := PostalZoneDistanceKm("97070", "70173")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 27*15.0 {
		t.Fatalf("distance = %f, want %f", got, 27*15.0)
	}

	// Same leading digits fall back to the same-zone floor.
	got, err = PostalZoneDistanceKm("97070", "97980")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 20.0 {
		t.Fatalf("same-zone distance = %f, want 20", got)
	}
}

func TestPostalZoneDistanceKmInvalid(t *testing.T) {
	if _, err := PostalZoneDistanceKm("9", "70173"); err == nil {
		t.Fatal("expected error for short postal code")
	}
	if _, err := PostalZoneDistanceKm("97070", "AB123"); err == nil {
		t.Fatal("expected error for non-numeric postal code")
	}
}
