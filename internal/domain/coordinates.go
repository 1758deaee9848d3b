package domain

import (
	"fmt"
	"math"
)

// Operating-area bounding box. Geocoding results outside this box are
// treated as resolution failures, never as geographic facts.
const (
	serviceAreaMinLon = 5.0
	serviceAreaMaxLon = 16.0
	serviceAreaMinLat = 47.0
	serviceAreaMaxLat = 56.0
)

const earthRadiusKm = 6371.0088

// Immutable geographic coordinates (longitude, latitude) in decimal degrees.
// Coordinates are produced only by the geocoding resolver; no other component
// fabricates them.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// InServiceArea reports whether the point lies inside the plausible
// operating-country bounding box.
func (c Coordinates) InServiceArea() bool {
	return c.Lon >= serviceAreaMinLon && c.Lon <= serviceAreaMaxLon &&
		c.Lat >= serviceAreaMinLat && c.Lat <= serviceAreaMaxLat
}

func (c Coordinates) IsZero() bool { return c.Lon == 0 && c.Lat == 0 }

// Key renders a stable cache key with enough precision (~1 m) to
// distinguish distinct stops.
func (c Coordinates) Key() string {
	return fmt.Sprintf("%.5f,%.5f", c.Lon, c.Lat)
}

// DistanceKmTo returns the great-circle distance to other in kilometers.
// Used for ranking candidates and as a sanity bound for routed distances,
// never reported as trip distance on its own.
func (c Coordinates) DistanceKmTo(other Coordinates) float64 {
	lat1 := c.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - c.Lat) * math.Pi / 180
	dLon := (other.Lon - c.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// NearlyEqual reports whether two points coincide within tolerance degrees.
// Providers return slightly different renderings of the same placeholder
// coordinate, so the deny-list compares with a tolerance.
func (c Coordinates) NearlyEqual(other Coordinates, tolerance float64) bool {
	return math.Abs(c.Lon-other.Lon) <= tolerance && math.Abs(c.Lat-other.Lat) <= tolerance
}
