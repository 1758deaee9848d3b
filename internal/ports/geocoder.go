package ports

import (
	"context"
	"strings"

	"dispatch-route-service/internal/domain"
)

// GeocodeQuery is a structured destination address. Providers walk the
// query ladder from most to least specific until one rung yields a
// plausible coordinate.
type GeocodeQuery struct {
	Street     string
	PostalCode string
	City       string
}

func QueryFor(d *domain.Delivery) GeocodeQuery {
	return GeocodeQuery{Street: d.Street, PostalCode: d.PostalCode, City: d.City}
}

// Ladder renders the fallback sequence of free-text queries:
// street+postal+city, street+postal, postal+city, postal only.
// Empty rungs and duplicates are dropped.
func (q GeocodeQuery) Ladder() []string {
	street := strings.TrimSpace(q.Street)
	postal := strings.TrimSpace(q.PostalCode)
	city := strings.TrimSpace(q.City)

	candidates := []string{
		join(street, postal, city),
		join(street, postal),
		join(postal, city),
		postal,
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// CacheKey normalizes the full query for use as a cache key.
func (q GeocodeQuery) CacheKey() string {
	return strings.ToLower(strings.Join(strings.Fields(join(q.Street, q.PostalCode, q.City)), " "))
}

func join(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ", ")
}

// Geocoder resolves a destination address to a coordinate. Implementations
// return domain.ErrNoCoordinate (wrapped) when nothing plausible was found;
// transport failures are returned as-is so a chain can move on to the next
// provider.
type Geocoder interface {
	Resolve(ctx context.Context, q GeocodeQuery) (domain.Coordinates, error)
}
