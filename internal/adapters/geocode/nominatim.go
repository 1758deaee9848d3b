// Package geocode composes geocoding providers into the coordinate
// resolver: an ordered provider chain with plausibility filtering and a
// best-effort cache, plus the secondary Nominatim provider.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/platform/obs"
	"dispatch-route-service/internal/ports"
)

// Placeholder coordinates Nominatim has been observed returning for
// unmatchable queries (country centroid, null island). Candidates near one
// of these are junk, not geography.
var nominatimDenyList = []domain.Coordinates{
	{Lon: 10.451526, Lat: 51.165691},
	{Lon: 0, Lat: 0},
}

const denyListToleranceDeg = 0.01

// Nominatim is the secondary geocoding provider, consulted only after the
// primary provider fails an entire query ladder.
type Nominatim struct {
	session   *http.Client
	baseURL   string
	userAgent string
}

func NewNominatim(baseURL string) *Nominatim {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &Nominatim{
		session:   &http.Client{Timeout: 10 * time.Second},
		baseURL:   baseURL,
		userAgent: "dispatch-route-service/1.0",
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve walks the query ladder against /search. Results on the deny-list
// or outside the service area are skipped.
func (n *Nominatim) Resolve(ctx context.Context, q ports.GeocodeQuery) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "nominatim.Resolve")(&err)

	for _, text := range q.Ladder() {
		coord, found, err := n.search(ctx, text)
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("nominatim %q: %w", text, err)
		}
		if found {
			return coord, nil
		}
	}

	return domain.Coordinates{}, fmt.Errorf("nominatim %q: %w", q.CacheKey(), domain.ErrNoCoordinate)
}

func (n *Nominatim) search(ctx context.Context, text string) (domain.Coordinates, bool, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("format", "jsonv2")
	params.Set("countrycodes", "de")
	params.Set("limit", "3")

	endpoint := n.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.session.Do(req)
	if err != nil {
		return domain.Coordinates{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, false, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("decode response: %w", err)
	}

	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		coord := domain.Coordinates{Lon: lon, Lat: lat}
		if denied(coord) || !coord.InServiceArea() {
			continue
		}
		return coord, true, nil
	}

	return domain.Coordinates{}, false, nil
}

func denied(c domain.Coordinates) bool {
	for _, bad := range nominatimDenyList {
		if c.NearlyEqual(bad, denyListToleranceDeg) {
			return true
		}
	}
	return false
}
