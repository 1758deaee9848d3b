package ors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/platform/obs"
	"dispatch-route-service/internal/ports"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label      string `json:"label"`
			PostalCode string `json:"postalcode"`
		} `json:"properties"`
	} `json:"features"`
}

// Resolve geocodes a destination via /geocode/search, walking the query
// ladder from the full street address down to the bare postal code. A rung
// succeeds only when a candidate passes the best-candidate heuristic and the
// service-area plausibility filter; otherwise the next, coarser rung is
// tried.
func (c *Client) Resolve(ctx context.Context, q ports.GeocodeQuery) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Resolve")(&err)

	for _, text := range q.Ladder() {
		coord, found, err := c.search(ctx, text, q.PostalCode)
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", text, err)
		}
		if found {
			return coord, nil
		}
	}

	return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", q.CacheKey(), domain.ErrNoCoordinate)
}

func (c *Client) search(ctx context.Context, text, wantPostal string) (domain.Coordinates, bool, error) {
	endpoint := c.baseURL + "/geocode/search"

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		params := req.URL.Query()
		params.Set("text", text)
		params.Set("boundary.country", c.country)
		params.Set("size", "5")
		req.URL.RawQuery = params.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("decode geocode response: %w", err)
	}

	// Best-candidate heuristic: an exact postal-code match wins, then a label
	// mentioning the postal code, then the first plausible hit. Never blindly
	// the first feature.
	var fallback *domain.Coordinates
	for _, f := range decoded.Features {
		if len(f.Geometry.Coordinates) != 2 {
			continue
		}
		coord := domain.Coordinates{
			Lon: f.Geometry.Coordinates[0],
			Lat: f.Geometry.Coordinates[1],
		}
		if !coord.InServiceArea() {
			continue
		}

		if wantPostal != "" {
			if f.Properties.PostalCode == wantPostal {
				return coord, true, nil
			}
			if strings.Contains(f.Properties.Label, wantPostal) {
				return coord, true, nil
			}
		}
		if fallback == nil {
			fallback = &coord
		}
	}

	if fallback != nil {
		return *fallback, true, nil
	}
	return domain.Coordinates{}, false, nil
}
