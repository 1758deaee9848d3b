package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/platform/obs"
	"dispatch-route-service/internal/ports"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"` // meters
			Duration float64 `json:"duration"` // seconds
		} `json:"summary"`
	} `json:"routes"`
}

// Route fetches the road distance and driving duration between two
// coordinates via /v2/directions, reading the first route alternative.
// Units are converted at this boundary: meters to kilometers, seconds to
// minutes.
func (c *Client) Route(ctx context.Context, from, to domain.Coordinates) (_ ports.LegEstimate, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s", c.baseURL, c.profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][]float64{from.CoordsToList(), to.CoordsToList()},
	})
	if err != nil {
		return ports.LegEstimate{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.LegEstimate{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.LegEstimate{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(decoded.Routes) == 0 {
		return ports.LegEstimate{}, fmt.Errorf("directions returned no route for %s -> %s", from.Key(), to.Key())
	}

	summary := decoded.Routes[0].Summary
	return ports.LegEstimate{
		DistanceKm:  summary.Distance / 1000,
		DurationMin: summary.Duration / 60,
		Method:      domain.EstimateRouted,
	}, nil
}
