package ors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"dispatch-route-service/internal/domain"
)

func TestRouteParsesSummary(t *testing.T) {
	from := domain.Coordinates{Lon: 9.60, Lat: 49.85}
	to := domain.Coordinates{Lon: 9.93, Lat: 49.79}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}

		var req directionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if len(req.Coordinates) != 2 || req.Coordinates[0][0] != 9.60 || req.Coordinates[1][1] != 49.79 {
			t.Errorf("coordinates = %v", req.Coordinates)
		}

		fmt.Fprint(w, `{"routes": [{"summary": {"distance": 52000, "duration": 2700}}]}`)
	})

	c, _ := newTestClient(t, handler)
	est, err := c.Route(context.Background(), from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if est.DistanceKm != 52 {
		t.Fatalf("distance = %f km, want 52", est.DistanceKm)
	}
	if est.DurationMin != 45 {
		t.Fatalf("duration = %f min, want 45", est.DurationMin)
	}
	if est.Method != domain.EstimateRouted {
		t.Fatalf("method = %q, want routed", est.Method)
	}
}

func TestRouteNoRoutes(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"routes": []}`)
	})

	c, _ := newTestClient(t, handler)
	_, err := c.Route(context.Background(),
		domain.Coordinates{Lon: 9.60, Lat: 49.85},
		domain.Coordinates{Lon: 9.93, Lat: 49.79},
	)
	if err == nil {
		t.Fatal("expected an error for an empty route list")
	}
}

func TestRouteRetriesTransientFailures(t *testing.T) {
	var attempts atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"routes": [{"summary": {"distance": 52000, "duration": 2700}}]}`)
	})

	c, _ := newTestClient(t, handler)
	est, err := c.Route(context.Background(),
		domain.Coordinates{Lon: 9.60, Lat: 49.85},
		domain.Coordinates{Lon: 9.93, Lat: 49.79},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.DistanceKm != 52 {
		t.Fatalf("distance = %f, want 52", est.DistanceKm)
	}
	if got := attempts.Load(); got != 2 {
		t.Fatalf("attempts = %d, want 2", got)
	}
}

func TestRouteGivesUpOnClientError(t *testing.T) {
	var attempts atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	c, _ := newTestClient(t, handler)
	_, err := c.Route(context.Background(),
		domain.Coordinates{Lon: 9.60, Lat: 49.85},
		domain.Coordinates{Lon: 9.93, Lat: 49.79},
	)
	if err == nil {
		t.Fatal("expected an error for a 403 response")
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("attempts = %d, want 1 (4xx must not be retried)", got)
	}
}
