package cache

import (
	"context"
	"database/sql"
	"testing"

	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"

	_ "modernc.org/sqlite"
)

func newTestSqlite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range []string{
		`CREATE TABLE geocode_cache (query TEXT PRIMARY KEY, lon REAL NOT NULL, lat REAL NOT NULL);`,
		`CREATE TABLE distance_cache (
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			distance_km REAL NOT NULL,
			duration_min REAL NOT NULL,
			method TEXT NOT NULL,
			PRIMARY KEY (origin, destination)
		);`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func TestSqliteGeocodeCacheRoundTrip(t *testing.T) {
	c := NewSqliteGeocodeCache(newTestSqlite(t))
	ctx := context.Background()

	coord := domain.Coordinates{Lon: 9.93, Lat: 49.79}
	if err := c.Put(ctx, "97070, würzburg", coord); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(ctx, "97070, würzburg")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || got != coord {
		t.Fatalf("got %+v ok=%v, want %+v", got, ok, coord)
	}

	// Overwrite instead of duplicating.
	updated := domain.Coordinates{Lon: 9.94, Lat: 49.80}
	if err := c.Put(ctx, "97070, würzburg", updated); err != nil {
		t.Fatalf("put again: %v", err)
	}
	got, _, _ = c.Get(ctx, "97070, würzburg")
	if got != updated {
		t.Fatalf("got %+v, want the updated %+v", got, updated)
	}
}

func TestSqliteGeocodeCacheMiss(t *testing.T) {
	c := NewSqliteGeocodeCache(newTestSqlite(t))

	_, ok, err := c.Get(context.Background(), "never stored")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected a miss")
	}
}

func TestSqliteDistanceCacheRoundTrip(t *testing.T) {
	c := NewSqliteDistanceCache(newTestSqlite(t))
	ctx := context.Background()

	from := domain.Coordinates{Lon: 9.60, Lat: 49.85}
	to := domain.Coordinates{Lon: 9.93, Lat: 49.79}
	est := ports.LegEstimate{DistanceKm: 52, DurationMin: 45, Method: domain.EstimateRouted}

	if err := c.Put(ctx, from, to, est); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(ctx, from, to)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || got != est {
		t.Fatalf("got %+v ok=%v, want %+v", got, ok, est)
	}

	if _, ok, _ := c.Get(ctx, to, from); ok {
		t.Fatal("reverse leg must miss")
	}
}
