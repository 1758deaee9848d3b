package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
)

// SQLite-backed cache for routed leg estimates, keyed by coordinate pair.
type SqliteDistanceCache struct {
	DB *sql.DB
}

func NewSqliteDistanceCache(db *sql.DB) *SqliteDistanceCache {
	return &SqliteDistanceCache{DB: db}
}

func (s *SqliteDistanceCache) Get(ctx context.Context, from, to domain.Coordinates) (ports.LegEstimate, bool, error) {
	if s.DB == nil {
		return ports.LegEstimate{}, false, errors.New("distance cache: db is nil")
	}

	q := `
	SELECT distance_km, duration_min, method
	FROM distance_cache
	WHERE origin = ? AND destination = ?;
	`

	var distanceKm, durationMin float64
	var method string
	err := s.DB.QueryRowContext(ctx, q, from.Key(), to.Key()).Scan(&distanceKm, &durationMin, &method)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.LegEstimate{}, false, nil
	}
	if err != nil {
		return ports.LegEstimate{}, false, fmt.Errorf("get distance cache %s|%s: %w", from.Key(), to.Key(), err)
	}

	return ports.LegEstimate{
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Method:      domain.EstimateMethod(method),
	}, true, nil
}

func (s *SqliteDistanceCache) Put(ctx context.Context, from, to domain.Coordinates, est ports.LegEstimate) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}

	q := `
	INSERT OR REPLACE INTO distance_cache (origin, destination, distance_km, duration_min, method)
	VALUES (?, ?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q,
		from.Key(), to.Key(), est.DistanceKm, est.DurationMin, string(est.Method)); err != nil {
		return fmt.Errorf("insert distance cache %s|%s: %w", from.Key(), to.Key(), err)
	}
	return nil
}
