package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dispatch-route-service/internal/domain"
)

// SQLite-backed cache mapping normalized address queries to coordinates.
// Used when no Redis instance is configured; survives process restarts but
// is still advisory only.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

func (s *SqliteGeocodeCache) Get(ctx context.Context, key string) (domain.Coordinates, bool, error) {
	if s.DB == nil {
		return domain.Coordinates{}, false, errors.New("geocode cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return domain.Coordinates{}, false, errors.New("geocode cache: key must not be empty")
	}

	q := `
	SELECT lon, lat
	FROM geocode_cache
	WHERE query = ?;
	`

	var lon, lat float64
	err := s.DB.QueryRowContext(ctx, q, key).Scan(&lon, &lat)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache %q: %w", key, err)
	}

	return domain.Coordinates{Lon: lon, Lat: lat}, true, nil
}

func (s *SqliteGeocodeCache) Put(ctx context.Context, key string, coord domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("geocode cache: key must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO geocode_cache (query, lon, lat)
	VALUES (?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, key, coord.Lon, coord.Lat); err != nil {
		return fmt.Errorf("insert geocode cache %q: %w", key, err)
	}
	return nil
}
