package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDeliveriesQuery := `
	CREATE TABLE IF NOT EXISTS deliveries (
		delivery_id INTEGER PRIMARY KEY,
		street TEXT NOT NULL,
		postal_code TEXT NOT NULL,
		city TEXT NOT NULL,
		weight_kg REAL NOT NULL,
		lon REAL,
		lat REAL,
		status TEXT NOT NULL DEFAULT 'pending'
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		query TEXT PRIMARY KEY,
		lon REAL NOT NULL,
		lat REAL NOT NULL
	);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_km REAL NOT NULL,
		duration_min REAL NOT NULL,
		method TEXT NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`

	createStatusIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_deliveries_status
	ON deliveries(status);
	`

	statements := []string{
		createDeliveriesQuery,
		createGeocodeCacheQuery,
		createDistanceCacheQuery,
		createStatusIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type DeliverySeed struct {
	DeliveryID int     `json:"delivery_id"`
	Street     string  `json:"street"`
	PostalCode string  `json:"postal_code"`
	City       string  `json:"city"`
	WeightKg   float64 `json:"weight_kg"`
}

// Populate the database with delivery data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed deliveries: read %q: %w", jsonPath, err)
	}

	var data []DeliverySeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed deliveries: parse json: %w", err)
	}

	for i, item := range data {
		if item.DeliveryID <= 0 {
			return fmt.Errorf("seed deliveries: invalid deliveryID at index %d: %d", i+1, item.DeliveryID)
		}
		if strings.TrimSpace(item.PostalCode) == "" {
			return fmt.Errorf("seed deliveries: item at index %d: postal code cannot be empty", i+1)
		}
		if item.WeightKg <= 0 {
			return fmt.Errorf("seed deliveries: item at index %d: weight must be positive", i+1)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed deliveries: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO deliveries (
		delivery_id,
		street,
		postal_code,
		city,
		weight_kg,
		status
	)
	VALUES (?, ?, ?, ?, ?, 'pending');
	`)
	if err != nil {
		return fmt.Errorf("seed deliveries: prepare: %w", err)
	}
	defer stmt.Close()

	for _, item := range data {
		if _, err := stmt.Exec(
			item.DeliveryID,
			strings.TrimSpace(item.Street),
			strings.TrimSpace(item.PostalCode),
			strings.TrimSpace(item.City),
			item.WeightKg,
		); err != nil {
			return fmt.Errorf("seed deliveries: insert delivery_id=%d: %w", item.DeliveryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed deliveries: commit tx: %w", err)
	}

	return nil
}
