package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dispatch-route-service/internal/domain"
)

// SQLite-backed implementation of the DeliveryRepository port.
type SqliteDeliveryRepository struct{ DB *sql.DB }

func NewSqliteDeliveryRepository(db *sql.DB) *SqliteDeliveryRepository {
	return &SqliteDeliveryRepository{DB: db}
}

const deliveryColumns = `
	delivery_id,
	street,
	postal_code,
	city,
	weight_kg,
	lon,
	lat,
	status
`

func scanDelivery(rows *sql.Rows) (*domain.Delivery, error) {
	var d domain.Delivery
	var lon, lat sql.NullFloat64
	var status string

	err := rows.Scan(&d.DeliveryID, &d.Street, &d.PostalCode, &d.City, &d.WeightKg, &lon, &lat, &status)
	if err != nil {
		return nil, fmt.Errorf("scan delivery row: %w", err)
	}

	d.Status = domain.DeliveryStatus(status)
	if lon.Valid && lat.Valid {
		d.Coord = &domain.Coordinates{Lon: lon.Float64, Lat: lat.Float64}
	}
	return &d, nil
}

// Return all deliveries still waiting to be planned.
func (s *SqliteDeliveryRepository) ListPending(ctx context.Context) ([]*domain.Delivery, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite delivery repository: DB is nil")
	}

	query := `
	SELECT ` + deliveryColumns + `
	FROM deliveries
	WHERE status = 'pending'
	ORDER BY delivery_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pending deliveries: query deliveries table: %w", err)
	}
	defer rows.Close()

	deliveries := make([]*domain.Delivery, 0, 64)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("list pending deliveries: %w", err)
		}
		deliveries = append(deliveries, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending deliveries: row iteration: %w", err)
	}

	return deliveries, nil
}

// Return the requested deliveries; any missing ID yields domain.ErrNotFound.
func (s *SqliteDeliveryRepository) GetByIDs(ctx context.Context, ids []int) ([]*domain.Delivery, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite delivery repository: DB is nil")
	}

	if len(ids) == 0 {
		return []*domain.Delivery{}, nil
	}

	// SQLite does not support binding slices in an IN (...) clause. Only the
	// placeholder structure is interpolated; values remain parameterized.
	ph := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		ph = append(ph, "?")
		args = append(args, id)
	}

	query := fmt.Sprintf(`
	SELECT `+deliveryColumns+`
	FROM deliveries
	WHERE delivery_id IN (%s)
	ORDER BY delivery_id;
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get deliveries: query deliveries table: %w", err)
	}
	defer rows.Close()

	byID := make(map[int]*domain.Delivery, len(ids))
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("get deliveries: %w", err)
		}
		byID[d.DeliveryID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get deliveries: row iteration: %w", err)
	}

	// Preserve the caller's order; it is the sequencing tie-break order.
	out := make([]*domain.Delivery, 0, len(ids))
	for _, id := range ids {
		d, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("get deliveries: delivery_id=%d: %w", id, domain.ErrNotFound)
		}
		out = append(out, d)
	}

	return out, nil
}

func (s *SqliteDeliveryRepository) Create(ctx context.Context, d *domain.Delivery) error {
	if s.DB == nil {
		return errors.New("sqlite delivery repository: DB is nil")
	}

	query := `
	INSERT INTO deliveries (street, postal_code, city, weight_kg, status)
	VALUES (?, ?, ?, ?, 'pending');
	`
	res, err := s.DB.ExecContext(ctx, query, d.Street, d.PostalCode, d.City, d.WeightKg)
	if err != nil {
		return fmt.Errorf("create delivery: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create delivery: last insert id: %w", err)
	}
	d.DeliveryID = int(id)
	d.Status = domain.StatusPending

	return nil
}

// Attach a geocoding result to a stored delivery.
func (s *SqliteDeliveryRepository) SaveCoordinates(ctx context.Context, deliveryID int, c domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("sqlite delivery repository: DB is nil")
	}

	query := `
	UPDATE deliveries
	SET lon = ?, lat = ?
	WHERE delivery_id = ?;
	`
	res, err := s.DB.ExecContext(ctx, query, c.Lon, c.Lat, deliveryID)
	if err != nil {
		return fmt.Errorf("save coordinates delivery_id=%d: %w", deliveryID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save coordinates delivery_id=%d: rows affected: %w", deliveryID, err)
	}
	if affected == 0 {
		return fmt.Errorf("save coordinates delivery_id=%d: %w", deliveryID, domain.ErrNotFound)
	}

	return nil
}

// Mark deliveries as consumed by a planned route.
func (s *SqliteDeliveryRepository) MarkAssigned(ctx context.Context, ids []int) error {
	if s.DB == nil {
		return errors.New("sqlite delivery repository: DB is nil")
	}

	if len(ids) == 0 {
		return nil
	}

	ph := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		ph = append(ph, "?")
		args = append(args, id)
	}

	query := fmt.Sprintf(`
	UPDATE deliveries
	SET status = 'assigned'
	WHERE delivery_id IN (%s);
	`, strings.Join(ph, ","))

	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark assigned: %w", err)
	}

	return nil
}
