package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dispatch-route-service/internal/domain"
)

// Postgres-flavored implementation of the DeliveryRepository port, used with
// the pgx stdlib driver. Schema management is external (migrations); this
// adapter assumes the deliveries table exists.
type SQLDeliveryRepository struct{ DB *sql.DB }

func NewSQLDeliveryRepository(db *sql.DB) *SQLDeliveryRepository {
	return &SQLDeliveryRepository{DB: db}
}

func (s *SQLDeliveryRepository) ListPending(ctx context.Context) ([]*domain.Delivery, error) {
	if s.DB == nil {
		return nil, errors.New("sql delivery repository: DB is nil")
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

func (s *SQLDeliveryRepository) GetByIDs(ctx context.Context, ids []int) ([]*domain.Delivery, error) {
	if s.DB == nil {
		return nil, errors.New("sql delivery repository: DB is nil")
	}

	if len(ids) == 0 {
		return []*domain.Delivery{}, nil
	}

	ids64 := make([]int64, 0, len(ids))
	for _, id := range ids {
		ids64 = append(ids64, int64(id))
	}

	query := `
	SELECT ` + deliveryColumns + `
	FROM deliveries
	WHERE delivery_id = ANY($1::bigint[])
	ORDER BY delivery_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, ids64)
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

func (s *SQLDeliveryRepository) Create(ctx context.Context, d *domain.Delivery) error {
	if s.DB == nil {
		return errors.New("sql delivery repository: DB is nil")
	}

	query := `
	INSERT INTO deliveries (street, postal_code, city, weight_kg, status)
	VALUES ($1, $2, $3, $4, 'pending')
	RETURNING delivery_id;
	`
	if err := s.DB.QueryRowContext(ctx, query, d.Street, d.PostalCode, d.City, d.WeightKg).
		Scan(&d.DeliveryID); err != nil {
		return fmt.Errorf("create delivery: %w", err)
	}
	d.Status = domain.StatusPending

	return nil
}

func (s *SQLDeliveryRepository) SaveCoordinates(ctx context.Context, deliveryID int, c domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("sql delivery repository: DB is nil")
	}

	query := `
	UPDATE deliveries
	SET lon = $1, lat = $2
	WHERE delivery_id = $3;
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

func (s *SQLDeliveryRepository) MarkAssigned(ctx context.Context, ids []int) error {
	if s.DB == nil {
		return errors.New("sql delivery repository: DB is nil")
	}

	if len(ids) == 0 {
		return nil
	}

	ids64 := make([]int64, 0, len(ids))
	for _, id := range ids {
		ids64 = append(ids64, int64(id))
	}

	query := `
	UPDATE deliveries
	SET status = 'assigned'
	WHERE delivery_id = ANY($1::bigint[]);
	`
	if _, err := s.DB.ExecContext(ctx, query, ids64); err != nil {
		return fmt.Errorf("mark assigned: %w", err)
	}

	return nil
}
