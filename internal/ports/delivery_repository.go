package ports

import (
	"context"

	"dispatch-route-service/internal/domain"
)

// Port: boundary for retrieving and updating Delivery entities.
type DeliveryRepository interface {
	// Retrieve all deliveries still waiting to be planned.
	ListPending(ctx context.Context) ([]*domain.Delivery, error)
	// Retrieve the given deliveries; missing IDs yield domain.ErrNotFound.
	GetByIDs(ctx context.Context, ids []int) ([]*domain.Delivery, error)
	Create(ctx context.Context, d *domain.Delivery) error
	// Attach a geocoding result. The one write the planning engine performs.
	SaveCoordinates(ctx context.Context, deliveryID int, c domain.Coordinates) error
	// Mark deliveries as consumed by a planned route.
	MarkAssigned(ctx context.Context, ids []int) error
}
