package dto

import "dispatch-route-service/internal/domain"

type CreateDeliveryRequest struct {
	Street     string  `json:"street" validate:"required"`
	PostalCode string  `json:"postal_code" validate:"required,min=4"`
	City       string  `json:"city" validate:"required"`
	WeightKg   float64 `json:"weight_kg" validate:"required,gt=0"`
}

type DeliveryResponse struct {
	DeliveryID int      `json:"delivery_id"`
	Street     string   `json:"street"`
	PostalCode string   `json:"postal_code"`
	City       string   `json:"city"`
	WeightKg   float64  `json:"weight_kg"`
	Lon        *float64 `json:"lon,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Status     string   `json:"status"`
}

type ListDeliveriesResponse struct {
	Deliveries []DeliveryResponse `json:"deliveries"`
}

func FromDelivery(d *domain.Delivery) DeliveryResponse {
	res := DeliveryResponse{
		DeliveryID: d.DeliveryID,
		Street:     d.Street,
		PostalCode: d.PostalCode,
		City:       d.City,
		WeightKg:   d.WeightKg,
		Status:     string(d.Status),
	}
	if d.Coord != nil {
		lon, lat := d.Coord.Lon, d.Coord.Lat
		res.Lon, res.Lat = &lon, &lat
	}
	return res
}
