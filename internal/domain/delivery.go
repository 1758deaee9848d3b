package domain

import "strings"

type DeliveryStatus string

const (
	// Waiting to be planned onto a route.
	StatusPending DeliveryStatus = "pending"
	// Consumed by a planned route.
	StatusAssigned DeliveryStatus = "assigned"
)

// Delivery is a single pending drop-off owned by the surrounding order
// system. The planning engine borrows it for one planning call; the only
// mutation it performs is attaching a lazily resolved coordinate.
type Delivery struct {
	DeliveryID int
	Street     string
	PostalCode string
	City       string
	WeightKg   float64
	Coord      *Coordinates
	Status     DeliveryStatus
}

// Tonnes returns the delivery weight in metric tons.
func (d *Delivery) Tonnes() float64 { return d.WeightKg / 1000 }

// Address renders the destination as a single line for logs and queries.
func (d *Delivery) Address() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{d.Street, d.PostalCode, d.City} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// Resolved reports whether a plausible coordinate is attached.
func (d *Delivery) Resolved() bool {
	return d.Coord != nil && d.Coord.InServiceArea()
}
