package domain

// Depot is the fixed start and end location of every route.
type Depot struct {
	Street     string
	PostalCode string
	City       string
	Coord      Coordinates
}
