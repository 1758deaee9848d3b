package dto

import (
	"math"
	"time"

	"dispatch-route-service/internal/domain"
)

type VehicleRequest struct {
	CapacityTonnes    float64 `json:"capacity_tonnes" validate:"required,gt=0"`
	FuelL100Km        float64 `json:"fuel_l_100km" validate:"required,gt=0"`
	AvgSpeedKmh       float64 `json:"avg_speed_kmh" validate:"required,gt=0"`
	FuelPricePerLiter float64 `json:"fuel_price_per_liter" validate:"required,gt=0"`
	LoadingMin        float64 `json:"loading_min" validate:"gte=0"`
	UnloadingMin      float64 `json:"unloading_min" validate:"gte=0"`
	WearPerKm         float64 `json:"wear_per_km" validate:"gte=0"`
	BreakMin          float64 `json:"break_min" validate:"gte=0"`
}

func (v *VehicleRequest) ToVehicle() domain.Vehicle {
	return domain.Vehicle{
		CapacityTonnes:    v.CapacityTonnes,
		FuelL100Km:        v.FuelL100Km,
		AvgSpeedKmh:       v.AvgSpeedKmh,
		FuelPricePerLiter: v.FuelPricePerLiter,
		LoadingMin:        v.LoadingMin,
		UnloadingMin:      v.UnloadingMin,
		WearPerKm:         v.WearPerKm,
		BreakMin:          v.BreakMin,
	}
}

// PlanRequest selects the candidate delivery set and vehicle for one
// planning call. Empty delivery_ids means "all pending deliveries"; a nil
// vehicle selects the configured default parameter set.
type PlanRequest struct {
	DeliveryIDs []int           `json:"delivery_ids"`
	DepartAt    *time.Time      `json:"depart_at"`
	Vehicle     *VehicleRequest `json:"vehicle"`
}

type CapacityRequest struct {
	DeliveryIDs []int           `json:"delivery_ids"`
	Vehicle     *VehicleRequest `json:"vehicle"`
}

type CapacityResponse struct {
	OK             bool    `json:"ok"`
	TotalTonnes    float64 `json:"total_tonnes"`
	CapacityTonnes float64 `json:"capacity_tonnes"`
}

type RouteStopResponse struct {
	DeliveryID          int       `json:"delivery_id"`
	ArriveAt            time.Time `json:"arrive_at"`
	DepartAt            time.Time `json:"depart_at"`
	DistanceFromDepotKm float64   `json:"distance_from_depot_km"`
	LegDistanceKm       float64   `json:"leg_distance_km"`
	LegMethod           string    `json:"leg_method"`
}

type PlanResponse struct {
	PlanID              string              `json:"plan_id"`
	DepartAt            time.Time           `json:"depart_at"`
	Stops               []RouteStopResponse `json:"stops"`
	UnplacedDeliveryIDs []int               `json:"unplaced_delivery_ids,omitempty"`
	Warnings            []string            `json:"warnings,omitempty"`
	Degraded            bool                `json:"degraded"`
	TotalDistanceKm     float64             `json:"total_distance_km"`
	DrivingMin          float64             `json:"driving_min"`
	BreakCount          int                 `json:"break_count"`
	BreakMin            float64             `json:"break_min"`
	TotalElapsedMin     float64             `json:"total_elapsed_min"`
	FuelCost            float64             `json:"fuel_cost"`
	WearCost            float64             `json:"wear_cost"`
	TotalCost           float64             `json:"total_cost"`
}

// Round2 rounds to two decimals. Applied only here, at the presentation
// boundary, so rounding error never compounds across legs.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func FromPlan(p *domain.RoutePlan) PlanResponse {
	stops := make([]RouteStopResponse, 0, len(p.Stops))
	for _, s := range p.Stops {
		stops = append(stops, RouteStopResponse{
			DeliveryID:          s.DeliveryID,
			ArriveAt:            s.ArriveAt,
			DepartAt:            s.DepartAt,
			DistanceFromDepotKm: Round2(s.DistanceFromDepotKm),
			LegDistanceKm:       Round2(s.LegDistanceKm),
			LegMethod:           string(s.LegMethod),
		})
	}

	return PlanResponse{
		PlanID:              p.PlanID,
		DepartAt:            p.DepartAt,
		Stops:               stops,
		UnplacedDeliveryIDs: p.UnplacedDeliveryIDs,
		Warnings:            p.Warnings,
		Degraded:            p.Degraded(),
		TotalDistanceKm:     Round2(p.TotalDistanceKm),
		DrivingMin:          Round2(p.DrivingMin),
		BreakCount:          p.BreakCount,
		BreakMin:            Round2(p.BreakMin),
		TotalElapsedMin:     Round2(p.TotalElapsedMin),
		FuelCost:            Round2(p.FuelCost),
		WearCost:            Round2(p.WearCost),
		TotalCost:           Round2(p.TotalCost),
	}
}
