package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"dispatch-route-service/internal/api/dto"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
	"dispatch-route-service/internal/services"

	"github.com/labstack/echo/v4"
)

// PlanHandler exposes capacity validation and route planning. It is the
// surrounding order system's side of the boundary: it selects the candidate
// set, invokes the engine, and persists the consequences (assigned status).
type PlanHandler struct {
	Repo           ports.DeliveryRepository
	Planner        *services.Planner
	DefaultVehicle domain.Vehicle
}

// ValidateCapacity runs the pure capacity gate without any planning work.
func (h *PlanHandler) ValidateCapacity(c echo.Context) error {
	var req dto.CapacityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json body")
	}

	vehicle, err := h.vehicle(c, req.Vehicle)
	if err != nil {
		return err
	}

	deliveries, err := h.candidates(c, req.DeliveryIDs)
	if err != nil {
		return err
	}

	result := services.ValidateCapacity(deliveries, vehicle)
	return c.JSON(http.StatusOK, dto.CapacityResponse{
		OK:             result.OK,
		TotalTonnes:    dto.Round2(result.TotalTonnes),
		CapacityTonnes: dto.Round2(vehicle.CapacityTonnes),
	})
}

// Plan runs one full planning call and marks the scheduled deliveries as
// assigned on success.
func (h *PlanHandler) Plan(c echo.Context) error {
	var req dto.PlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json body")
	}

	vehicle, err := h.vehicle(c, req.Vehicle)
	if err != nil {
		return err
	}

	deliveries, err := h.candidates(c, req.DeliveryIDs)
	if err != nil {
		return err
	}

	departAt := time.Now()
	if req.DepartAt != nil {
		departAt = *req.DepartAt
	}

	plan, err := h.Planner.PlanRoute(c.Request().Context(), deliveries, vehicle, departAt)
	var capErr *domain.CapacityError
	if errors.As(err, &capErr) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"error":           "capacity exceeded",
			"total_tonnes":    dto.Round2(capErr.TotalTonnes),
			"capacity_tonnes": dto.Round2(capErr.CapacityTonnes),
		})
	}
	if err != nil {
		log.Printf("plan route failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	scheduled := make([]int, 0, len(plan.Stops))
	for _, s := range plan.Stops {
		scheduled = append(scheduled, s.DeliveryID)
	}
	if err := h.Repo.MarkAssigned(c.Request().Context(), scheduled); err != nil {
		// The plan itself is valid; report and move on.
		log.Printf("mark assigned failed: plan_id=%s err=%v", plan.PlanID, err)
	}

	return c.JSON(http.StatusOK, dto.FromPlan(plan))
}

func (h *PlanHandler) vehicle(c echo.Context, req *dto.VehicleRequest) (domain.Vehicle, error) {
	if req == nil {
		return h.DefaultVehicle, nil
	}
	if err := c.Validate(req); err != nil {
		return domain.Vehicle{}, err
	}
	return req.ToVehicle(), nil
}

// candidates loads the requested delivery set: explicit IDs, or all pending
// deliveries when none are given.
func (h *PlanHandler) candidates(c echo.Context, ids []int) ([]*domain.Delivery, error) {
	ctx := c.Request().Context()

	if len(ids) == 0 {
		deliveries, err := h.Repo.ListPending(ctx)
		if err != nil {
			log.Printf("list pending deliveries failed: %v", err)
			return nil, echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
		return deliveries, nil
	}

	deliveries, err := h.Repo.GetByIDs(ctx, ids)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "unknown delivery id")
	}
	if err != nil {
		log.Printf("get deliveries failed: %v", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return deliveries, nil
}
