package handlers

import (
	"log"
	"net/http"

	"dispatch-route-service/internal/api/dto"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"

	"github.com/labstack/echo/v4"
)

// DeliveryHandler exposes the delivery registry endpoints.
type DeliveryHandler struct {
	Repo ports.DeliveryRepository
}

func (h *DeliveryHandler) List(c echo.Context) error {
	deliveries, err := h.Repo.ListPending(c.Request().Context())
	if err != nil {
		log.Printf("list deliveries failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	res := dto.ListDeliveriesResponse{
		Deliveries: make([]dto.DeliveryResponse, 0, len(deliveries)),
	}
	for _, d := range deliveries {
		res.Deliveries = append(res.Deliveries, dto.FromDelivery(d))
	}

	return c.JSON(http.StatusOK, res)
}

func (h *DeliveryHandler) Create(c echo.Context) error {
	var req dto.CreateDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	d := &domain.Delivery{
		Street:     req.Street,
		PostalCode: req.PostalCode,
		City:       req.City,
		WeightKg:   req.WeightKg,
	}
	if err := h.Repo.Create(c.Request().Context(), d); err != nil {
		log.Printf("create delivery failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusCreated, dto.FromDelivery(d))
}
