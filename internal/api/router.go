package api

import (
	"dispatch-route-service/internal/api/handlers"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
	"dispatch-route-service/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewRouter wires HTTP handlers with their dependencies and returns the
// Echo instance. This is the API composition root; handlers stay unaware of
// concrete adapters.
func NewRouter(
	repo ports.DeliveryRepository,
	planner *services.Planner,
	defaultVehicle domain.Vehicle,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(RequestLogger())

	deliveryHandler := &handlers.DeliveryHandler{Repo: repo}
	planHandler := &handlers.PlanHandler{
		Repo:           repo,
		Planner:        planner,
		DefaultVehicle: defaultVehicle,
	}

	e.GET("/health", handlers.Health)
	e.GET("/deliveries", deliveryHandler.List)
	e.POST("/deliveries", deliveryHandler.Create)
	e.POST("/capacity/validate", planHandler.ValidateCapacity)
	e.POST("/plans", planHandler.Plan)

	return e
}
