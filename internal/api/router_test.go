package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dispatch-route-service/internal/adapters/routing"
	"dispatch-route-service/internal/api/dto"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
	"dispatch-route-service/internal/services"

	"github.com/labstack/echo/v4"
)

type memRepo struct {
	deliveries map[int]*domain.Delivery
	nextID     int
	assigned   []int
}

func newMemRepo() *memRepo {
	return &memRepo{deliveries: make(map[int]*domain.Delivery), nextID: 1}
}

func (r *memRepo) ListPending(ctx context.Context) ([]*domain.Delivery, error) {
	out := make([]*domain.Delivery, 0, len(r.deliveries))
	for id := 1; id < r.nextID; id++ {
		if d, ok := r.deliveries[id]; ok && d.Status == domain.StatusPending {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memRepo) GetByIDs(ctx context.Context, ids []int) ([]*domain.Delivery, error) {
	out := make([]*domain.Delivery, 0, len(ids))
	for _, id := range ids {
		d, ok := r.deliveries[id]
		if !ok {
			return nil, fmt.Errorf("delivery_id=%d: %w", id, domain.ErrNotFound)
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *memRepo) Create(ctx context.Context, d *domain.Delivery) error {
	d.DeliveryID = r.nextID
	d.Status = domain.StatusPending
	r.deliveries[d.DeliveryID] = d
	r.nextID++
	return nil
}

func (r *memRepo) SaveCoordinates(ctx context.Context, deliveryID int, c domain.Coordinates) error {
	d, ok := r.deliveries[deliveryID]
	if !ok {
		return domain.ErrNotFound
	}
	coord := c
	d.Coord = &coord
	return nil
}

func (r *memRepo) MarkAssigned(ctx context.Context, ids []int) error {
	for _, id := range ids {
		if d, ok := r.deliveries[id]; ok {
			d.Status = domain.StatusAssigned
		}
	}
	r.assigned = append(r.assigned, ids...)
	return nil
}

type noopGeocoder struct{}

func (noopGeocoder) Resolve(ctx context.Context, q ports.GeocodeQuery) (domain.Coordinates, error) {
	return domain.Coordinates{}, domain.ErrNoCoordinate
}

var (
	apiDepot     = domain.Coordinates{Lon: 9.60, Lat: 49.85}
	apiWuerzburg = domain.Coordinates{Lon: 9.93, Lat: 49.79}
	apiHeilbronn = domain.Coordinates{Lon: 9.22, Lat: 49.14}
)

func newTestRouter(t *testing.T) (*echo.Echo, *memRepo) {
	t.Helper()

	repo := newMemRepo()
	for _, d := range []*domain.Delivery{
		{Street: "Juliuspromenade 19", PostalCode: "97070", City: "Würzburg", WeightKg: 2000, Coord: &apiWuerzburg},
		{Street: "Kaiserstraße 17", PostalCode: "74072", City: "Heilbronn", WeightKg: 3000, Coord: &apiHeilbronn},
	} {
		if err := repo.Create(context.Background(), d); err != nil {
			t.Fatalf("seed repo: %v", err)
		}
	}

	est := routing.NewMockEstimator([]routing.MockLeg{
		{From: apiDepot, To: apiWuerzburg, DistanceKm: 30, DurationMin: 30},
		{From: apiWuerzburg, To: apiHeilbronn, DistanceKm: 95, DurationMin: 80},
		{From: apiHeilbronn, To: apiDepot, DistanceKm: 90, DurationMin: 75},
	})

	planner := &services.Planner{
		Geocoder:  noopGeocoder{},
		Sequencer: services.NearestNeighborSequencer{},
		Builder:   &services.ScheduleBuilder{Estimator: est},
		Repo:      repo,
		Depot: domain.Depot{
			PostalCode: "97980",
			City:       "Bad Mergentheim",
			Coord:      apiDepot,
		},
	}

	defaultVehicle := domain.Vehicle{
		CapacityTonnes:    7.5,
		FuelL100Km:        24.0,
		AvgSpeedKmh:       62.0,
		FuelPricePerLiter: 1.65,
		LoadingMin:        45.0,
		UnloadingMin:      20.0,
		WearPerKm:         0.35,
		BreakMin:          45.0,
	}

	return NewRouter(repo, planner, defaultVehicle), repo
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := doJSON(t, e, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestCreateAndListDeliveries(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := doJSON(t, e, http.MethodPost, "/deliveries",
		`{"street": "Königstraße 26", "postal_code": "70173", "city": "Stuttgart", "weight_kg": 1500}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rec.Code, rec.Body)
	}

	var created dto.DeliveryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.DeliveryID == 0 || created.Status != "pending" {
		t.Fatalf("created = %+v", created)
	}

	rec = doJSON(t, e, http.MethodGet, "/deliveries", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var list dto.ListDeliveriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list.Deliveries) != 3 {
		t.Fatalf("deliveries = %d, want 3", len(list.Deliveries))
	}
}

func TestCreateDeliveryValidation(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := doJSON(t, e, http.MethodPost, "/deliveries",
		`{"street": "Königstraße 26", "postal_code": "70173", "city": "Stuttgart"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for a missing weight", rec.Code)
	}
}

func TestValidateCapacityEndpoint(t *testing.T) {
	e, _ := newTestRouter(t)

	body := `{
		"delivery_ids": [1, 2],
		"vehicle": {"capacity_tonnes": 4.0, "fuel_l_100km": 24, "avg_speed_kmh": 62, "fuel_price_per_liter": 1.65}
	}`
	rec := doJSON(t, e, http.MethodPost, "/capacity/validate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body)
	}

	var res dto.CapacityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.OK {
		t.Fatal("5.0 t against a 4.0 t vehicle must fail")
	}
	if res.TotalTonnes != 5.0 || res.CapacityTonnes != 4.0 {
		t.Fatalf("response = %+v", res)
	}
}

func TestPlanEndpoint(t *testing.T) {
	e, repo := newTestRouter(t)

	rec := doJSON(t, e, http.MethodPost, "/plans", `{"delivery_ids": [1, 2]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body)
	}

	var res dto.PlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.PlanID == "" || len(res.Stops) != 2 {
		t.Fatalf("plan = %+v", res)
	}
	if res.Stops[0].DeliveryID != 1 || res.Stops[1].DeliveryID != 2 {
		t.Fatalf("stop order = %d, %d; want 1, 2", res.Stops[0].DeliveryID, res.Stops[1].DeliveryID)
	}
	if res.TotalDistanceKm != 215 {
		t.Fatalf("total distance = %f, want 215", res.TotalDistanceKm)
	}

	// Scheduled deliveries are consumed.
	if len(repo.assigned) != 2 {
		t.Fatalf("assigned = %v, want both deliveries", repo.assigned)
	}
}

func TestPlanEndpointCapacityExceeded(t *testing.T) {
	e, repo := newTestRouter(t)

	body := `{
		"delivery_ids": [1, 2],
		"vehicle": {"capacity_tonnes": 4.0, "fuel_l_100km": 24, "avg_speed_kmh": 62, "fuel_price_per_liter": 1.65}
	}`
	rec := doJSON(t, e, http.MethodPost, "/plans", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 (%s)", rec.Code, rec.Body)
	}

	var res map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res["total_tonnes"] != 5.0 || res["capacity_tonnes"] != 4.0 {
		t.Fatalf("response = %+v", res)
	}

	if len(repo.assigned) != 0 {
		t.Fatalf("nothing may be assigned on a rejected plan, got %v", repo.assigned)
	}
}

func TestPlanEndpointUnknownDelivery(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := doJSON(t, e, http.MethodPost, "/plans", `{"delivery_ids": [99]}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (%s)", rec.Code, rec.Body)
	}
}
