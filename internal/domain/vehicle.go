package domain

// Vehicle holds the capacity and operating-cost parameters of one truck.
// The parameter set is configuration: read-only to the planning engine.
type Vehicle struct {
	CapacityTonnes float64

	// Operating parameters.
	FuelL100Km        float64 // average consumption, liters per 100 km
	AvgSpeedKmh       float64
	FuelPricePerLiter float64
	LoadingMin        float64 // once, at the depot
	UnloadingMin      float64 // per stop
	WearPerKm         float64 // per-kilometer wear allowance
	BreakMin          float64 // duration of one statutory rest break
}
