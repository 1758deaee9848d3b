package config

import (
	"fmt"

	"dispatch-route-service/internal/domain"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration, populated from environment
// variables (optionally loaded from .env by the entrypoint) with sensible
// local-run defaults.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`

	// Storage. Driver selects the delivery store: "sqlite" or "postgres".
	DBDriver    string `mapstructure:"DB_DRIVER"`
	DBPath      string `mapstructure:"DB_PATH"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	SeedPath    string `mapstructure:"SEED_PATH"`

	// External providers.
	ORSAPIKey        string `mapstructure:"ORS_API_KEY"`
	ORSBaseURL       string `mapstructure:"ORS_BASE_URL"`
	NominatimBaseURL string `mapstructure:"NOMINATIM_BASE_URL"`
	// Pacing between consecutive provider calls, in milliseconds.
	ProviderPaceMs int `mapstructure:"PROVIDER_PACE_MS"`

	// Caching. Empty REDIS_ADDR selects the SQLite caches.
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	CacheTTLMinutes int    `mapstructure:"CACHE_TTL_MINUTES"`

	// Depot: the fixed start/end of every route.
	DepotStreet     string `mapstructure:"DEPOT_STREET"`
	DepotPostalCode string `mapstructure:"DEPOT_POSTAL_CODE"`
	DepotCity       string `mapstructure:"DEPOT_CITY"`

	// Default vehicle parameter set, used when a request supplies none.
	VehicleCapacityTonnes float64 `mapstructure:"VEHICLE_CAPACITY_TONNES"`
	VehicleFuelL100Km     float64 `mapstructure:"VEHICLE_FUEL_L_100KM"`
	VehicleAvgSpeedKmh    float64 `mapstructure:"VEHICLE_AVG_SPEED_KMH"`
	VehicleFuelPrice      float64 `mapstructure:"VEHICLE_FUEL_PRICE"`
	VehicleLoadingMin     float64 `mapstructure:"VEHICLE_LOADING_MIN"`
	VehicleUnloadingMin   float64 `mapstructure:"VEHICLE_UNLOADING_MIN"`
	VehicleWearPerKm      float64 `mapstructure:"VEHICLE_WEAR_PER_KM"`
	VehicleBreakMin       float64 `mapstructure:"VEHICLE_BREAK_MIN"`
}

func Load() (*Config, error) {
	// Registering defaults also registers the keys, so AutomaticEnv picks up
	// overrides during Unmarshal.
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_PATH", "data/app.db")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("SEED_PATH", "data/seeds/deliveries.json")
	viper.SetDefault("ORS_API_KEY", "")
	viper.SetDefault("ORS_BASE_URL", "")
	viper.SetDefault("NOMINATIM_BASE_URL", "")
	viper.SetDefault("PROVIDER_PACE_MS", 200)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("CACHE_TTL_MINUTES", 24*60)
	viper.SetDefault("DEPOT_STREET", "")
	viper.SetDefault("DEPOT_POSTAL_CODE", "")
	viper.SetDefault("DEPOT_CITY", "")
	viper.SetDefault("VEHICLE_CAPACITY_TONNES", 7.5)
	viper.SetDefault("VEHICLE_FUEL_L_100KM", 24.0)
	viper.SetDefault("VEHICLE_AVG_SPEED_KMH", 62.0)
	viper.SetDefault("VEHICLE_FUEL_PRICE", 1.65)
	viper.SetDefault("VEHICLE_LOADING_MIN", 45.0)
	viper.SetDefault("VEHICLE_UNLOADING_MIN", 20.0)
	viper.SetDefault("VEHICLE_WEAR_PER_KM", 0.35)
	viper.SetDefault("VEHICLE_BREAK_MIN", 45.0)

	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &cfg, nil
}

// DefaultVehicle assembles the configured default vehicle parameter set.
func (c *Config) DefaultVehicle() domain.Vehicle {
	return domain.Vehicle{
		CapacityTonnes:    c.VehicleCapacityTonnes,
		FuelL100Km:        c.VehicleFuelL100Km,
		AvgSpeedKmh:       c.VehicleAvgSpeedKmh,
		FuelPricePerLiter: c.VehicleFuelPrice,
		LoadingMin:        c.VehicleLoadingMin,
		UnloadingMin:      c.VehicleUnloadingMin,
		WearPerKm:         c.VehicleWearPerKm,
		BreakMin:          c.VehicleBreakMin,
	}
}
