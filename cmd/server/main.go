package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"dispatch-route-service/internal/adapters/cache"
	"dispatch-route-service/internal/adapters/geocode"
	"dispatch-route-service/internal/adapters/ors"
	"dispatch-route-service/internal/adapters/repositories"
	"dispatch-route-service/internal/adapters/routing"
	"dispatch-route-service/internal/api"
	"dispatch-route-service/internal/config"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/platform/db"
	"dispatch-route-service/internal/ports"
	"dispatch-route-service/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite/Postgres, Redis, ORS, Nominatim)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.ORSAPIKey == "" {
		log.Fatal("ORS_API_KEY is required")
	}
	if cfg.DepotPostalCode == "" || cfg.DepotCity == "" {
		log.Fatal("DEPOT_POSTAL_CODE and DEPOT_CITY are required")
	}

	store, repo, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	geocodeCache, distanceCache := openCaches(cfg, store)

	orsClient, err := ors.NewClient(
		cfg.ORSAPIKey,
		cfg.ORSBaseURL,
		time.Duration(cfg.ProviderPaceMs)*time.Millisecond,
	)
	if err != nil {
		log.Fatal(err)
	}

	resolver := geocode.NewChainResolver(
		geocodeCache,
		orsClient,
		geocode.NewNominatim(cfg.NominatimBaseURL),
	)

	estimator := &routing.FallbackEstimator{
		Routes: orsClient,
		Cache:  distanceCache,
	}

	depot, err := resolveDepot(cfg, resolver)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("depot resolved: coord=%s", depot.Coord.Key())

	planner := &services.Planner{
		Geocoder:  resolver,
		Sequencer: services.NearestNeighborSequencer{},
		Builder:   &services.ScheduleBuilder{Estimator: estimator},
		Repo:      repo,
		Depot:     depot,
	}

	router := api.NewRouter(repo, planner, cfg.DefaultVehicle())

	// Timeouts are tuned for cold-cache route planning (external API latency).
	log.Printf("Server listening addr=:%s", cfg.ServerPort)
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(router.StartServer(srv))
}

func openStore(cfg *config.Config) (*sql.DB, ports.DeliveryRepository, error) {
	if cfg.DBDriver == "postgres" {
		store, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, repositories.NewSQLDeliveryRepository(store), nil
	}

	store, err := db.OpenSqlite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	// Initialize schema and seed demo data on startup for local runs.
	if err := repositories.InitSchema(store); err != nil {
		store.Close()
		return nil, nil, err
	}
	if cfg.SeedPath != "" {
		if err := repositories.SeedFromJSON(store, cfg.SeedPath); err != nil {
			log.Printf("seeding skipped: %v", err)
		}
	}

	return store, repositories.NewSqliteDeliveryRepository(store), nil
}

func openCaches(cfg *config.Config, store *sql.DB) (ports.GeocodeCache, ports.DistanceCache) {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return cache.NewRedisGeocodeCache(client, ttl), cache.NewRedisDistanceCache(client, ttl)
	}

	if cfg.DBDriver == "postgres" {
		// No local cache tables on the postgres path; run without caches
		// rather than fail.
		return nil, nil
	}
	return cache.NewSqliteGeocodeCache(store), cache.NewSqliteDistanceCache(store)
}

// resolveDepot geocodes the configured depot address once, at startup.
// A depot that cannot be placed makes every planning call meaningless, so
// this failure is fatal.
func resolveDepot(cfg *config.Config, resolver ports.Geocoder) (domain.Depot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	q := ports.GeocodeQuery{
		Street:     cfg.DepotStreet,
		PostalCode: cfg.DepotPostalCode,
		City:       cfg.DepotCity,
	}
	coord, err := resolver.Resolve(ctx, q)
	if err != nil {
		return domain.Depot{}, err
	}

	return domain.Depot{
		Street:     cfg.DepotStreet,
		PostalCode: cfg.DepotPostalCode,
		City:       cfg.DepotCity,
		Coord:      coord,
	}, nil
}
