package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"dispatch-route-service/internal/adapters/cache"
	"dispatch-route-service/internal/adapters/geocode"
	"dispatch-route-service/internal/adapters/ors"
	"dispatch-route-service/internal/adapters/repositories"
	"dispatch-route-service/internal/adapters/routing"
	"dispatch-route-service/internal/config"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/platform/db"
	"dispatch-route-service/internal/ports"
	"dispatch-route-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

// dispatchctl is the operator CLI: seed the local store, resolve pending
// addresses ahead of time, and run a planning round from the terminal.
func main() {
	rootCmd := &cobra.Command{
		Use:   "dispatchctl",
		Short: "Operator CLI for the dispatch route service",
		Long: `dispatchctl works against the same SQLite store and providers as the
server. Use it to seed deliveries, warm the geocode cache, or produce a
route plan without going through the HTTP API.`,
	}

	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(geocodeCmd())
	rootCmd.AddCommand(planCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded .env")
	}
	return config.Load()
}

func openSqlite(cfg *config.Config) (*sql.DB, error) {
	store, err := db.OpenSqlite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := repositories.InitSchema(store); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// buildResolver assembles the same geocode chain the server uses.
func buildResolver(cfg *config.Config, store *sql.DB) (ports.Geocoder, ports.RouteService, error) {
	if cfg.ORSAPIKey == "" {
		return nil, nil, fmt.Errorf("ORS_API_KEY is required")
	}

	orsClient, err := ors.NewClient(
		cfg.ORSAPIKey,
		cfg.ORSBaseURL,
		time.Duration(cfg.ProviderPaceMs)*time.Millisecond,
	)
	if err != nil {
		return nil, nil, err
	}

	resolver := geocode.NewChainResolver(
		cache.NewSqliteGeocodeCache(store),
		orsClient,
		geocode.NewNominatim(cfg.NominatimBaseURL),
	)
	return resolver, orsClient, nil
}

// seedCmd loads deliveries from a JSON seed file into the local store.
func seedCmd() *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed deliveries from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if seedPath == "" {
				seedPath = cfg.SeedPath
			}

			store, err := openSqlite(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := repositories.SeedFromJSON(store, seedPath); err != nil {
				return fmt.Errorf("seed: %w", err)
			}

			fmt.Printf("Seeded deliveries from %s into %s\n", seedPath, cfg.DBPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&seedPath, "file", "f", "", "Seed file (default: SEED_PATH)")
	return cmd
}

// geocodeCmd resolves coordinates for every pending delivery that has none,
// warming the cache so later planning calls stay off the providers.
func geocodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "geocode",
		Short: "Resolve coordinates for pending deliveries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openSqlite(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			resolver, _, err := buildResolver(cfg, store)
			if err != nil {
				return err
			}

			repo := repositories.NewSqliteDeliveryRepository(store)
			ctx := cmd.Context()

			deliveries, err := repo.ListPending(ctx)
			if err != nil {
				return fmt.Errorf("list pending: %w", err)
			}

			resolved, failed := 0, 0
			for _, d := range deliveries {
				if d.Resolved() {
					continue
				}

				coord, err := resolver.Resolve(ctx, ports.GeocodeQuery{
					Street:     d.Street,
					PostalCode: d.PostalCode,
					City:       d.City,
				})
				if err != nil {
					fmt.Printf("  %d %s: %v\n", d.DeliveryID, d.Address(), err)
					failed++
					continue
				}

				if err := repo.SaveCoordinates(ctx, d.DeliveryID, coord); err != nil {
					return fmt.Errorf("save coordinates for %d: %w", d.DeliveryID, err)
				}
				fmt.Printf("  %d %s -> %s\n", d.DeliveryID, d.Address(), coord.Key())
				resolved++
			}

			fmt.Printf("Resolved %d deliveries", resolved)
			if failed > 0 {
				fmt.Printf(", %d failed", failed)
			}
			fmt.Println()
			return nil
		},
	}
}

// planCmd runs one full planning round and prints the schedule.
func planCmd() *cobra.Command {
	var (
		ids      []int
		departAt string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a route for pending deliveries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.DepotPostalCode == "" || cfg.DepotCity == "" {
				return fmt.Errorf("DEPOT_POSTAL_CODE and DEPOT_CITY are required")
			}

			store, err := openSqlite(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			resolver, routes, err := buildResolver(cfg, store)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			depotCoord, err := resolver.Resolve(ctx, ports.GeocodeQuery{
				Street:     cfg.DepotStreet,
				PostalCode: cfg.DepotPostalCode,
				City:       cfg.DepotCity,
			})
			if err != nil {
				return fmt.Errorf("resolve depot: %w", err)
			}

			repo := repositories.NewSqliteDeliveryRepository(store)
			planner := &services.Planner{
				Geocoder:  resolver,
				Sequencer: services.NearestNeighborSequencer{},
				Builder: &services.ScheduleBuilder{
					Estimator: &routing.FallbackEstimator{
						Routes: routes,
						Cache:  cache.NewSqliteDistanceCache(store),
					},
				},
				Repo: repo,
				Depot: domain.Depot{
					Street:     cfg.DepotStreet,
					PostalCode: cfg.DepotPostalCode,
					City:       cfg.DepotCity,
					Coord:      depotCoord,
				},
			}

			var deliveries []*domain.Delivery
			if len(ids) > 0 {
				deliveries, err = repo.GetByIDs(ctx, ids)
			} else {
				deliveries, err = repo.ListPending(ctx)
			}
			if err != nil {
				return fmt.Errorf("load deliveries: %w", err)
			}
			if len(deliveries) == 0 {
				fmt.Println("No pending deliveries. Use 'dispatchctl seed' first.")
				return nil
			}

			depart := time.Now()
			if departAt != "" {
				depart, err = time.Parse(time.RFC3339, departAt)
				if err != nil {
					return fmt.Errorf("invalid --depart (use RFC3339): %w", err)
				}
			}

			plan, err := planner.PlanRoute(ctx, deliveries, cfg.DefaultVehicle(), depart)
			if err != nil {
				return fmt.Errorf("plan route: %w", err)
			}

			printPlan(plan)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&ids, "ids", nil, "Delivery IDs to plan (default: all pending)")
	cmd.Flags().StringVar(&departAt, "depart", "", "Departure time (RFC3339, default: now)")
	return cmd
}

func printPlan(plan *domain.RoutePlan) {
	fmt.Printf("Plan %s (depart %s)\n", plan.PlanID, plan.DepartAt.Format("2006-01-02 15:04"))
	fmt.Println("=========================================================")

	fmt.Printf("%-4s %-8s %-8s %10s %8s\n", "#", "Arrive", "Depart", "Leg km", "ID")
	for i, s := range plan.Stops {
		marker := ""
		if s.LegMethod != domain.EstimateRouted {
			marker = " *"
		}
		fmt.Printf("%-4d %-8s %-8s %10.1f %8d%s\n",
			i+1,
			s.ArriveAt.Format("15:04"),
			s.DepartAt.Format("15:04"),
			s.LegDistanceKm,
			s.DeliveryID,
			marker,
		)
	}

	fmt.Println()
	fmt.Printf("  Distance:   %.1f km\n", plan.TotalDistanceKm)
	fmt.Printf("  Driving:    %.0f min\n", plan.DrivingMin)
	fmt.Printf("  Breaks:     %d (%.0f min)\n", plan.BreakCount, plan.BreakMin)
	fmt.Printf("  Elapsed:    %.0f min\n", plan.TotalElapsedMin)
	fmt.Printf("  Fuel cost:  %.2f\n", plan.FuelCost)
	fmt.Printf("  Wear cost:  %.2f\n", plan.WearCost)
	fmt.Printf("  Total cost: %.2f\n", plan.TotalCost)

	if len(plan.UnplacedDeliveryIDs) > 0 {
		fmt.Printf("  Unplaced:   %v\n", plan.UnplacedDeliveryIDs)
	}
	for _, w := range plan.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	if plan.Degraded() {
		fmt.Println("  * leg distance estimated, not routed")
	}
}
