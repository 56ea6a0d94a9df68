package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"visit-route-service/internal/adapters/cache"
	"visit-route-service/internal/adapters/geo"
	"visit-route-service/internal/adapters/repositories"
	"visit-route-service/internal/api"
	"visit-route-service/internal/config"
	"visit-route-service/internal/platform/db"
	"visit-route-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Redis, Postgres, ORS) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/stops.json")
	port := config.Get("PORT", "8080")

	localDB, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer localDB.Close()

	// Initialize schema and seed demo stops on startup for local runs.
	if err := initAndSeed(localDB, seedPath); err != nil {
		log.Fatal(err)
	}

	geocodeCache, estimateCache, closeCaches, err := buildCaches(localDB)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCaches()

	geocoder, estimator, err := buildGeo(geocodeCache, estimateCache)
	if err != nil {
		log.Fatal(err)
	}

	// Route storage is optional; without it the reorder endpoint is disabled.
	var routeRepo ports.RouteRepository
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()

		if err := repositories.InitRouteSchema(pg); err != nil {
			log.Fatal(err)
		}
		routeRepo = repositories.NewPgRouteRepository(pg)
	} else {
		log.Println("DATABASE_URL not set; route storage and day reordering disabled")
	}

	stopRepo := repositories.NewSqliteStopRepository(localDB)
	router := api.NewRouter(stopRepo, routeRepo, geocoder, estimator)

	// Timeouts are tuned for cold-cache planning (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(dbPath string) (*sql.DB, error) {
	sqlite, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := sqlite.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return sqlite, nil
}

func initAndSeed(sqlite *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(sqlite); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); os.IsNotExist(err) {
		log.Printf("seed file %q not found; starting with existing stops", seedPath)
		return nil
	}

	if err := repositories.SeedFromJSON(sqlite, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// buildCaches prefers a shared Redis cache when configured, falling back to
// the local SQLite tables.
func buildCaches(sqlite *sql.DB) (ports.GeocodeCache, ports.EstimateCache, func(), error) {
	addr := os.Getenv("REDIS_ADDR")
	if strings.TrimSpace(addr) == "" {
		return cache.NewSqliteGeocodeCache(sqlite), cache.NewSqliteEstimateCache(sqlite), func() {}, nil
	}

	store, err := cache.NewRedisStore(
		addr,
		os.Getenv("REDIS_PASSWORD"),
		config.GetInt("REDIS_DB", 0),
		config.GetDuration("CACHE_TTL", 7*24*time.Hour),
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build caches: %w", err)
	}

	closeStore := func() {
		if err := store.Close(); err != nil {
			log.Printf("close redis: %v", err)
		}
	}
	return cache.NewRedisGeocodeCache(store), cache.NewRedisEstimateCache(store), closeStore, nil
}

// buildGeo wires the geocoder and estimator. An ORS key is always required
// for geocoding; setting ESTIMATOR=haversine swaps the matrix estimator for
// the offline haversine model while geocoding stays on the API.
func buildGeo(geocodeCache ports.GeocodeCache, estimateCache ports.EstimateCache) (ports.Geocoder, ports.Estimator, error) {
	orsKey := os.Getenv("ORS_API_KEY")
	if strings.TrimSpace(orsKey) == "" {
		return nil, nil, fmt.Errorf("ORS_API_KEY is required")
	}

	geocoder, err := geo.NewORSGeocoder(orsKey, geocodeCache)
	if err != nil {
		return nil, nil, fmt.Errorf("build geo: %w", err)
	}

	if config.Get("ESTIMATOR", "ors") == "haversine" {
		return geocoder, geo.NewHaversineEstimator(), nil
	}

	estimator, err := geo.NewORSEstimator(orsKey, estimateCache)
	if err != nil {
		return nil, nil, fmt.Errorf("build geo: %w", err)
	}

	return geocoder, estimator, nil
}
