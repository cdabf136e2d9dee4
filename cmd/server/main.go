package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"truck-trading-service/internal/adapters/cache"
	"truck-trading-service/internal/adapters/journal"
	"truck-trading-service/internal/adapters/remote"
	"truck-trading-service/internal/adapters/repositories"
	"truck-trading-service/internal/api"
	"truck-trading-service/internal/config"
	"truck-trading-service/internal/domain"
	"truck-trading-service/internal/platform/db"
	"truck-trading-service/internal/ports"
	"truck-trading-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Redis, remote HTTP services) behind
// ports and starts the HTTP server with the websocket viewer endpoint.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/truck_templates.json")
	tuningPath := config.Get("TUNING_PATH", "tuning.yaml")
	journalDir := config.Get("JOURNAL_DIR", "data/journal")
	port := config.Get("PORT", "8080")

	worldURL := os.Getenv("WORLD_SERVICE_URL")
	depotURL := os.Getenv("DEPOT_SERVICE_URL")
	paymentURL := os.Getenv("PAYMENT_SERVICE_URL")
	if strings.TrimSpace(worldURL) == "" || strings.TrimSpace(depotURL) == "" || strings.TrimSpace(paymentURL) == "" {
		log.Fatal("WORLD_SERVICE_URL, DEPOT_SERVICE_URL and PAYMENT_SERVICE_URL are required")
	}

	tuning, err := config.LoadTuning(tuningPath)
	if err != nil {
		log.Fatal(err)
	}

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed the template catalog on startup for local runs.
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

	world, err := buildWorldService(worldURL, db)
	if err != nil {
		log.Fatal(err)
	}
	depots, err := remote.NewDepotClient(depotURL)
	if err != nil {
		log.Fatal(err)
	}
	payments, err := remote.NewPaymentClient(paymentURL)
	if err != nil {
		log.Fatal(err)
	}

	eventJournal, err := journal.NewJSONLZstdWriter(journalDir, "events")
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := eventJournal.Close(); err != nil {
			log.Printf("journal close failed: %v", err)
		}
	}()

	clock := domain.NewClock(tuning.StartTick)
	registry := services.NewSessionRegistry()
	nav := services.NewNavigationService(world, clock)
	trading := services.NewTradingService(depots, payments)
	engine := services.NewEngine(registry, nav, trading, clock, eventJournal)

	templates := repositories.NewSqliteTruckTemplateRepository(db)
	if err := seedFleet(engine, templates, tuning); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tickInterval := time.Second / time.Duration(tuning.TickRateHz)
	go engine.Run(ctx, tickInterval)

	router := api.NewRouter(engine)

	// Write timeout stays generous so long-lived websocket upgrades are not
	// cut off mid-handshake; the connections themselves run on hijacked
	// conns outside these timeouts.
	log.Printf("Server listening addr=:%s tick_rate_hz=%d", port, tuning.TickRateHz)
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
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// buildWorldService wraps the world client with a distance cache. REDIS_ADDR
// selects the shared Redis cache, DATABASE_URL a shared postgres one;
// without either, distances persist in the local SQLite database.
func buildWorldService(worldURL string, localDB *sql.DB) (ports.WorldService, error) {
	client, err := remote.NewWorldClient(worldURL)
	if err != nil {
		return nil, err
	}

	var distanceCache ports.DistanceCache
	switch {
	case strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "":
		addr := os.Getenv("REDIS_ADDR")
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       config.GetInt("REDIS_DB", 0),
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("build world service: ping redis %q: %w", addr, err)
		}
		distanceCache = cache.NewRedisDistanceCache(rdb)
		log.Printf("distance cache backend=redis addr=%s", addr)
	case strings.TrimSpace(os.Getenv("DATABASE_URL")) != "":
		pg, err := db.Open(os.Getenv("DATABASE_URL"))
		if err != nil {
			return nil, fmt.Errorf("build world service: %w", err)
		}
		distanceCache = cache.NewSQLDistanceCache(pg)
		log.Printf("distance cache backend=postgres")
	default:
		distanceCache = cache.NewSqliteDistanceCache(localDB)
		log.Printf("distance cache backend=sqlite")
	}

	return remote.NewCachedWorldService(client, distanceCache), nil
}

// seedFleet registers the starting trucks from the template catalog.
func seedFleet(engine *services.Engine, templates ports.TruckTemplateRepository, tuning config.Tuning) error {
	if tuning.FleetSize == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	template, err := templates.GetTemplate(ctx, tuning.DefaultTruckTemplate)
	if err != nil {
		return fmt.Errorf("seed fleet: %w", err)
	}

	for i := 0; i < tuning.FleetSize; i++ {
		storage, err := domain.NewUniformStorage(template.Capacity)
		if err != nil {
			return fmt.Errorf("seed fleet: %w", err)
		}
		truck := &domain.Truck{
			ID:       uuid.NewString(),
			Template: template.TemplateID,
			OwnerID:  tuning.FleetOwnerID,
			Storage:  storage,
			Speed:    template.Speed,
		}
		if err := engine.RegisterTruck(ctx, truck, tuning.StartCityID); err != nil {
			return fmt.Errorf("seed fleet: register truck %d: %w", i+1, err)
		}
	}

	log.Printf("fleet seeded size=%d template=%s city=%s", tuning.FleetSize, template.TemplateID, tuning.StartCityID)
	return nil
}
