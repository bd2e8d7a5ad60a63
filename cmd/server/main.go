package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/devbada/hogumeter-sub001/internal/app"
	"github.com/devbada/hogumeter-sub001/internal/config"
	"github.com/devbada/hogumeter-sub001/internal/domain"
	"github.com/devbada/hogumeter-sub001/internal/geocode"
	"github.com/devbada/hogumeter-sub001/internal/handler"
	"github.com/devbada/hogumeter-sub001/internal/meter"
	internalRedis "github.com/devbada/hogumeter-sub001/internal/redis"
	"github.com/devbada/hogumeter-sub001/internal/repository/postgres"
	"github.com/devbada/hogumeter-sub001/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	if err := app.Migrate(ctx, db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(ctx, db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(ctx context.Context, db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	snapshotStore := internalRedis.NewSnapshotStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	geocodeCache := internalRedis.NewGeocodeCache(redisClient)

	// Initialize repositories.
	tripRepo := postgres.NewTripRepository(db)
	tariffRepo := postgres.NewTariffRepository(db)

	// Initialize the region resolver. Without a geocoding endpoint the
	// resolver yields unknown regions and trips run under the home
	// region's schedule.
	var geocoder meter.Geocoder
	if cfg.Geocode.BaseURL != "" {
		geocoder = geocode.NewCached(
			geocode.NewClient(cfg.Geocode.BaseURL, cfg.Geocode.Timeout),
			geocodeCache,
		)
	}
	resolver := meter.NewRegionResolver(geocoder)

	// Initialize services.
	notificationService := service.NewNotificationService()
	tariffService := service.NewTariffService(tariffRepo, domain.RegionCode(cfg.Meter.HomeRegion))
	if err := tariffService.EnsureSeeded(ctx); err != nil {
		log.Printf("failed to seed tariff schedules: %v", err)
	}
	tripService := service.NewTripService(tripRepo)
	meterService := service.NewMeterService(
		cfg.Meter,
		tariffRepo,
		tripRepo,
		resolver,
		snapshotStore,
		lockStore,
		notificationService,
	)

	// Initialize handlers.
	meterHandler := handler.NewMeterHandler(meterService)
	tripHandler := handler.NewTripHandler(tripService)
	tariffHandler := handler.NewTariffHandler(tariffService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		MeterHandler:  meterHandler,
		TripHandler:   tripHandler,
		TariffHandler: tariffHandler,
		RedisClient:   redisClient,
		NewRelicApp:   nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
