package main

import (
	"context"
	"database/sql"
	"delivery-day-simulator/internal/adapters/cache"
	"delivery-day-simulator/internal/adapters/repositories"
	"delivery-day-simulator/internal/api"
	"delivery-day-simulator/internal/api/handlers"
	"delivery-day-simulator/internal/config"
	"delivery-day-simulator/internal/platform/db"
	"delivery-day-simulator/internal/platform/obs"
	"delivery-day-simulator/internal/ports"
	"delivery-day-simulator/internal/services"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis) behind ports, simulates the
// configured day once and starts the HTTP server.
func main() {
	config.Load()
	obs.SetupLogger(config.Get("LOG_LEVEL", "info"), config.GetBool("LOG_DEV", false))

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	databaseURL := config.Get("DATABASE_URL", "")
	dialect := repositories.DialectFor(databaseURL)
	port := config.Get("PORT", "8080")

	fleetFile, err := config.LoadFleet(config.Get("FLEET_CONFIG", "configs/fleet.yaml"))
	if err != nil {
		return err
	}

	conn, err := db.Connect(databaseURL, config.Get("DB_PATH", "data/app.db"))
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if config.GetBool("SEED_ON_START", true) {
		if err := initAndSeed(ctx, conn, dialect, config.Get("SEED_PATH", "data/seeds/packages.json")); err != nil {
			return err
		}
	}

	metrics := obs.NewMetrics()
	recorder := repositories.NewSQLRunRecorder(conn, dialect)

	var reportCache ports.ReportCache
	if addr := config.Get("REDIS_ADDR", ""); addr != "" {
		client, err := cache.DialRedis(ctx, addr, config.Get("REDIS_PASSWORD", ""))
		if err != nil {
			return err
		}
		defer client.Close()
		reportCache = cache.NewRedisReportCache(client, config.GetDuration("REPORT_CACHE_TTL", cache.DefaultReportTTL))
		log.Info().Str("addr", addr).Msg("report cache enabled")
	}

	runner := func(ctx context.Context, opts handlers.RunOptions) (*services.DayResult, error) {
		fleet, err := fleetFile.FleetConfig(time.Now())
		if err != nil {
			return nil, err
		}
		if opts.ReturnToHub != nil {
			fleet.ReturnToHub = *opts.ReturnToHub
		}

		req := services.RunDayRequest{RunID: opts.RunID, Fleet: fleet, Metrics: metrics}
		packages := repositories.NewSQLPackageRepository(conn, fleet.Day)
		distances := repositories.NewSQLDistanceRepository(conn)
		return services.LoadAndRunDay(ctx, req, packages, distances)
	}

	day := handlers.NewDayState(runner, recorder)
	if _, err := day.Refresh(ctx, handlers.RunOptions{}); err != nil {
		return fmt.Errorf("initial day: %w", err)
	}

	router := api.NewRouter(api.Deps{
		Day:       day,
		Cache:     reportCache,
		Metrics:   metrics,
		RateLimit: rate.Limit(config.GetInt("RATE_LIMIT_RPS", 20)),
		Burst:     config.GetInt("RATE_LIMIT_BURST", 40),
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("db", dialect.String()).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect repositories.Dialect, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
