package main

import (
	"context"
	"database/sql"
	"delivery-day-simulator/internal/adapters/repositories"
	"delivery-day-simulator/internal/config"
	"delivery-day-simulator/internal/platform/db"
	"delivery-day-simulator/internal/platform/obs"
	"flag"

	"github.com/rs/zerolog/log"
)

func main() {
	config.Load()
	obs.SetupLogger(config.Get("LOG_LEVEL", "info"), true)

	seedPath := flag.String("seed", config.Get("SEED_PATH", "data/seeds/packages.json"), "seed JSON file")
	runs := flag.Int("runs", 0, "list the N most recent recorded runs instead of seeding")
	flag.Parse()

	databaseURL := config.Get("DATABASE_URL", "")
	dialect := repositories.DialectFor(databaseURL)

	conn, err := db.Connect(databaseURL, config.Get("DB_PATH", "data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	ctx := context.Background()

	if *runs > 0 {
		listRuns(ctx, conn, dialect, *runs)
		return
	}

	initAndSeed(ctx, conn, dialect, *seedPath)
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect repositories.Dialect, seedPath string) {
	log.Info().Str("db", dialect.String()).Msg("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatal().Err(err).Msg("schema initialization failed")
	}
	log.Info().Msg("schema ready")

	log.Info().Str("seed", seedPath).Msg("seeding database")
	if err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Msg("seeding complete")
}

func listRuns(ctx context.Context, conn *sql.DB, dialect repositories.Dialect, n int) {
	runs, err := repositories.NewSQLRunRecorder(conn, dialect).ListRuns(ctx, n)
	if err != nil {
		log.Fatal().Err(err).Msg("list runs failed")
	}
	for _, r := range runs {
		log.Info().
			Str("run_id", r.RunID).
			Str("started", r.StartedAt).
			Str("finished", r.FinishedAt).
			Float64("miles", r.TotalMiles).
			Int("missed", r.MissedDeadlines).
			Msg("run")
	}
}
