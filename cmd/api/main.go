package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"goab/adapters/api"
	"goab/adapters/postgres"
	"goab/adapters/stats/engine"
	"goab/app"
	"goab/internal"
	"goab/internal/config"
	"goab/ports"
)

func main() {
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Debug("no .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runRepo ports.RunRepository
	if cfg.HasArchive() {
		db, err := postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := postgres.NewMigrator(db).Up(ctx); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		runRepo = postgres.NewRunRepository(db)
	} else {
		internal.DefaultLogger.Warn("DATABASE_URL not set, runs will not be archived")
	}

	service := app.NewAnalysisService(engine.New())
	apiApp := api.NewApp(service, runRepo, cfg.Analysis)

	if err := apiApp.Serve(ctx, cfg.Server); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}
