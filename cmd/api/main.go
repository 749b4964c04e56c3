package main

import (
	"context"
	"log"

	"promptlab/adapters/api"
	"promptlab/adapters/db/postgres/migrations"
	"promptlab/adapters/postgres"
	"promptlab/adapters/stats/engine"
	"promptlab/adapters/stats/exact"
	"promptlab/app"
	"promptlab/internal/config"
	"promptlab/internal/storage"
	"promptlab/ports"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// JSON API only, no run browser. Storage falls back to memory when
// DATABASE_URL is unset.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var repo ports.RunRepository
	if cfg.HasDatabase() {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := migrations.NewMigrator(db.DB).Up(context.Background()); err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}
		repo = postgres.NewRunRepository(db)
	} else {
		repo = storage.NewMemoryRunRepository()
		log.Println("Run store: in-memory (set DATABASE_URL to persist runs)")
	}

	var tails ports.DistributionPort
	if cfg.Stats.ExactTails {
		tails = exact.NewStudentTails()
	}
	eval := app.NewEvaluationService(engine.NewEngine(tails), repo)

	server := api.NewServer(eval, repo, cfg.Server.GinMode)
	log.Fatal(server.Start(":" + cfg.Server.APIPort))
}
