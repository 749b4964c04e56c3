package main

import (
	"log"

	"promptlab/adapters/postgres"
	"promptlab/internal/config"
	"promptlab/internal/storage"
	"promptlab/ports"
	"promptlab/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

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
		repo = postgres.NewRunRepository(db)
	} else {
		repo = storage.NewMemoryRunRepository()
		log.Println("No DATABASE_URL set; browsing an empty in-memory store")
	}

	app, err := ui.NewApp(repo)
	if err != nil {
		log.Fatal("Failed to create run browser:", err)
	}

	log.Printf("Starting run browser on http://localhost:%s", cfg.Server.UIPort)
	log.Fatal(app.Start(":" + cfg.Server.UIPort))
}
