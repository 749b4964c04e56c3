package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"path/filepath"
	"strings"

	"promptlab/adapters/api"
	"promptlab/adapters/db/postgres/migrations"
	"promptlab/adapters/excel"
	"promptlab/adapters/postgres"
	"promptlab/adapters/stats/engine"
	"promptlab/adapters/stats/exact"
	"promptlab/app"
	"promptlab/domain/stats"
	"promptlab/internal/config"
	"promptlab/internal/errors"
	"promptlab/internal/storage"
	"promptlab/ports"
	"promptlab/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase connects to PostgreSQL and applies pending migrations
func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	migrator := migrations.NewMigrator(db.DB)
	if err := migrator.Up(context.Background()); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

// ingestSampleFiles evaluates the workbooks named in SAMPLE_FILE so the
// run browser starts populated. Ingest problems are logged, not fatal;
// the servers come up either way.
func ingestSampleFiles(eval *app.EvaluationService, cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Sweep.Timeout)
	defer cancel()

	reader := excel.NewSampleReader(cfg.Data.SheetName)

	var sets []app.MetricSet
	for _, file := range strings.Split(cfg.Data.SampleFile, ",") {
		file = strings.TrimSpace(file)
		if file == "" {
			continue
		}
		names, groups, err := reader.ReadGroups(ctx, file)
		if err != nil {
			log.Printf("Skipping sample file %s: %v", file, err)
			continue
		}
		metric := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		sets = append(sets, app.MetricSet{Metric: metric, Names: names, Groups: groups})
	}
	if len(sets) == 0 {
		return
	}

	opts := stats.DefaultOptions()
	opts.Alpha = cfg.Stats.DefaultAlpha
	opts.ConfidenceLevel = cfg.Stats.DefaultLevel
	opts.TestType = stats.TestType(cfg.Stats.DefaultTestType)

	sweeper := app.NewSweepService(eval, cfg.Sweep.Workers)
	result, err := sweeper.Sweep(ctx, app.SweepRequest{Label: "startup", Sets: sets, Options: opts})
	if err != nil {
		log.Printf("Sample ingest failed: %v", err)
		return
	}
	log.Printf("Ingested %d sample file(s) in %dms", len(result.Runs), result.RuntimeMs)
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Pick the run store: postgres when configured, in-memory otherwise
	var repo ports.RunRepository
	if cfg.HasDatabase() {
		db, err := initDatabase(cfg)
		if err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		defer db.Close()
		repo = postgres.NewRunRepository(db)
		log.Println("Run store: postgres")
	} else {
		repo = storage.NewMemoryRunRepository()
		log.Println("Run store: in-memory (set DATABASE_URL to persist runs)")
	}

	var tails ports.DistributionPort
	if cfg.Stats.ExactTails {
		tails = exact.NewStudentTails()
		log.Println("Statistics: exact Student-t tails")
	}
	eval := app.NewEvaluationService(engine.NewEngine(tails), repo)

	if cfg.Data.SampleFile != "" {
		ingestSampleFiles(eval, cfg)
	}

	// Run browser on its own port
	browser, err := ui.NewApp(repo)
	if err != nil {
		log.Fatalf("Failed to create run browser: %v", err)
	}
	go func() {
		if err := browser.Start(":" + cfg.Server.UIPort); err != nil {
			log.Fatalf("Run browser failed: %v", err)
		}
	}()

	// pprof server for performance profiling
	if cfg.Profiling.Enabled {
		go func() {
			log.Printf("Profiling server starting on :%s", cfg.Profiling.Port)
			if err := http.ListenAndServe(":"+cfg.Profiling.Port, nil); err != nil {
				log.Printf("pprof server failed: %v", err)
			}
		}()
	}

	server := api.NewServer(eval, repo, cfg.Server.GinMode)
	log.Printf("Starting PromptLab API on port %s", cfg.Server.APIPort)
	log.Fatal(server.Start(":" + cfg.Server.APIPort))
}
