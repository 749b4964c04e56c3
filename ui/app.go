package ui

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"promptlab/domain/core"
	"promptlab/internal/report"
	"promptlab/ports"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// App is the read-only run browser: a list of stored evaluation runs
// and a detail page with the rendered report.
type App struct {
	router    *chi.Mux
	repo      ports.RunRepository
	templates *template.Template
}

// NewApp creates a new UI application over the run repository
func NewApp(repo ports.RunRepository) (*App, error) {
	funcMap := template.FuncMap{
		"shortID": func(id core.RunID) string {
			s := id.String()
			if len(s) > 8 {
				return s[:8]
			}
			return s
		},
		"fmtTime": func(t core.Timestamp) string {
			return t.Time().Format("2006-01-02 15:04:05")
		},
		"add": func(a, b int) int { return a + b },
	}

	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		repo:      repo,
		templates: templates,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	// Serve static files
	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", staticFS)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/runs/{id}", a.handleRunDetail)
}

// Router exposes the handler for mounting and tests
func (a *App) Router() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start(addr string) error {
	log.Printf("Starting run browser on http://%s", addr)
	return http.ListenAndServe(addr, a.router)
}

// runRow is the list-page view of one run
type runRow struct {
	ID          core.RunID
	Label       string
	Groups      int
	Significant int
	Comparisons int
	CreatedAt   core.Timestamp
}

// handleIndex renders the run list, newest first
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	runs, err := a.repo.List(r.Context(), 100)
	if err != nil {
		log.Printf("[UI] list runs: %v", err)
		http.Error(w, "failed to load runs", http.StatusInternalServerError)
		return
	}

	rows := make([]runRow, len(runs))
	for i, rec := range runs {
		rows[i] = runRow{
			ID:          rec.ID,
			Label:       rec.Label,
			Groups:      len(rec.Reports),
			Significant: len(rec.SignificantComparisons()),
			Comparisons: len(rec.Comparisons),
			CreatedAt:   rec.CreatedAt,
		}
	}

	a.renderTemplate(w, "index.html", map[string]interface{}{
		"Runs":  rows,
		"Count": len(rows),
	})
}

// handleRunDetail renders one run's full report
func (a *App) handleRunDetail(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := a.repo.Get(r.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		log.Printf("[UI] load run %s: %v", id, err)
		http.Error(w, "failed to load run", http.StatusInternalServerError)
		return
	}

	md := report.RenderRun(*rec)

	a.renderTemplate(w, "run.html", map[string]interface{}{
		"Run":    rec,
		"Report": template.HTML(report.ToHTML(md)),
	})
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}
