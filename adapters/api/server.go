package api

import (
	"log"
	"net/http"

	"promptlab/app"
	"promptlab/domain/core"
	"promptlab/ports"

	"github.com/gin-gonic/gin"
)

// maxRequestBody caps JSON payloads; sample uploads belong in the
// spreadsheet path, not the API.
const maxRequestBody = 10 << 20 // 10 MiB

// Server exposes the evaluation engine as a JSON API
type Server struct {
	router *gin.Engine
	eval   *app.EvaluationService
	repo   ports.RunRepository
}

// NewServer creates the API server. mode is a gin mode string
// (debug, release, test); empty keeps the process-wide mode.
func NewServer(eval *app.EvaluationService, repo ports.RunRepository, mode string) *Server {
	if mode != "" {
		gin.SetMode(mode)
	}

	s := &Server{
		router: gin.Default(),
		eval:   eval,
		repo:   repo,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Gin middleware beyond the defaults
func (s *Server) setupMiddleware() {
	s.router.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody)
		c.Next()
	})
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.POST("/api/v1/evaluate", s.handleEvaluate)
	s.router.POST("/api/v1/descriptive", s.handleDescriptive)
	s.router.POST("/api/v1/ttest", s.handleTTest)
	s.router.GET("/api/v1/runs", s.handleListRuns)
	s.router.GET("/api/v1/runs/:id", s.handleGetRun)
	s.router.GET("/api/v1/health", s.handleHealth)
}

// Router exposes the underlying handler for mounting and tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the API server
func (s *Server) Start(addr string) error {
	log.Printf("Starting evaluation API on http://%s", addr)
	return s.router.Run(addr)
}

// renderError maps engine and repository errors onto HTTP statuses.
// Input problems are the caller's fault; everything else is ours.
func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case core.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case core.IsInputError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[API] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
