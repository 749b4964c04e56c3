package api

import (
	"net/http"
	"strconv"

	"promptlab/app"
	"promptlab/domain/core"
	domainStats "promptlab/domain/stats"

	"github.com/gin-gonic/gin"
)

// optionsPayload carries per-request overrides of the engine defaults.
// Pointers distinguish "omitted" from explicit zero values, which the
// engine rejects as out of range.
type optionsPayload struct {
	ConfidenceLevel *float64 `json:"confidence_level"`
	Alpha           *float64 `json:"alpha"`
	TestType        *string  `json:"test_type"`
	Alternative     *string  `json:"alternative"`
}

func resolveOptions(p *optionsPayload) domainStats.Options {
	opts := domainStats.DefaultOptions()
	if p == nil {
		return opts
	}
	if p.ConfidenceLevel != nil {
		opts.ConfidenceLevel = *p.ConfidenceLevel
	}
	if p.Alpha != nil {
		opts.Alpha = *p.Alpha
	}
	if p.TestType != nil {
		opts.TestType = domainStats.TestType(*p.TestType)
	}
	if p.Alternative != nil {
		opts.Alternative = domainStats.Alternative(*p.Alternative)
	}
	return opts
}

type evaluateRequest struct {
	Label   string               `json:"label"`
	Names   []string             `json:"names"`
	Groups  map[string][]float64 `json:"groups"`
	Options *optionsPayload      `json:"options"`
}

// handleEvaluate runs grouped dispatch and persists the run
func (s *Server) handleEvaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	rec, err := s.eval.Evaluate(c.Request.Context(), app.EvaluateRequest{
		Label:   req.Label,
		Names:   req.Names,
		Groups:  req.Groups,
		Options: resolveOptions(req.Options),
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

type descriptiveRequest struct {
	Sample []float64 `json:"sample"`
}

// handleDescriptive summarizes one sample without persisting anything
func (s *Server) handleDescriptive(c *gin.Context) {
	var req descriptiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	report, err := s.eval.Describe(req.Sample)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

type ttestRequest struct {
	SampleA []float64       `json:"sample_a"`
	SampleB []float64       `json:"sample_b"`
	Options *optionsPayload `json:"options"`
}

// handleTTest runs a single Welch comparison without persisting anything
func (s *Server) handleTTest(c *gin.Context) {
	var req ttestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := s.eval.TTest(req.SampleA, req.SampleB, resolveOptions(req.Options))
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleListRuns returns stored runs, newest first
func (s *Server) handleListRuns(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if parsed > 200 {
			parsed = 200
		}
		limit = parsed
	}

	runs, err := s.repo.List(c.Request.Context(), limit)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"count": len(runs),
	})
}

// handleGetRun returns one run by ID
func (s *Server) handleGetRun(c *gin.Context) {
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := s.repo.Get(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}
