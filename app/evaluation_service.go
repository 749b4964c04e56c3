package app

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"promptlab/adapters/stats/engine"
	"promptlab/domain/run"
	domainStats "promptlab/domain/stats"
	"promptlab/ports"
)

// EvaluationService orchestrates grouped evaluation: descriptive
// reports per group, baseline comparisons, run assembly, persistence.
type EvaluationService struct {
	engine *engine.Engine
	repo   ports.RunRepository
}

// EvaluateRequest defines the inputs for one evaluation run
type EvaluateRequest struct {
	Label   string
	Names   []string // group order, first is the baseline; empty means sorted map keys
	Groups  map[string][]float64
	Options domainStats.Options
}

// NewEvaluationService creates an evaluation service
func NewEvaluationService(eng *engine.Engine, repo ports.RunRepository) *EvaluationService {
	return &EvaluationService{
		engine: eng,
		repo:   repo,
	}
}

// Evaluate runs grouped dispatch over the samples and persists the
// assembled run. Engine errors pass through unwrapped enough for
// callers to classify them (input vs option vs internal).
func (s *EvaluationService) Evaluate(ctx context.Context, req EvaluateRequest) (*run.Run, error) {
	startTime := time.Now()

	names := req.Names
	if len(names) == 0 {
		names = sortedGroupNames(req.Groups)
	}

	report, err := s.engine.CompareGroups(names, req.Groups, req.Options)
	if err != nil {
		return nil, err
	}

	rec := run.New(req.Label, req.Groups, report.Options, report.Reports, report.Comparisons)

	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}

	log.Printf("[Evaluation] run %s: %d groups, %d comparisons in %.2fms",
		rec.ID, len(report.Reports), len(report.Comparisons),
		float64(time.Since(startTime).Microseconds())/1000.0)

	return &rec, nil
}

// Describe summarizes one sample without persisting anything
func (s *EvaluationService) Describe(sample []float64) (domainStats.DescriptiveReport, error) {
	return s.engine.Describe(sample)
}

// TTest runs a single Welch comparison without persisting anything
func (s *EvaluationService) TTest(a, b []float64, opts domainStats.Options) (domainStats.TwoSampleTestResult, error) {
	return s.engine.WelchTTest(a, b, opts)
}

func sortedGroupNames(groups map[string][]float64) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
