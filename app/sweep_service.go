package app

import (
	"context"
	"fmt"
	"time"

	"promptlab/domain/run"
	domainStats "promptlab/domain/stats"
	"promptlab/internal"

	"golang.org/x/sync/errgroup"
)

// MetricSet is one named family of grouped samples, evaluated as a unit
type MetricSet struct {
	Metric string
	Names  []string
	Groups map[string][]float64
}

// SweepRequest defines the inputs for a concurrent multi-metric sweep
type SweepRequest struct {
	Label   string
	Sets    []MetricSet
	Options domainStats.Options
}

// SweepResult contains the complete output of a sweep
type SweepResult struct {
	Runs      []run.Run `json:"runs"` // same order as the request sets
	RuntimeMs int64     `json:"runtime_ms"`
}

// SweepService evaluates many metric sets concurrently. The engine is
// pure so parallel evaluation needs no coordination; only repository
// writes touch shared state.
type SweepService struct {
	eval    *EvaluationService
	workers int
	logger  *internal.Logger
}

// NewSweepService creates a sweep service with bounded parallelism
func NewSweepService(eval *EvaluationService, workers int) *SweepService {
	if workers < 1 {
		workers = 1
	}
	return &SweepService{
		eval:    eval,
		workers: workers,
		logger:  internal.NewDefaultLogger().With("Sweep"),
	}
}

// Sweep evaluates every metric set, at most `workers` at a time. The
// first failure cancels the remaining evaluations and is returned;
// runs already persisted stay persisted.
func (s *SweepService) Sweep(ctx context.Context, req SweepRequest) (*SweepResult, error) {
	startTime := time.Now()

	if len(req.Sets) == 0 {
		return nil, fmt.Errorf("sweep needs at least one metric set")
	}

	s.logger.Info("sweep %q: %d metric sets, %d workers", req.Label, len(req.Sets), s.workers)

	runs := make([]run.Run, len(req.Sets))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, set := range req.Sets {
		i, set := i, set

		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			label := req.Label
			if set.Metric != "" {
				label = fmt.Sprintf("%s/%s", req.Label, set.Metric)
			}

			rec, err := s.eval.Evaluate(gCtx, EvaluateRequest{
				Label:   label,
				Names:   set.Names,
				Groups:  set.Groups,
				Options: req.Options,
			})
			if err != nil {
				return fmt.Errorf("metric set %q: %w", set.Metric, err)
			}

			runs[i] = *rec
			s.logger.Debug("metric set %q done: run %s", set.Metric, rec.ID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	runtimeMs := time.Since(startTime).Milliseconds()
	s.logger.Info("sweep %q completed in %dms", req.Label, runtimeMs)

	return &SweepResult{
		Runs:      runs,
		RuntimeMs: runtimeMs,
	}, nil
}
