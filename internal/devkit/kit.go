// Package devkit wires an in-memory evaluation stack for dev tooling
// and demos: seeded simulation, the engine, and a run store that needs
// no database.
package devkit

import (
	"context"
	"fmt"

	"promptlab/adapters/stats/engine"
	"promptlab/adapters/stats/exact"
	"promptlab/app"
	"promptlab/domain/run"
	domainStats "promptlab/domain/stats"
	"promptlab/internal/simulation"
	"promptlab/internal/storage"
	"promptlab/ports"
)

// Kit bundles the pieces dev commands share
type Kit struct {
	repo ports.RunRepository
	gen  *simulation.Generator
	eval *app.EvaluationService
	seed int64
}

// Options configures kit construction. The zero value gives seed 1,
// approximate tails, and a fresh in-memory store.
type Options struct {
	Seed       int64
	ExactTails bool
	Store      ports.RunRepository
}

// New creates a kit with the requested stack
func New(opts Options) *Kit {
	if opts.Seed == 0 {
		opts.Seed = 1
	}

	repo := opts.Store
	if repo == nil {
		repo = storage.NewMemoryRunRepository()
	}

	var tails ports.DistributionPort
	if opts.ExactTails {
		tails = exact.NewStudentTails()
	}

	return &Kit{
		repo: repo,
		gen:  simulation.NewGenerator(simulation.NewRNGAdapter(), opts.Seed),
		eval: app.NewEvaluationService(engine.NewEngine(tails), repo),
		seed: opts.Seed,
	}
}

// Repo returns the run store backing the kit
func (k *Kit) Repo() ports.RunRepository {
	return k.repo
}

// Generator returns the seeded sample generator
func (k *Kit) Generator() *simulation.Generator {
	return k.gen
}

// Evaluation returns the wired evaluation service
func (k *Kit) Evaluation() *app.EvaluationService {
	return k.eval
}

// Seed returns the seed the kit draws with
func (k *Kit) Seed() int64 {
	return k.seed
}

// SeedRuns evaluates a simulated control/treatment pair for every
// simulator metric and persists one run each. The shift applies to the
// treatment arm, in metric units.
func (k *Kit) SeedRuns(ctx context.Context, n int, shift float64) ([]run.Run, error) {
	variants := []simulation.Variant{
		{Name: "control"},
		{Name: "treatment", Shift: shift},
	}

	metrics := simulation.Metrics()
	runs := make([]run.Run, 0, len(metrics))
	for _, metric := range metrics {
		names, groups, err := k.gen.SampleGroups(ctx, metric, variants, n)
		if err != nil {
			return nil, fmt.Errorf("metric %s: %w", metric, err)
		}

		rec, err := k.eval.Evaluate(ctx, app.EvaluateRequest{
			Label:   "seed/" + metric,
			Names:   names,
			Groups:  groups,
			Options: domainStats.DefaultOptions(),
		})
		if err != nil {
			return nil, fmt.Errorf("metric %s: %w", metric, err)
		}
		runs = append(runs, *rec)
	}
	return runs, nil
}
