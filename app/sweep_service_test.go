package app

import (
	"context"
	"strings"
	"testing"

	"promptlab/domain/core"
	domainStats "promptlab/domain/stats"
)

func threeMetricSets() []MetricSet {
	return []MetricSet{
		{
			Metric: "latency_ms",
			Names:  []string{"control", "treatment"},
			Groups: map[string][]float64{
				"control":   {10, 12, 9, 11, 13},
				"treatment": {20, 22, 19, 21, 23},
			},
		},
		{
			Metric: "quality",
			Names:  []string{"control", "treatment"},
			Groups: map[string][]float64{
				"control":   {70, 72, 69, 71, 73},
				"treatment": {70.5, 72.5, 69.5, 71.5, 73.5},
			},
		},
		{
			Metric: "tokens_per_sec",
			Names:  []string{"control", "treatment"},
			Groups: map[string][]float64{
				"control":   {38, 40, 37, 39, 41},
				"treatment": {30, 32, 29, 31, 33},
			},
		},
	}
}

func TestSweepService_EvaluatesAllSetsInOrder(t *testing.T) {
	eval, repo := newTestService()
	sweep := NewSweepService(eval, 2)

	result, err := sweep.Sweep(context.Background(), SweepRequest{
		Label:   "nightly",
		Sets:    threeMetricSets(),
		Options: domainStats.DefaultOptions(),
	})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	if len(result.Runs) != 3 {
		t.Fatalf("runs = %d, want 3", len(result.Runs))
	}

	wantLabels := []string{"nightly/latency_ms", "nightly/quality", "nightly/tokens_per_sec"}
	for i, want := range wantLabels {
		if result.Runs[i].Label != want {
			t.Errorf("runs[%d].Label = %q, want %q", i, result.Runs[i].Label, want)
		}
	}

	stored, err := repo.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(stored) != 3 {
		t.Errorf("repository holds %d runs, want 3", len(stored))
	}
}

func TestSweepService_SeparationShowsUpPerMetric(t *testing.T) {
	eval, _ := newTestService()
	sweep := NewSweepService(eval, 4)

	result, err := sweep.Sweep(context.Background(), SweepRequest{
		Label:   "release-gate",
		Sets:    threeMetricSets(),
		Options: domainStats.DefaultOptions(),
	})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	// latency_ms and tokens_per_sec are clearly separated, quality is a
	// half-point nudge that should not reject at 0.05.
	if !result.Runs[0].Comparisons[0].Result.Significant {
		t.Error("latency_ms should test significant")
	}
	if result.Runs[1].Comparisons[0].Result.Significant {
		t.Error("quality nudge should not test significant")
	}
	if !result.Runs[2].Comparisons[0].Result.Significant {
		t.Error("tokens_per_sec should test significant")
	}
}

func TestSweepService_FirstErrorSurfacesWithMetricName(t *testing.T) {
	eval, _ := newTestService()
	sweep := NewSweepService(eval, 2)

	sets := threeMetricSets()
	sets = append(sets, MetricSet{
		Metric: "memory_mb",
		Names:  []string{"only"},
		Groups: map[string][]float64{"only": {512}},
	})

	_, err := sweep.Sweep(context.Background(), SweepRequest{
		Label:   "nightly",
		Sets:    sets,
		Options: domainStats.DefaultOptions(),
	})
	if err == nil {
		t.Fatal("undersized metric set should fail the sweep")
	}
	if !strings.Contains(err.Error(), "memory_mb") {
		t.Errorf("error should name the offending metric set, got %v", err)
	}
	if !core.IsInsufficientDataError(err) {
		t.Errorf("cause should unwrap to insufficient data, got %v", err)
	}
}

func TestSweepService_EmptyRequestRejected(t *testing.T) {
	eval, _ := newTestService()
	sweep := NewSweepService(eval, 2)

	_, err := sweep.Sweep(context.Background(), SweepRequest{
		Label:   "empty",
		Options: domainStats.DefaultOptions(),
	})
	if err == nil {
		t.Fatal("empty sweep should be rejected")
	}
}

func TestSweepService_ZeroWorkersStillRuns(t *testing.T) {
	eval, _ := newTestService()
	sweep := NewSweepService(eval, 0)

	result, err := sweep.Sweep(context.Background(), SweepRequest{
		Label:   "serial",
		Sets:    threeMetricSets()[:1],
		Options: domainStats.DefaultOptions(),
	})
	if err != nil {
		t.Fatalf("Sweep with clamped workers: %v", err)
	}
	if len(result.Runs) != 1 {
		t.Errorf("runs = %d, want 1", len(result.Runs))
	}
}

func TestSweepService_CancelledContextStopsSweep(t *testing.T) {
	eval, _ := newTestService()
	sweep := NewSweepService(eval, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sweep.Sweep(ctx, SweepRequest{
		Label:   "cancelled",
		Sets:    threeMetricSets(),
		Options: domainStats.DefaultOptions(),
	})
	if err == nil {
		t.Fatal("cancelled context should fail the sweep")
	}
}
