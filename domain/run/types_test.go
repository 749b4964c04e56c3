package run

import (
	"testing"

	"promptlab/domain/stats"
)

func sampleRun() Run {
	groups := map[string][]float64{
		"control":   {10, 12, 9, 11, 13},
		"treatment": {20, 22, 19, 21, 23},
	}
	reports := []stats.GroupReport{
		{Group: "treatment"},
		{Group: "control"},
	}
	comparisons := []stats.Comparison{
		{Baseline: "control", Against: "treatment", Result: stats.TwoSampleTestResult{Significant: true}},
		{Baseline: "control", Against: "canary", Result: stats.TwoSampleTestResult{Significant: false}},
	}
	return New("nightly", groups, stats.DefaultOptions(), reports, comparisons)
}

func TestNew_AssemblesRecord(t *testing.T) {
	rec := sampleRun()

	if rec.ID == "" {
		t.Error("run ID is empty")
	}
	if rec.Fingerprint == "" {
		t.Error("fingerprint is empty")
	}
	if rec.CreatedAt.Time().IsZero() {
		t.Error("created-at is zero")
	}
	if rec.Label != "nightly" {
		t.Errorf("unexpected label %q", rec.Label)
	}
}

func TestNew_FingerprintStableAcrossRuns(t *testing.T) {
	first := sampleRun()
	second := sampleRun()

	if first.ID == second.ID {
		t.Error("distinct runs share an ID")
	}
	if first.Fingerprint != second.Fingerprint {
		t.Error("identical inputs produced different fingerprints")
	}
}

func TestSignificantComparisons_FiltersByVerdict(t *testing.T) {
	rec := sampleRun()

	sig := rec.SignificantComparisons()
	if len(sig) != 1 {
		t.Fatalf("expected 1 significant comparison, got %d", len(sig))
	}
	if sig[0].Against != "treatment" {
		t.Errorf("unexpected comparison against %q", sig[0].Against)
	}
}

func TestGroupNames_StoredAndSortedOrders(t *testing.T) {
	rec := sampleRun()

	stored := rec.GroupNames()
	if len(stored) != 2 || stored[0] != "treatment" || stored[1] != "control" {
		t.Errorf("stored order wrong: %v", stored)
	}

	sorted := rec.SortedGroupNames()
	if len(sorted) != 2 || sorted[0] != "control" || sorted[1] != "treatment" {
		t.Errorf("sorted order wrong: %v", sorted)
	}
}
