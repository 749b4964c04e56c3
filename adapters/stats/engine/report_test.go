package engine

import (
	"strings"
	"testing"

	"promptlab/domain/core"
	domainStats "promptlab/domain/stats"
)

func threeGroups() (names []string, groups map[string][]float64) {
	names = []string{"baseline", "candidate_a", "candidate_b"}
	groups = map[string][]float64{
		"baseline":    {10, 12, 9, 11, 13},
		"candidate_a": {20, 22, 19, 21, 23},
		"candidate_b": {10.5, 12.5, 9.5, 11.5, 13.5},
	}
	return names, groups
}

// TestCompareGroups_BaselineAgainstEachOther verifies the fan-out shape:
// first group anchors every comparison, one result per remaining group
func TestCompareGroups_BaselineAgainstEachOther(t *testing.T) {
	names, groups := threeGroups()

	report, err := CompareGroups(names, groups, domainStats.DefaultOptions())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	if len(report.Comparisons) != 2 {
		t.Fatalf("Expected 2 comparisons for 3 groups, got %d", len(report.Comparisons))
	}
	for i, cmp := range report.Comparisons {
		if cmp.Baseline != "baseline" {
			t.Errorf("Comparison %d anchored on %q, want baseline", i, cmp.Baseline)
		}
		if cmp.Against != names[i+1] {
			t.Errorf("Comparison %d against %q, want %q", i, cmp.Against, names[i+1])
		}
	}

	// Shifted-by-0.5 group should not separate, shifted-by-10 group should
	if !report.Comparisons[0].Result.Significant {
		t.Error("Expected baseline vs candidate_a to be significant")
	}
	if report.Comparisons[1].Result.Significant {
		t.Error("Expected baseline vs candidate_b to be indistinguishable")
	}
}

func TestCompareGroups_SingleGroupDescribesOnly(t *testing.T) {
	groups := map[string][]float64{"solo": {1, 2, 3, 4, 5}}

	report, err := CompareGroups([]string{"solo"}, groups, domainStats.DefaultOptions())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(report.Reports) != 1 || len(report.Comparisons) != 0 {
		t.Errorf("Expected 1 report and 0 comparisons, got %d and %d", len(report.Reports), len(report.Comparisons))
	}
}

func TestCompareGroups_MissingGroupName(t *testing.T) {
	_, groups := threeGroups()

	_, err := CompareGroups([]string{"baseline", "phantom"}, groups, domainStats.DefaultOptions())
	if err == nil {
		t.Fatal("Expected error for a name with no sample")
	}
	if !strings.Contains(err.Error(), "phantom") {
		t.Errorf("Error should name the missing group: %v", err)
	}
}

func TestCompareGroups_NoGroups(t *testing.T) {
	_, err := CompareGroups(nil, map[string][]float64{}, domainStats.DefaultOptions())
	if !core.IsInsufficientDataError(err) {
		t.Fatalf("Expected insufficient data error, got %v", err)
	}
}

// TestCompareGroups_UndersizedGroupNamesOffender verifies the failing
// group is identifiable from the wrapped error
func TestCompareGroups_UndersizedGroupNamesOffender(t *testing.T) {
	names := []string{"baseline", "thin"}
	groups := map[string][]float64{
		"baseline": {10, 12, 9, 11, 13},
		"thin":     {42},
	}

	_, err := CompareGroups(names, groups, domainStats.DefaultOptions())
	if err == nil {
		t.Fatal("Expected error for a single-observation group")
	}
	if !core.IsInsufficientDataError(err) {
		t.Errorf("Expected insufficient data in the chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "thin") {
		t.Errorf("Error should name the undersized group: %v", err)
	}
}

func TestCompareGroups_RejectsBadOptions(t *testing.T) {
	names, groups := threeGroups()
	opts := domainStats.DefaultOptions()
	opts.TestType = "anova"

	_, err := CompareGroups(names, groups, opts)
	if !core.IsUnsupportedOptionError(err) {
		t.Fatalf("Expected unsupported option error, got %v", err)
	}
}

func TestCompareGroups_OptionsEchoedInReport(t *testing.T) {
	names, groups := threeGroups()
	opts := domainStats.DefaultOptions()
	opts.Alpha = 0.01
	opts.Alternative = domainStats.Greater

	report, err := CompareGroups(names, groups, opts)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if report.Options != opts {
		t.Errorf("Expected options echoed back, got %+v", report.Options)
	}
}
