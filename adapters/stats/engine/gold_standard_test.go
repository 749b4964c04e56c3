package engine

import (
	"math"
	"reflect"
	"testing"

	domainStats "promptlab/domain/stats"
)

// TestGoldStandard_ControlTreatmentSeparation pins the canonical two-group
// scenario end to end: distant means with equal spread must reject hard.
func TestGoldStandard_ControlTreatmentSeparation(t *testing.T) {
	control := []float64{10, 12, 9, 11, 13}
	treatment := []float64{20, 22, 19, 21, 23}

	meanC, err := Mean(control)
	if err != nil {
		t.Fatalf("mean control: %v", err)
	}
	meanT, err := Mean(treatment)
	if err != nil {
		t.Fatalf("mean treatment: %v", err)
	}
	if meanC != 11 || meanT != 21 {
		t.Fatalf("Expected means 11 and 21, got %v and %v", meanC, meanT)
	}

	varC, _ := Variance(control)
	varT, _ := Variance(treatment)
	if varC != 2.5 || varT != 2.5 {
		t.Fatalf("Expected equal variances 2.5, got %v and %v", varC, varT)
	}

	result, err := WelchTTest(control, treatment, domainStats.DefaultOptions())
	if err != nil {
		t.Fatalf("welch: %v", err)
	}

	if result.TStatistic != -10 {
		t.Errorf("Expected t = -10 (se is exactly 1), got %v", result.TStatistic)
	}
	if result.DF != 8 {
		t.Errorf("Expected Welch-Satterthwaite df 8, got %v", result.DF)
	}
	if result.PValue >= 0.001 {
		t.Errorf("Expected p < 0.001, got %v (t=%v, df=%v)", result.PValue, result.TStatistic, result.DF)
	}
	if !result.Significant {
		t.Error("Expected significance at alpha 0.05")
	}

	// Cohen's d on the pooled standard deviation sqrt(20/8)
	expectedD := -10 / math.Sqrt(2.5)
	if !almostEqual(result.EffectSize, expectedD, 1e-12) {
		t.Errorf("Expected Cohen's d %v, got %v", expectedD, result.EffectSize)
	}
	if math.Abs(result.EffectSize) < 0.8 {
		t.Errorf("Expected a large effect, got |d| = %v", math.Abs(result.EffectSize))
	}
	if result.MeanDifference != -10 {
		t.Errorf("Expected mean difference -10, got %v", result.MeanDifference)
	}
}

// TestGoldStandard_SingleExtremeValueFlagged pins descriptive analysis on the
// classic one-outlier sample
func TestGoldStandard_SingleExtremeValueFlagged(t *testing.T) {
	report, err := Describe([]float64{1, 2, 2, 3, 4, 100})
	if err != nil {
		t.Fatalf("describe: %v", err)
	}

	if !reflect.DeepEqual(report.Outliers, []float64{100}) {
		t.Fatalf("Expected exactly [100] flagged, got %v (quartiles %+v)", report.Outliers, report.Quartiles)
	}
	for _, v := range []float64{1, 2, 3, 4} {
		for _, flagged := range report.Outliers {
			if flagged == v {
				t.Errorf("In-fence value %v was flagged", v)
			}
		}
	}
}

// TestGoldStandard_EmptyInputIsDefinedError pins the no-data behavior
func TestGoldStandard_EmptyInputIsDefinedError(t *testing.T) {
	if _, err := Describe([]float64{}); err == nil {
		t.Fatal("Expected defined error for empty input, got none")
	}
}

// TestGoldStandard_GroupedDispatchEndToEnd runs the full comparison and
// checks the assembled record twice for bit-identical idempotence
func TestGoldStandard_GroupedDispatchEndToEnd(t *testing.T) {
	names := []string{"control", "treatment"}
	groups := map[string][]float64{
		"control":   {10, 12, 9, 11, 13},
		"treatment": {20, 22, 19, 21, 23},
	}

	first, err := CompareGroups(names, groups, domainStats.DefaultOptions())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	if len(first.Reports) != 2 {
		t.Fatalf("Expected 2 group reports, got %d", len(first.Reports))
	}
	if first.Reports[0].Group != "control" || first.Reports[1].Group != "treatment" {
		t.Errorf("Group order not preserved: %v, %v", first.Reports[0].Group, first.Reports[1].Group)
	}
	if len(first.Comparisons) != 1 {
		t.Fatalf("Expected 1 comparison, got %d", len(first.Comparisons))
	}
	cmp := first.Comparisons[0]
	if cmp.Baseline != "control" || cmp.Against != "treatment" {
		t.Errorf("Expected control vs treatment, got %s vs %s", cmp.Baseline, cmp.Against)
	}
	if !cmp.Result.Significant {
		t.Error("Expected the separation to be significant")
	}

	second, err := CompareGroups(names, groups, domainStats.DefaultOptions())
	if err != nil {
		t.Fatalf("compare replay: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Grouped dispatch is not idempotent on identical input")
	}
}
