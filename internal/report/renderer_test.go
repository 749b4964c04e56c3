package report

import (
	"strings"
	"testing"

	"promptlab/domain/run"
	domainStats "promptlab/domain/stats"
)

func sampleRun() run.Run {
	groups := map[string][]float64{
		"control":   {10, 12, 9, 11, 13},
		"treatment": {20, 22, 19, 21, 23},
	}
	reports := []domainStats.GroupReport{
		{Group: "control", Report: domainStats.DescriptiveReport{
			Count: 5, Mean: 11, Median: 11, Mode: []float64{9, 10, 11, 12, 13},
			StdDev: 1.5811, Variance: 2.5, Min: 9, Max: 13, Range: 4,
			Quartiles: &domainStats.Quartiles{Q1: 10, Q2: 11, Q3: 12, IQR: 2},
			Outliers:  []float64{}, Shape: domainStats.ShapeSymmetric,
		}},
		{Group: "treatment", Report: domainStats.DescriptiveReport{
			Count: 5, Mean: 21, Median: 21, Mode: []float64{19, 20, 21, 22, 23},
			StdDev: 1.5811, Variance: 2.5, Min: 19, Max: 23, Range: 4,
			Quartiles: &domainStats.Quartiles{Q1: 20, Q2: 21, Q3: 22, IQR: 2},
			Outliers:  []float64{}, Shape: domainStats.ShapeSymmetric,
		}},
	}
	comparisons := []domainStats.Comparison{{
		Baseline: "control",
		Against:  "treatment",
		Result: domainStats.TwoSampleTestResult{
			TStatistic: -10, DF: 8, PValue: 6.6e-22, Significant: true,
			EffectSize: -6.3246, MeanDifference: -10,
			DifferenceCI: domainStats.ConfidenceInterval{
				Level: 0.95, Mean: -10, Margin: 1.96, Lower: -11.96, Upper: -8.04,
			},
			Alternative: domainStats.TwoSided,
			Approximate: true,
		},
	}}
	return run.New("latency experiment", groups, domainStats.DefaultOptions(), reports, comparisons)
}

func TestRenderRun_ContainsEverySection(t *testing.T) {
	md := RenderRun(sampleRun())

	for _, want := range []string{
		"# latency experiment",
		"## Options",
		"| Alpha | 0.05 |",
		"## Groups",
		"### control (n=5)",
		"| Mean | 11.0000 |",
		"| Mode | 9, 10, 11, 12, 13 |",
		"| Quartiles | Q1 10.0000, Q2 11.0000, Q3 12.0000 (IQR 2.0000) |",
		"| Outliers | none |",
		"## Comparisons",
		"### control vs treatment",
		"| t statistic | -10.0000 |",
		"(approximate)",
		"| Significant | yes at alpha 0.05 |",
		"| Cohen's d | -6.3246 |",
		"| 95% CI of difference | [-11.9600, -8.0400] |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Rendered markdown missing %q\n---\n%s", want, md)
		}
	}
}

func TestRenderRun_FlagsOutliers(t *testing.T) {
	r := sampleRun()
	r.Reports[0].Report.Outliers = []float64{100}

	md := RenderRun(r)
	if !strings.Contains(md, "| Outliers | 100 |") {
		t.Errorf("Expected flagged outlier in output:\n%s", md)
	}
}

func TestRenderRun_DegradedSmallSample(t *testing.T) {
	r := sampleRun()
	r.Reports[0].Report.Quartiles = nil
	r.Reports[0].Report.Count = 3
	r.Reports[0].Report.Shape = domainStats.ShapeInsufficient

	md := RenderRun(r)
	if !strings.Contains(md, "| Quartiles | not computed (n < 4) |") {
		t.Errorf("Expected degraded quartile row:\n%s", md)
	}
	if !strings.Contains(md, "| Shape | insufficient_data |") {
		t.Errorf("Expected insufficient_data shape row:\n%s", md)
	}
}

func TestRenderComparisonReport_SingleGroup(t *testing.T) {
	rep := domainStats.ComparisonReport{
		Reports: []domainStats.GroupReport{{
			Group: "solo",
			Report: domainStats.DescriptiveReport{
				Count: 4, Mean: 2.5, Median: 2.5, Mode: []float64{1, 2, 3, 4},
				Quartiles: &domainStats.Quartiles{Q1: 1, Q2: 2, Q3: 3, IQR: 2},
				Outliers:  []float64{}, Shape: domainStats.ShapeSymmetric,
			},
		}},
		Options: domainStats.DefaultOptions(),
	}

	md := RenderComparisonReport(rep)
	if !strings.Contains(md, "_Single group: nothing to compare._") {
		t.Errorf("Expected single-group note:\n%s", md)
	}
}

func TestToHTML_RendersTablesAndHeadings(t *testing.T) {
	out := string(ToHTML(RenderRun(sampleRun())))

	for _, want := range []string{"<h1", "<h3", "<table>", "<td>"} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML output missing %q", want)
		}
	}
	if strings.Contains(out, "| Mean |") {
		t.Error("Markdown table syntax leaked into HTML output")
	}
}
