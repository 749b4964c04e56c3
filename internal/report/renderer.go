// Package report renders evaluation results as markdown, plus the HTML
// conversion used by the web views. Rendering is presentation only;
// every number comes from the engine records unchanged.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"promptlab/domain/run"
	domainStats "promptlab/domain/stats"
)

// RenderRun renders a stored run as a markdown document
func RenderRun(r run.Run) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Label)
	fmt.Fprintf(&b, "- Run ID: `%s`\n", r.ID)
	fmt.Fprintf(&b, "- Created: %s\n", r.CreatedAt.String())
	fmt.Fprintf(&b, "- Data fingerprint: `%s`\n\n", shortFingerprint(string(r.Fingerprint)))

	renderSections(&b, r.Reports, r.Comparisons, r.Options)
	return b.String()
}

// RenderComparisonReport renders engine output directly, without run
// metadata. The CLI uses this for unsaved evaluations.
func RenderComparisonReport(rep domainStats.ComparisonReport) string {
	var b strings.Builder
	b.WriteString("# Evaluation report\n\n")
	renderSections(&b, rep.Reports, rep.Comparisons, rep.Options)
	return b.String()
}

// ToHTML converts rendered markdown to HTML for the web views
func ToHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.Render(doc, renderer)
}

func renderSections(b *strings.Builder, reports []domainStats.GroupReport, comparisons []domainStats.Comparison, opts domainStats.Options) {
	b.WriteString("## Options\n\n")
	b.WriteString("| Setting | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| Confidence level | %g |\n", opts.ConfidenceLevel)
	fmt.Fprintf(b, "| Alpha | %g |\n", opts.Alpha)
	fmt.Fprintf(b, "| Test | %s |\n", opts.TestType)
	fmt.Fprintf(b, "| Alternative | %s |\n\n", opts.Alternative)

	b.WriteString("## Groups\n\n")
	for _, gr := range reports {
		renderGroup(b, gr)
	}

	b.WriteString("## Comparisons\n\n")
	if len(comparisons) == 0 {
		b.WriteString("_Single group: nothing to compare._\n")
		return
	}
	for _, cmp := range comparisons {
		renderComparison(b, cmp, opts)
	}
}

func renderGroup(b *strings.Builder, gr domainStats.GroupReport) {
	rep := gr.Report
	fmt.Fprintf(b, "### %s (n=%d)\n\n", gr.Group, rep.Count)
	b.WriteString("| Statistic | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| Mean | %.4f |\n", rep.Mean)
	fmt.Fprintf(b, "| Median | %.4f |\n", rep.Median)
	fmt.Fprintf(b, "| Mode | %s |\n", joinValues(rep.Mode))
	fmt.Fprintf(b, "| Std dev | %.4f |\n", rep.StdDev)
	fmt.Fprintf(b, "| Variance | %.4f |\n", rep.Variance)
	fmt.Fprintf(b, "| Min / Max | %.4f / %.4f |\n", rep.Min, rep.Max)
	fmt.Fprintf(b, "| Range | %.4f |\n", rep.Range)
	if rep.Quartiles != nil {
		fmt.Fprintf(b, "| Quartiles | Q1 %.4f, Q2 %.4f, Q3 %.4f (IQR %.4f) |\n",
			rep.Quartiles.Q1, rep.Quartiles.Q2, rep.Quartiles.Q3, rep.Quartiles.IQR)
		fmt.Fprintf(b, "| Outliers | %s |\n", outlierCell(rep.Outliers))
	} else {
		b.WriteString("| Quartiles | not computed (n < 4) |\n")
	}
	fmt.Fprintf(b, "| Shape | %s |\n\n", rep.Shape)
}

func renderComparison(b *strings.Builder, cmp domainStats.Comparison, opts domainStats.Options) {
	res := cmp.Result
	fmt.Fprintf(b, "### %s vs %s\n\n", cmp.Baseline, cmp.Against)
	b.WriteString("| Measure | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| t statistic | %.4f |\n", res.TStatistic)
	fmt.Fprintf(b, "| Degrees of freedom | %.2f |\n", res.DF)
	fmt.Fprintf(b, "| p-value | %s |\n", pValueCell(res))
	fmt.Fprintf(b, "| Significant | %s |\n", significanceCell(res, opts))
	fmt.Fprintf(b, "| Cohen's d | %.4f |\n", res.EffectSize)
	fmt.Fprintf(b, "| Mean difference | %.4f |\n", res.MeanDifference)
	fmt.Fprintf(b, "| %g%% CI of difference | [%.4f, %.4f] |\n\n",
		res.DifferenceCI.Level*100, res.DifferenceCI.Lower, res.DifferenceCI.Upper)
}

func pValueCell(res domainStats.TwoSampleTestResult) string {
	cell := fmt.Sprintf("%.4g", res.PValue)
	if res.Approximate {
		cell += " (approximate)"
	}
	return cell
}

func significanceCell(res domainStats.TwoSampleTestResult, opts domainStats.Options) string {
	if res.Significant {
		return fmt.Sprintf("yes at alpha %g", opts.Alpha)
	}
	return fmt.Sprintf("no at alpha %g", opts.Alpha)
}

func outlierCell(outliers []float64) string {
	if len(outliers) == 0 {
		return "none"
	}
	return joinValues(outliers)
}

func joinValues(values []float64) string {
	if len(values) == 0 {
		return "none"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return strings.Join(parts, ", ")
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
