package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"promptlab/adapters/excel"
	"promptlab/adapters/stats/engine"
	"promptlab/adapters/stats/exact"
	"promptlab/app"
	"promptlab/domain/run"
	domainStats "promptlab/domain/stats"
	"promptlab/internal/heuristics"
	"promptlab/internal/report"
	"promptlab/internal/simulation"
	"promptlab/internal/storage"
	"promptlab/ports"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "promptlab-cli",
		Short: "PromptLab CLI for evaluating experiment samples from files or simulation",
	}

	rootCmd.AddCommand(
		newEvaluateCmd(),
		newSweepCmd(),
		newScoreCmd(),
		newDemoCmd(),
		newMetricsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newEvaluateCmd() *cobra.Command {
	var sheet string
	var label string
	var alpha float64
	var level float64
	var alternative string
	var exactTails bool
	var outDir string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "evaluate [data-file]",
		Short: "Evaluate grouped samples from an .xlsx or .csv file",
		Long: `Evaluate grouped samples and print the comparison report.

The file needs a header row naming the groups; each column below it is
one group's observations. The first group is the baseline every other
group is tested against.

Example: promptlab-cli evaluate runs.xlsx --alpha 0.01 --out ./runs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := buildOptions(alpha, level, alternative)
			return runEvaluate(cmd.Context(), args[0], sheet, label, opts, exactTails, outDir, asJSON)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "Worksheet to read (.xlsx only)")
	cmd.Flags().StringVar(&label, "label", "", "Run label (defaults to the file name)")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Significance level for the tests")
	cmd.Flags().Float64Var(&level, "level", 0.95, "Confidence level for intervals")
	cmd.Flags().StringVar(&alternative, "alternative", "two_sided", "Alternative hypothesis: two_sided|greater|less")
	cmd.Flags().BoolVar(&exactTails, "exact", false, "Use exact Student-t tails instead of the approximation")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory to save the run record as JSON")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run record as JSON instead of markdown")

	return cmd
}

func newSweepCmd() *cobra.Command {
	var sheet string
	var label string
	var workers int
	var alpha float64
	var exactTails bool
	var outDir string

	cmd := &cobra.Command{
		Use:   "sweep [data-file...]",
		Short: "Evaluate several sample files as one batch",
		Long: `Evaluate each file as an independent metric set, in parallel, and
print one summary line per run. The metric name is the file name
without its extension.

Example: promptlab-cli sweep latency.xlsx quality.csv --workers 4 --out ./runs`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweepFiles(cmd.Context(), args, sheet, label, workers, alpha, exactTails, outDir)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "Worksheet to read (.xlsx only)")
	cmd.Flags().StringVar(&label, "label", "sweep", "Label prefix for the batch")
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent evaluations")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Significance level for the tests")
	cmd.Flags().BoolVar(&exactTails, "exact", false, "Use exact Student-t tails instead of the approximation")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory to save the run records as JSON")

	return cmd
}

func newScoreCmd() *cobra.Command {
	var label string
	var workers int
	var alpha float64
	var exactTails bool
	var outDir string

	cmd := &cobra.Command{
		Use:   "score [response-file...]",
		Short: "Score prompt responses and compare the groups",
		Long: `Grade each file's responses with the text heuristics (structure,
clarity, verbosity) and evaluate every heuristic metric as its own
comparison. The file name is the group name; responses inside a file
are separated by lines containing only "---". The first file is the
baseline.

Example: promptlab-cli score baseline.txt candidate.txt --alpha 0.01`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), args, label, workers, alpha, exactTails, outDir)
		},
	}

	cmd.Flags().StringVar(&label, "label", "score", "Label prefix for the batch")
	cmd.Flags().IntVar(&workers, "workers", 3, "Concurrent evaluations")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Significance level for the tests")
	cmd.Flags().BoolVar(&exactTails, "exact", false, "Use exact Student-t tails instead of the approximation")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory to save the run records as JSON")

	return cmd
}

func newDemoCmd() *cobra.Command {
	var seed int64
	var n int
	var shift float64
	var alpha float64
	var exactTails bool

	cmd := &cobra.Command{
		Use:   "demo [metric]",
		Short: "Evaluate a simulated control/treatment experiment",
		Long: `Draw a seeded control/treatment pair for one of the built-in metrics
and print the comparison report. Identical seeds replay identical data.

Example: promptlab-cli demo latency_ms --seed 42 --n 30 --shift -8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), args[0], seed, n, shift, alpha, exactTails)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic draws")
	cmd.Flags().IntVar(&n, "n", 30, "Observations per variant")
	cmd.Flags().Float64Var(&shift, "shift", 0, "Additive shift applied to the treatment arm")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Significance level for the tests")
	cmd.Flags().BoolVar(&exactTails, "exact", false, "Use exact Student-t tails instead of the approximation")

	return cmd
}

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List metrics available to the demo simulator",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range simulation.Metrics() {
				fmt.Println(name)
			}
		},
	}
}

func runEvaluate(ctx context.Context, file, sheet, label string, opts domainStats.Options, exactTails bool, outDir string, asJSON bool) error {
	reader := excel.NewSampleReader(sheet)
	names, groups, err := reader.ReadGroups(ctx, file)
	if err != nil {
		return fmt.Errorf("failed to read samples: %w", err)
	}

	eng := newEngine(exactTails)
	rep, err := eng.CompareGroups(names, groups, opts)
	if err != nil {
		return err
	}

	if label == "" {
		label = metricName(file)
	}
	rec := run.New(label, groups, rep.Options, rep.Reports, rep.Comparisons)

	if outDir != "" {
		store := storage.NewFileRunStore(outDir)
		if err := store.EnsureBaseDir(); err != nil {
			return fmt.Errorf("failed to prepare output directory: %w", err)
		}
		if err := store.Save(ctx, rec); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved run %s to %s\n", rec.ID, outDir)
	}

	return printRun(rec, asJSON)
}

func runSweepFiles(ctx context.Context, files []string, sheet, label string, workers int, alpha float64, exactTails bool, outDir string) error {
	reader := excel.NewSampleReader(sheet)
	sets := make([]app.MetricSet, 0, len(files))
	for _, file := range files {
		names, groups, err := reader.ReadGroups(ctx, file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		sets = append(sets, app.MetricSet{Metric: metricName(file), Names: names, Groups: groups})
	}

	var repo ports.RunRepository = storage.NewMemoryRunRepository()
	if outDir != "" {
		store := storage.NewFileRunStore(outDir)
		if err := store.EnsureBaseDir(); err != nil {
			return fmt.Errorf("failed to prepare output directory: %w", err)
		}
		repo = store
	}

	opts := domainStats.DefaultOptions()
	opts.Alpha = alpha

	eval := app.NewEvaluationService(newEngine(exactTails), repo)
	svc := app.NewSweepService(eval, workers)

	result, err := svc.Sweep(ctx, app.SweepRequest{Label: label, Sets: sets, Options: opts})
	if err != nil {
		return err
	}

	fmt.Printf("Swept %d metric sets in %dms\n\n", len(result.Runs), result.RuntimeMs)
	for _, rec := range result.Runs {
		fmt.Printf("%-32s %d groups, %d comparisons, %d significant\n",
			rec.Label, len(rec.Reports), len(rec.Comparisons), len(rec.SignificantComparisons()))
	}
	if outDir != "" {
		fmt.Printf("\nSaved %d runs to %s\n", len(result.Runs), outDir)
	}
	return nil
}

func runScore(ctx context.Context, files []string, label string, workers int, alpha float64, exactTails bool, outDir string) error {
	scorer := heuristics.NewScorer()

	names := make([]string, 0, len(files))
	scored := make(map[string]map[string][]float64, len(files))
	for _, file := range files {
		responses, err := readResponses(file)
		if err != nil {
			return err
		}
		name := metricName(file)
		names = append(names, name)
		scored[name] = scorer.ScoreAll(responses)
	}

	sets := make([]app.MetricSet, 0, len(scorer.Metrics()))
	for _, metric := range scorer.Metrics() {
		groups := make(map[string][]float64, len(names))
		for _, name := range names {
			groups[name] = scored[name][metric]
		}
		sets = append(sets, app.MetricSet{Metric: metric, Names: names, Groups: groups})
	}

	var repo ports.RunRepository = storage.NewMemoryRunRepository()
	if outDir != "" {
		store := storage.NewFileRunStore(outDir)
		if err := store.EnsureBaseDir(); err != nil {
			return fmt.Errorf("failed to prepare output directory: %w", err)
		}
		repo = store
	}

	opts := domainStats.DefaultOptions()
	opts.Alpha = alpha

	eval := app.NewEvaluationService(newEngine(exactTails), repo)
	svc := app.NewSweepService(eval, workers)

	result, err := svc.Sweep(ctx, app.SweepRequest{Label: label, Sets: sets, Options: opts})
	if err != nil {
		return err
	}

	fmt.Printf("Scored %d response groups on %d heuristics in %dms\n\n", len(names), len(sets), result.RuntimeMs)
	for _, rec := range result.Runs {
		fmt.Printf("%-32s %d groups, %d comparisons, %d significant\n",
			rec.Label, len(rec.Reports), len(rec.Comparisons), len(rec.SignificantComparisons()))
	}
	if outDir != "" {
		fmt.Printf("\nSaved %d runs to %s\n", len(result.Runs), outDir)
	}
	return nil
}

// readResponses splits a response file on "---" divider lines.
func readResponses(file string) ([]string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	var responses []string
	var current []string
	flush := func() {
		block := strings.TrimSpace(strings.Join(current, "\n"))
		if block != "" {
			responses = append(responses, block)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "---" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	if len(responses) == 0 {
		return nil, fmt.Errorf("%s holds no responses", file)
	}
	return responses, nil
}

func runDemo(ctx context.Context, metric string, seed int64, n int, shift, alpha float64, exactTails bool) error {
	gen := simulation.NewGenerator(simulation.NewRNGAdapter(), seed)
	names, groups, err := gen.SampleGroups(ctx, metric, []simulation.Variant{
		{Name: "control"},
		{Name: "treatment", Shift: shift},
	}, n)
	if err != nil {
		return err
	}

	opts := domainStats.DefaultOptions()
	opts.Alpha = alpha

	rep, err := newEngine(exactTails).CompareGroups(names, groups, opts)
	if err != nil {
		return err
	}

	fmt.Print(report.RenderComparisonReport(rep))
	return nil
}

func printRun(rec run.Run, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode run: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Print(report.RenderRun(rec))
	return nil
}

func newEngine(exactTails bool) *engine.Engine {
	if exactTails {
		return engine.NewEngine(exact.NewStudentTails())
	}
	return engine.NewEngine(nil)
}

func buildOptions(alpha, level float64, alternative string) domainStats.Options {
	opts := domainStats.DefaultOptions()
	opts.Alpha = alpha
	opts.ConfidenceLevel = level
	opts.Alternative = domainStats.Alternative(alternative)
	return opts
}

// metricName derives a metric label from a sample file path.
func metricName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
