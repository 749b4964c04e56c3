package main

import (
	"context"
	"fmt"
	"math"
	"os"

	"promptlab/domain/run"
	domainStats "promptlab/domain/stats"
	"promptlab/internal/devkit"
	"promptlab/internal/storage"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "promptlab-dev",
		Short: "PromptLab development tools",
	}

	rootCmd.AddCommand(
		newSeedCmd(),
		newSmokeTestCmd(),
		newDeterminismTestCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSeedCmd() *cobra.Command {
	var outDir string
	var seed int64
	var n int
	var shift float64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate seed runs for development",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateSeedRuns(cmd.Context(), outDir, seed, n, shift)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "./runs", "Directory for the run records")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed for deterministic draws")
	cmd.Flags().IntVar(&n, "n", 30, "Observations per variant")
	cmd.Flags().Float64Var(&shift, "shift", -5, "Additive shift applied to the treatment arm")

	return cmd
}

func newSmokeTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Run smoke tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmokeTests(cmd.Context())
		},
	}
}

func newDeterminismTestCmd() *cobra.Command {
	var seed int64
	var n int

	cmd := &cobra.Command{
		Use:   "determinism",
		Short: "Verify seed replay produces identical runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return testDeterminism(cmd.Context(), seed, n)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed to replay")
	cmd.Flags().IntVar(&n, "n", 25, "Observations per variant")

	return cmd
}

func generateSeedRuns(ctx context.Context, outDir string, seed int64, n int, shift float64) error {
	fmt.Println("Generating seed runs...")

	store := storage.NewFileRunStore(outDir)
	if err := store.EnsureBaseDir(); err != nil {
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}

	kit := devkit.New(devkit.Options{Seed: seed, Store: store})
	runs, err := kit.SeedRuns(ctx, n, shift)
	if err != nil {
		return fmt.Errorf("failed to seed runs: %w", err)
	}

	for _, rec := range runs {
		fmt.Printf("  %s  %s\n", rec.ID, rec.Label)
	}
	fmt.Printf("Seeded %d runs into %s\n", len(runs), outDir)
	return nil
}

func runSmokeTests(ctx context.Context) error {
	fmt.Println("Running smoke tests...")

	kit := devkit.New(devkit.Options{Seed: 1})

	tests := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"descriptive", func(ctx context.Context) error {
			rep, err := kit.Evaluation().Describe([]float64{10, 12, 9, 11, 13})
			if err != nil {
				return err
			}
			if rep.Count != 5 || rep.Mean != 11 {
				return fmt.Errorf("unexpected summary: n=%d mean=%v", rep.Count, rep.Mean)
			}
			return nil
		}},
		{"welch_separated_groups", func(ctx context.Context) error {
			res, err := kit.Evaluation().TTest(
				[]float64{10, 12, 9, 11, 13},
				[]float64{20, 22, 19, 21, 23},
				domainStats.DefaultOptions(),
			)
			if err != nil {
				return err
			}
			if math.Abs(res.TStatistic+10) > 1e-9 {
				return fmt.Errorf("t statistic drifted: %v", res.TStatistic)
			}
			if math.Abs(res.DF-8) > 1e-9 {
				return fmt.Errorf("df drifted: %v", res.DF)
			}
			if !res.Significant {
				return fmt.Errorf("separated groups not flagged significant")
			}
			return nil
		}},
		{"seed_runs", func(ctx context.Context) error {
			runs, err := kit.SeedRuns(ctx, 20, -5)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				return fmt.Errorf("no runs produced")
			}
			return nil
		}},
	}

	passed := 0
	for _, test := range tests {
		fmt.Printf("  Running %s...", test.name)
		if err := test.fn(ctx); err != nil {
			fmt.Printf(" FAILED: %v\n", err)
		} else {
			fmt.Println(" PASSED")
			passed++
		}
	}

	fmt.Printf("\nSmoke tests: %d/%d passed\n", passed, len(tests))
	if passed < len(tests) {
		return fmt.Errorf("some smoke tests failed")
	}
	return nil
}

func testDeterminism(ctx context.Context, seed int64, n int) error {
	fmt.Printf("Testing determinism with seed %d...\n", seed)

	first, err := devkit.New(devkit.Options{Seed: seed}).SeedRuns(ctx, n, 2)
	if err != nil {
		return fmt.Errorf("first pass failed: %w", err)
	}

	fmt.Println("Re-running with the same seed...")
	second, err := devkit.New(devkit.Options{Seed: seed}).SeedRuns(ctx, n, 2)
	if err != nil {
		return fmt.Errorf("second pass failed: %w", err)
	}

	if err := compareRuns(first, second); err != nil {
		return fmt.Errorf("determinism test failed: %w", err)
	}

	fmt.Println("Determinism test passed: results identical")
	return nil
}

func compareRuns(first, second []run.Run) error {
	if len(first) != len(second) {
		return fmt.Errorf("run counts differ: %d vs %d", len(first), len(second))
	}

	for i := range first {
		if first[i].Fingerprint != second[i].Fingerprint {
			return fmt.Errorf("run %d (%s): fingerprints differ", i, first[i].Label)
		}
		if len(first[i].Comparisons) != len(second[i].Comparisons) {
			return fmt.Errorf("run %d (%s): comparison counts differ", i, first[i].Label)
		}
		for j := range first[i].Comparisons {
			a := first[i].Comparisons[j].Result
			b := second[i].Comparisons[j].Result
			if a.TStatistic != b.TStatistic {
				return fmt.Errorf("run %d comparison %d: t statistic differs: %v vs %v",
					i, j, a.TStatistic, b.TStatistic)
			}
			if a.PValue != b.PValue {
				return fmt.Errorf("run %d comparison %d: p-value differs: %v vs %v",
					i, j, a.PValue, b.PValue)
			}
		}
	}
	return nil
}
