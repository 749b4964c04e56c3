package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"promptlab/internal/fixtures"
	"promptlab/internal/simulation"
)

func main() {
	out := flag.String("out", "samples.xlsx", "output file path")
	metric := flag.String("metric", "latency_ms", "simulator metric to draw")
	n := flag.Int("n", 30, "observations per variant")
	format := flag.String("format", "", "output format: xlsx or csv (default inferred from -out)")
	seed := flag.Int64("seed", 42, "RNG seed (deterministic)")
	shift := flag.Float64("shift", 0, "additive shift applied to the treatment arm")
	flag.Parse()

	if *n <= 0 {
		fmt.Fprintln(os.Stderr, "n must be > 0")
		os.Exit(2)
	}

	fmtName := strings.ToLower(strings.TrimSpace(*format))
	if fmtName == "" {
		switch strings.ToLower(filepath.Ext(*out)) {
		case ".csv":
			fmtName = "csv"
		default:
			fmtName = "xlsx"
		}
	}

	cfg := fixtures.DefaultConfig()
	cfg.Metric = *metric
	cfg.Observations = *n
	cfg.Seed = *seed
	cfg.Variants = []simulation.Variant{
		{Name: "control"},
		{Name: "treatment", Shift: *shift},
	}

	wb, err := fixtures.Generate(context.Background(), cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error generating samples:", err)
		os.Exit(1)
	}

	switch fmtName {
	case "csv":
		err = fixtures.WriteCSV(*out, wb)
	case "xlsx":
		err = fixtures.WriteXLSX(*out, wb)
	default:
		fmt.Fprintln(os.Stderr, "unsupported format:", fmtName)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", fmtName, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s\n", *out)
	fmt.Printf("Metric: %s | Variants: %d | Observations: %d\n", cfg.Metric, len(cfg.Variants), cfg.Observations)
}
