package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"promptlab/adapters/excel"
	"promptlab/adapters/stats/engine"
	"promptlab/domain/core"
)

type groupCheck struct {
	Name     string
	Count    int
	Mean     float64
	StdDev   float64
	Outliers int
	Usable   bool
	Flags    []string
}

func main() {
	in := flag.String("in", "", "input sample file (.xlsx or .csv)")
	sheet := flag.String("sheet", "Sheet1", "xlsx sheet name")
	flag.Parse()

	if strings.TrimSpace(*in) == "" {
		fmt.Fprintln(os.Stderr, "-in is required")
		os.Exit(2)
	}

	names, groups, err := excel.NewSampleReader(*sheet).ReadGroups(context.Background(), *in)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error loading samples:", err)
		os.Exit(1)
	}

	checks := checkGroups(names, groups)
	usable := 0
	for _, c := range checks {
		if c.Usable {
			usable++
		}
	}

	printReport(*in, checks, usable)

	// A pairwise evaluation needs at least two usable groups
	if usable < 2 {
		os.Exit(1)
	}
}

func checkGroups(names []string, groups map[string][]float64) []groupCheck {
	eng := engine.NewEngine(nil)
	checks := make([]groupCheck, 0, len(names))

	for _, name := range names {
		sample := groups[name]
		check := groupCheck{Name: name, Count: len(sample)}

		rep, err := eng.Describe(sample)
		if err != nil {
			if core.IsInsufficientDataError(err) {
				check.Flags = append(check.Flags, fmt.Sprintf("undersized (n=%d, need 2)", len(sample)))
			} else {
				check.Flags = append(check.Flags, err.Error())
			}
			checks = append(checks, check)
			continue
		}

		check.Mean = rep.Mean
		check.StdDev = rep.StdDev
		check.Outliers = len(rep.Outliers)
		check.Usable = true

		if rep.Variance == 0 {
			check.Flags = append(check.Flags, "zero variance")
		}
		if rep.Quartiles == nil {
			check.Flags = append(check.Flags, "quartiles unavailable (n < 4)")
		}

		checks = append(checks, check)
	}
	return checks
}

func printReport(file string, checks []groupCheck, usable int) {
	pairs := usable * (usable - 1) / 2

	fmt.Println("=== Sample Health Report ===")
	fmt.Printf("File: %s | groups=%d | usable=%d | pairs=%d\n", file, len(checks), usable, pairs)

	fmt.Println("\n-- Groups --")
	for _, c := range checks {
		line := fmt.Sprintf("%-20s n=%-5d", c.Name, c.Count)
		if c.Usable {
			line += fmt.Sprintf(" mean=%-12.4f sd=%-12.4f outliers=%d", c.Mean, c.StdDev, c.Outliers)
		}
		if len(c.Flags) > 0 {
			line += "  [" + strings.Join(c.Flags, "; ") + "]"
		}
		fmt.Println(line)
	}

	fmt.Println("\n-- Verdict --")
	if usable >= 2 {
		fmt.Printf("ready: %d of %d groups usable for pairwise comparison\n", usable, len(checks))
	} else {
		fmt.Printf("not ready: %d of %d groups usable, need at least 2\n", usable, len(checks))
	}
}
