// Package fixtures generates sample workbooks for the CLI and demos:
// one metric per file, one variant group per column, in the layout the
// sample reader ingests. Same seed, same file.
package fixtures

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"promptlab/internal/simulation"
)

// Workbook is the in-memory form of a generated sample file: a header
// row of group names and one observation column per group. The numeric
// series are kept alongside the formatted rows for validation.
type Workbook struct {
	Headers []string
	Rows    [][]string
	Groups  map[string][]float64
}

type Config struct {
	Metric       string
	Variants     []simulation.Variant
	Observations int
	Seed         int64
}

func DefaultConfig() Config {
	return Config{
		Metric: "latency_ms",
		Variants: []simulation.Variant{
			{Name: "control"},
			{Name: "treatment"},
		},
		Observations: 30,
		Seed:         42,
	}
}

func Generate(ctx context.Context, cfg Config) (*Workbook, error) {
	if cfg.Observations <= 0 {
		return nil, fmt.Errorf("observations must be > 0")
	}
	if len(cfg.Variants) == 0 {
		return nil, fmt.Errorf("at least one variant is required")
	}

	gen := simulation.NewGenerator(simulation.NewRNGAdapter(), cfg.Seed)
	names, groups, err := gen.SampleGroups(ctx, cfg.Metric, cfg.Variants, cfg.Observations)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, cfg.Observations)
	for r := 0; r < cfg.Observations; r++ {
		row := make([]string, len(names))
		for c, name := range names {
			row[c] = fToStr(groups[name][r], 4)
		}
		rows[r] = row
	}

	return &Workbook{Headers: names, Rows: rows, Groups: groups}, nil
}

func WriteCSV(path string, wb *Workbook) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(wb.Headers); err != nil {
		return err
	}
	for _, row := range wb.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func WriteXLSX(path string, wb *Workbook) error {
	f := excelize.NewFile()

	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	for i, h := range wb.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r := 0; r < len(wb.Rows); r++ {
		rowIdx := r + 2
		for c, v := range wb.Rows[r] {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

func fToStr(x float64, decimals int) string {
	p := math.Pow10(decimals)
	x = math.Round(x*p) / p
	return strconv.FormatFloat(x, 'f', decimals, 64)
}
