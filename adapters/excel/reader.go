// Package excel ingests grouped samples from spreadsheet files. The
// first row names the groups; every cell below it is one numeric
// observation for that group. CSV files take the same layout.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"promptlab/domain/core"
	"promptlab/ports"
)

// DefaultSheet is read when no sheet name is configured
const DefaultSheet = "Sheet1"

// SampleReader handles reading grouped samples from Excel and CSV files
type SampleReader struct {
	sheet string
}

var _ ports.SampleSourcePort = (*SampleReader)(nil)

// NewSampleReader creates a reader over the given sheet name. An empty
// name selects the default sheet.
func NewSampleReader(sheet string) *SampleReader {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &SampleReader{sheet: sheet}
}

// ReadGroups reads group names and their samples from the file at
// location. Group order follows column order. Blank cells are skipped;
// a non-numeric cell fails the whole read.
func (r *SampleReader) ReadGroups(ctx context.Context, location string) ([]string, map[string][]float64, error) {
	if _, err := os.Stat(location); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("sample file not found: %s", location)
	}

	var rows [][]string
	var err error

	start := time.Now()
	ext := strings.ToLower(filepath.Ext(location))
	switch ext {
	case ".csv":
		rows, err = r.readCSVRows(location)
	case ".xlsx", ".xlsm":
		rows, err = r.readExcelRows(location)
	default:
		return nil, nil, fmt.Errorf("%w: %s", core.ErrUnknownFormat, ext)
	}
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[SampleReader] %s read in %.2fms (%d rows)",
		strings.ToUpper(strings.TrimPrefix(ext, ".")), float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return r.parseGroups(rows)
}

// readExcelRows reads the configured sheet as raw string rows
func (r *SampleReader) readExcelRows(location string) ([][]string, error) {
	f, err := excelize.OpenFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", r.sheet, err)
	}
	return rows, nil
}

// readCSVRows reads a CSV file as raw string rows
func (r *SampleReader) readCSVRows(location string) ([][]string, error) {
	file, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // groups may have unequal sample counts
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// parseGroups converts raw rows into named sample groups
func (r *SampleReader) parseGroups(rows [][]string) ([]string, map[string][]float64, error) {
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("%w: need a header row and at least one data row", core.ErrNoSampleData)
	}

	header := rows[0]
	names := make([]string, 0, len(header))
	seen := make(map[string]bool, len(header))
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name == "" {
			return nil, nil, fmt.Errorf("%w: column %d", core.ErrEmptyGroupName, i+1)
		}
		if seen[name] {
			return nil, nil, core.NewValidationError("header", fmt.Sprintf("duplicate group name %q", name))
		}
		seen[name] = true
		names = append(names, name)
	}

	groups := make(map[string][]float64, len(names))
	for _, name := range names {
		groups[name] = []float64{}
	}

	for i := 1; i < len(rows); i++ {
		for j, cell := range rows[i] {
			if j >= len(names) {
				break
			}
			trimmed := strings.TrimSpace(cell)
			if trimmed == "" {
				continue
			}
			value, err := strconv.ParseFloat(trimmed, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("row %d, group %q: invalid number %q", i+1, names[j], trimmed)
			}
			groups[names[j]] = append(groups[names[j]], value)
		}
	}

	total := 0
	for _, samples := range groups {
		total += len(samples)
	}
	if total == 0 {
		return nil, nil, fmt.Errorf("%w: every cell below the header is blank", core.ErrNoSampleData)
	}

	log.Printf("[SampleReader] parsed %d groups, %d observations", len(names), total)
	return names, groups, nil
}
