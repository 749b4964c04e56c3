package ports

import (
	"context"
)

// SampleSourcePort loads named sample groups from an external source
// (spreadsheet, CSV, simulation). Group order is preserved by the
// returned name slice; the map carries the raw values.
type SampleSourcePort interface {
	ReadGroups(ctx context.Context, location string) (names []string, groups map[string][]float64, err error)
}
