package run

import (
	"sort"

	"promptlab/domain/core"
	"promptlab/domain/stats"
)

// Run is one persisted evaluation: grouped samples fed through the
// statistics engine, with per-group reports and pairwise comparisons.
// Immutable once assembled.
type Run struct {
	ID          core.RunID          `json:"id"`
	Label       string              `json:"label"`
	Fingerprint core.Fingerprint    `json:"fingerprint"`
	Options     stats.Options       `json:"options"`
	Reports     []stats.GroupReport `json:"reports"`
	Comparisons []stats.Comparison  `json:"comparisons"`
	CreatedAt   core.Timestamp      `json:"created_at"`
}

// New assembles a run record from engine outputs. The fingerprint is
// computed from the raw input groups so replays of identical data are
// recognizable.
func New(label string, groups map[string][]float64, opts stats.Options,
	reports []stats.GroupReport, comparisons []stats.Comparison) Run {

	return Run{
		ID:          core.RunID(core.NewID()),
		Label:       label,
		Fingerprint: core.ComputeSampleFingerprint(groups),
		Options:     opts,
		Reports:     reports,
		Comparisons: comparisons,
		CreatedAt:   core.Now(),
	}
}

// GroupNames returns the report group names in stored order.
func (r Run) GroupNames() []string {
	names := make([]string, 0, len(r.Reports))
	for _, gr := range r.Reports {
		names = append(names, gr.Group)
	}
	return names
}

// SignificantComparisons filters comparisons whose test rejected at the
// run's alpha.
func (r Run) SignificantComparisons() []stats.Comparison {
	out := make([]stats.Comparison, 0, len(r.Comparisons))
	for _, c := range r.Comparisons {
		if c.Result.Significant {
			out = append(out, c)
		}
	}
	return out
}

// SortedGroupNames returns group names alphabetically, for stable
// rendering regardless of insertion order.
func (r Run) SortedGroupNames() []string {
	names := r.GroupNames()
	sort.Strings(names)
	return names
}
