package engine

import (
	"fmt"

	"promptlab/domain/core"
	domainStats "promptlab/domain/stats"
)

// CompareGroups is the grouped dispatcher: it describes every named
// group and tests the first group (the baseline) against each of the
// others with the configured two-sample test. Group order follows
// names; every name must exist in groups. Undersized samples and
// unsupported selectors surface as structured errors naming the group
// or option, never as panics.
func (e *Engine) CompareGroups(names []string, groups map[string][]float64, opts domainStats.Options) (domainStats.ComparisonReport, error) {
	var zero domainStats.ComparisonReport

	if err := opts.Validate(); err != nil {
		return zero, err
	}
	if len(names) == 0 {
		return zero, core.NewInsufficientDataError("group comparison", 0, 1)
	}

	reports := make([]domainStats.GroupReport, 0, len(names))
	for _, name := range names {
		sample, ok := groups[name]
		if !ok {
			return zero, core.NewValidationError("groups", fmt.Sprintf("no sample for group %q", name))
		}
		report, err := e.Describe(sample)
		if err != nil {
			return zero, fmt.Errorf("group %q: %w", name, err)
		}
		reports = append(reports, domainStats.GroupReport{Group: name, Report: report})
	}

	baseline := names[0]
	comparisons := make([]domainStats.Comparison, 0, len(names)-1)
	for _, name := range names[1:] {
		result, err := e.WelchTTest(groups[baseline], groups[name], opts)
		if err != nil {
			return zero, fmt.Errorf("%s vs %s: %w", baseline, name, err)
		}
		comparisons = append(comparisons, domainStats.Comparison{
			Baseline: baseline,
			Against:  name,
			Result:   result,
		})
	}

	return domainStats.ComparisonReport{
		Reports:     reports,
		Comparisons: comparisons,
		Options:     opts,
	}, nil
}
