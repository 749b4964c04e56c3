// Package engine implements the numerical core: descriptive statistics,
// Tukey-fence outlier detection, confidence intervals, and Welch's
// two-sample t-test with Cohen's d. Every operation is a pure function
// of its arguments; the only injectable piece is the distribution model
// behind p-values and critical values.
package engine

import (
	domainStats "promptlab/domain/stats"
	"promptlab/ports"
)

// Engine evaluates samples against a distribution model. The zero-cost
// default uses the documented approximations; swap in an exact model
// (e.g. adapters/stats/exact) for true Student-t tails.
type Engine struct {
	tails ports.DistributionPort
}

// NewEngine creates an engine over the given distribution model.
// A nil model selects the built-in approximations.
func NewEngine(tails ports.DistributionPort) *Engine {
	if tails == nil {
		tails = NewApproximateTails()
	}
	return &Engine{tails: tails}
}

// defaultEngine backs the package-level entry points. It is stateless
// and safe for concurrent use.
var defaultEngine = NewEngine(nil)

// Describe summarizes a single sample with the default engine.
func Describe(sample []float64) (domainStats.DescriptiveReport, error) {
	return defaultEngine.Describe(sample)
}

// ConfidenceInterval bounds a sample mean with the default engine.
func ConfidenceInterval(sample []float64, level float64) (domainStats.ConfidenceInterval, error) {
	return defaultEngine.ConfidenceInterval(sample, level)
}

// MeanDifferenceCI bounds the difference of two sample means with the
// default engine.
func MeanDifferenceCI(a, b []float64, alpha float64) (domainStats.ConfidenceInterval, error) {
	return defaultEngine.MeanDifferenceCI(a, b, alpha)
}

// WelchTTest runs Welch's two-sample test with the default engine.
func WelchTTest(a, b []float64, opts domainStats.Options) (domainStats.TwoSampleTestResult, error) {
	return defaultEngine.WelchTTest(a, b, opts)
}

// CompareGroups runs grouped dispatch with the default engine.
func CompareGroups(names []string, groups map[string][]float64, opts domainStats.Options) (domainStats.ComparisonReport, error) {
	return defaultEngine.CompareGroups(names, groups, opts)
}
