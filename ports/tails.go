package ports

import (
	"promptlab/domain/stats"
)

// DistributionPort supplies tail probabilities and critical values to
// the hypothesis and interval paths. The engine's default implementation
// uses the documented approximations (erf-based normal CDF, exponential
// small-df shortcut, fixed quantile table); an exact Student-t model can
// be substituted without touching test orchestration.
type DistributionPort interface {
	// PValue converts a t statistic with df degrees of freedom into a
	// p-value under the given alternative.
	PValue(t, df float64, alt stats.Alternative) float64

	// CriticalValue returns the critical value for two-sided tail mass
	// alphaHalf at df degrees of freedom. df <= 0 requests the normal
	// limit with no small-sample adjustment.
	CriticalValue(alphaHalf, df float64) float64
}
