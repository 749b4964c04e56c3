// Package exact backs the distribution port with gonum's Student-t and
// standard normal distributions. It replaces the table-driven
// approximations when true tails are wanted; test orchestration is
// untouched by the swap.
package exact

import (
	"math"

	domainStats "promptlab/domain/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

// StudentTails computes p-values and critical values from the exact
// Student-t CDF (incomplete-beta based inside gonum) instead of the
// normal/exponential shortcuts.
type StudentTails struct{}

// NewStudentTails creates the exact distribution model.
func NewStudentTails() *StudentTails {
	return &StudentTails{}
}

// PValue evaluates the Student-t tail at df degrees of freedom. The
// two-sided value is computed from the lower tail of -|t| to keep
// precision for extreme statistics.
func (s *StudentTails) PValue(t, df float64, alt domainStats.Alternative) float64 {
	if df <= 0 {
		return 1.0
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	switch alt {
	case domainStats.Greater:
		return 1 - tDist.CDF(t)
	case domainStats.Less:
		return tDist.CDF(t)
	default:
		return 2 * tDist.CDF(-math.Abs(t))
	}
}

// CriticalValue returns the exact t-quantile for two-sided tail mass
// alphaHalf, or the normal quantile when no degrees of freedom apply.
func (s *StudentTails) CriticalValue(alphaHalf, df float64) float64 {
	if alphaHalf <= 0 || alphaHalf >= 1 {
		alphaHalf = 0.025
	}
	if df > 0 {
		return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(1 - alphaHalf)
	}
	return distuv.UnitNormal.Quantile(1 - alphaHalf)
}
