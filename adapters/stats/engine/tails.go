package engine

import (
	"math"

	domainStats "promptlab/domain/stats"
)

// normalQuantiles maps two-sided tail mass (alpha/2) to its standard
// normal quantile. Unknown masses fall back to the 95% value, the same
// behavior the interval path has always had.
var normalQuantiles = []struct {
	alphaHalf float64
	z         float64
}{
	{0.005, 2.576},
	{0.01, 2.326},
	{0.025, 1.96},
	{0.05, 1.645},
}

// quantileEpsilon absorbs float drift in alpha arithmetic: 1-0.95 is
// not bit-equal to 0.05, so exact-match lookups need slack.
const quantileEpsilon = 1e-9

func baseQuantile(alphaHalf float64) float64 {
	for _, q := range normalQuantiles {
		if math.Abs(q.alphaHalf-alphaHalf) < quantileEpsilon {
			return q.z
		}
	}
	return 1.96
}

// ApproximateTails is the default distribution model: an erf-based
// normal CDF for large df, the exponential small-sample shortcut below
// it, and table quantiles with a small-df deflation. All three are
// documented approximations kept verbatim for compatibility; substitute
// an exact model where accuracy matters more than reproducing them.
type ApproximateTails struct{}

// NewApproximateTails creates the default approximation model.
func NewApproximateTails() *ApproximateTails {
	return &ApproximateTails{}
}

// PValue treats t as a standard normal deviate above 30 degrees of
// freedom. At or below 30 it uses p = exp(-0.717*|t| - 0.416*t^2),
// clamped to [0,1]. The shortcut is direction-free and applies to every
// alternative; its reduced precision is a documented trade, not an error.
func (a *ApproximateTails) PValue(t, df float64, alt domainStats.Alternative) float64 {
	if df > 30 {
		switch alt {
		case domainStats.Greater:
			return 1 - normalCDF(t)
		case domainStats.Less:
			return normalCDF(t)
		default:
			return 2 * (1 - normalCDF(math.Abs(t)))
		}
	}

	p := math.Exp(-0.717*math.Abs(t) - 0.416*t*t)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// CriticalValue looks up the normal quantile for alphaHalf. Fewer than
// 30 degrees of freedom widen it by the sqrt((df+1)/(df+3)) deflation,
// an approximation of a t-quantile rather than a true t-table lookup.
// df <= 0 requests the plain normal limit.
func (a *ApproximateTails) CriticalValue(alphaHalf, df float64) float64 {
	crit := baseQuantile(alphaHalf)
	if df > 0 && df < 30 {
		adjustment := math.Sqrt((df + 1) / (df + 3))
		crit = crit / adjustment
	}
	return crit
}

// normalCDF is Phi(z) via the error function.
func normalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}
