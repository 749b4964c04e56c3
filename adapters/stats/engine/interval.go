package engine

import (
	"math"

	"promptlab/domain/core"
	domainStats "promptlab/domain/stats"

	"github.com/montanaflynn/stats"
)

// ConfidenceInterval bounds the sample mean at the given confidence
// level. The critical value comes from the engine's distribution model
// keyed by alpha/2, with the model's small-sample handling applied at
// df = n-1.
func (e *Engine) ConfidenceInterval(sample []float64, level float64) (domainStats.ConfidenceInterval, error) {
	n := len(sample)
	if n < 2 {
		return domainStats.ConfidenceInterval{}, core.NewInsufficientDataError("confidence interval", n, 2)
	}
	if level <= 0 || level >= 1 {
		return domainStats.ConfidenceInterval{}, core.ErrInvalidLevel
	}

	mean, _ := stats.Mean(sample)
	stdDev, _ := stats.StandardDeviationSample(sample)

	alpha := 1 - level
	crit := e.tails.CriticalValue(alpha/2, float64(n-1))
	margin := crit * stdDev / math.Sqrt(float64(n))

	return domainStats.ConfidenceInterval{
		Level:      level,
		SampleSize: n,
		Mean:       mean,
		StdDev:     stdDev,
		Margin:     margin,
		Lower:      mean - margin,
		Upper:      mean + margin,
	}, nil
}

// MeanDifferenceCI bounds meanA - meanB using the pooled standard
// error sqrt(varA/nA + varB/nB) and a normal critical value from the
// same alpha/2 table as the single-sample path. No degrees-of-freedom
// deflation on this path. The record reuses the interval shape: Mean
// holds the difference, StdDev the pooled standard error.
func (e *Engine) MeanDifferenceCI(a, b []float64, alpha float64) (domainStats.ConfidenceInterval, error) {
	if len(a) < 2 || len(b) < 2 {
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		return domainStats.ConfidenceInterval{}, core.NewInsufficientDataError("mean difference interval", n, 2)
	}
	if alpha <= 0 || alpha >= 1 {
		return domainStats.ConfidenceInterval{}, core.ErrInvalidAlpha
	}

	meanA, _ := stats.Mean(a)
	meanB, _ := stats.Mean(b)
	varA, _ := stats.SampleVariance(a)
	varB, _ := stats.SampleVariance(b)
	nA := float64(len(a))
	nB := float64(len(b))

	se := math.Sqrt(varA/nA + varB/nB)
	crit := e.tails.CriticalValue(alpha/2, 0)
	margin := crit * se
	diff := meanA - meanB

	return domainStats.ConfidenceInterval{
		Level:      1 - alpha,
		SampleSize: len(a) + len(b),
		Mean:       diff,
		StdDev:     se,
		Margin:     margin,
		Lower:      diff - margin,
		Upper:      diff + margin,
	}, nil
}
