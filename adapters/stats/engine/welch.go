package engine

import (
	"math"

	"promptlab/domain/core"
	domainStats "promptlab/domain/stats"

	"github.com/montanaflynn/stats"
)

// WelchTTest compares two sample means without assuming equal
// variances. The p-value comes from the engine's distribution model at
// the Welch-Satterthwaite degrees of freedom; effect size is Cohen's d
// on the pooled standard deviation. Swapping the inputs negates t, the
// mean difference, and d, and leaves df and the two-sided p unchanged.
func (e *Engine) WelchTTest(a, b []float64, opts domainStats.Options) (domainStats.TwoSampleTestResult, error) {
	var zero domainStats.TwoSampleTestResult

	if err := opts.Validate(); err != nil {
		return zero, err
	}
	if len(a) < 2 || len(b) < 2 {
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		return zero, core.NewInsufficientDataError("welch t-test", n, 2)
	}

	meanA, _ := stats.Mean(a)
	meanB, _ := stats.Mean(b)
	varA, _ := stats.SampleVariance(a)
	varB, _ := stats.SampleVariance(b)
	nA := float64(len(a))
	nB := float64(len(b))

	se := math.Sqrt(varA/nA + varB/nB)
	if se == 0 {
		// Two constant samples: t and d are undefined. Report, don't Inf.
		return zero, core.ErrDegenerateSamples
	}

	tStat := (meanA - meanB) / se

	df := math.Pow(varA/nA+varB/nB, 2) /
		(math.Pow(varA/nA, 2)/(nA-1) + math.Pow(varB/nB, 2)/(nB-1))

	pValue := e.tails.PValue(tStat, df, opts.Alternative)

	pooledSD := math.Sqrt(((nA-1)*varA + (nB-1)*varB) / (nA + nB - 2))
	effectSize := (meanA - meanB) / pooledSD

	diffCI, err := e.MeanDifferenceCI(a, b, opts.Alpha)
	if err != nil {
		return zero, err
	}

	return domainStats.TwoSampleTestResult{
		TStatistic:     tStat,
		DF:             df,
		PValue:         pValue,
		Significant:    pValue < opts.Alpha,
		EffectSize:     effectSize,
		MeanDifference: meanA - meanB,
		DifferenceCI:   diffCI,
		Alternative:    opts.Alternative,
		// df at or below 30 is the regime where the default model
		// switches to its exponential shortcut.
		Approximate: df <= 30,
	}, nil
}
