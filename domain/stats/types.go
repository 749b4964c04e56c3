package stats

import (
	"promptlab/domain/core"
)

// ============================================================================
// RESULT RECORDS (immutable, created fresh per call)
// ============================================================================

// Quartiles holds the three quartile cuts and their spread.
// Defined only for samples with n >= 4; callers receive an error otherwise.
type Quartiles struct {
	Q1  float64 `json:"q1"`
	Q2  float64 `json:"q2"` // median by the position formula, may differ from Median for even n
	Q3  float64 `json:"q3"`
	IQR float64 `json:"iqr"`
}

// DescriptiveReport summarizes a single sample.
// Mode is the set of ALL values at peak frequency; ties are preserved.
// Quartiles is nil when the sample is too small (n < 4) for the
// position formula; Outliers is empty in that case.
type DescriptiveReport struct {
	Count     int        `json:"count"`
	Mean      float64    `json:"mean"`
	Median    float64    `json:"median"`
	Mode      []float64  `json:"mode"`
	StdDev    float64    `json:"std_dev"`
	Variance  float64    `json:"variance"` // sample variance, n-1 denominator
	Min       float64    `json:"min"`
	Max       float64    `json:"max"`
	Range     float64    `json:"range"`
	Quartiles *Quartiles `json:"quartiles,omitempty"`
	Outliers  []float64  `json:"outliers"` // values outside the 1.5*IQR Tukey fence
	Shape     Shape      `json:"shape"`
}

// ConfidenceInterval bounds a single sample mean.
// The critical value is a table quantile with a small-sample deflation,
// an approximation of a t-quantile rather than an exact lookup.
type ConfidenceInterval struct {
	Level      float64 `json:"level"` // confidence level in (0,1)
	SampleSize int     `json:"sample_size"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Margin     float64 `json:"margin"`
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
}

// TwoSampleTestResult is the outcome of Welch's t-test between two samples.
// INVARIANTS:
// - PValue always in [0,1]
// - DF > 0 whenever both samples have n >= 2
// - Significant == (PValue < the alpha the test ran with)
type TwoSampleTestResult struct {
	TStatistic     float64            `json:"t_statistic"`
	DF             float64            `json:"df"` // Welch-Satterthwaite, fractional
	PValue         float64            `json:"p_value"`
	Significant    bool               `json:"significant"`
	EffectSize     float64            `json:"effect_size"` // Cohen's d, pooled SD
	MeanDifference float64            `json:"mean_difference"`
	DifferenceCI   ConfidenceInterval `json:"difference_ci"`
	Alternative    Alternative        `json:"alternative"`
	Approximate    bool               `json:"approximate"` // true when the small-df p shortcut was used
}

// GroupReport pairs a group name with its descriptive summary.
type GroupReport struct {
	Group  string            `json:"group"`
	Report DescriptiveReport `json:"report"`
}

// Comparison is one pairwise test between a baseline group and another.
type Comparison struct {
	Baseline string              `json:"baseline"`
	Against  string              `json:"against"`
	Result   TwoSampleTestResult `json:"result"`
}

// ComparisonReport is the assembled output of grouped dispatch: one
// descriptive report per group plus every baseline comparison, with the
// options the evaluation ran under.
type ComparisonReport struct {
	Reports     []GroupReport `json:"reports"`
	Comparisons []Comparison  `json:"comparisons"`
	Options     Options       `json:"options"`
}

// ============================================================================
// OPTIONS
// ============================================================================

// TestType selects the two-sample test in grouped dispatch.
type TestType string

const (
	TestWelch TestType = "welch_ttest"
	// TestTTest is accepted as an alias; the engine always runs Welch's
	// unequal-variance form.
	TestTTest TestType = "ttest"
)

// Alternative selects the tail(s) of the hypothesis test.
type Alternative string

const (
	TwoSided Alternative = "two_sided"
	Greater  Alternative = "greater"
	Less     Alternative = "less"
)

// Shape labels the skew direction of a sample.
type Shape string

const (
	ShapeSymmetric    Shape = "symmetric"
	ShapeRightSkewed  Shape = "right_skewed"
	ShapeLeftSkewed   Shape = "left_skewed"
	ShapeInsufficient Shape = "insufficient_data"
)

// Options is the per-call configuration record. The engine holds no
// other configuration and no global state.
type Options struct {
	ConfidenceLevel float64     `json:"confidence_level"`
	TestType        TestType    `json:"test_type"`
	Alpha           float64     `json:"alpha"`
	Alternative     Alternative `json:"alternative"`
}

// DefaultOptions returns the conventional 95% / 0.05 two-sided setup.
func DefaultOptions() Options {
	return Options{
		ConfidenceLevel: 0.95,
		TestType:        TestWelch,
		Alpha:           0.05,
		Alternative:     TwoSided,
	}
}

// Validate checks every option field and reports the first offender.
func (o Options) Validate() error {
	if o.ConfidenceLevel <= 0 || o.ConfidenceLevel >= 1 {
		return core.ErrInvalidLevel
	}
	if o.Alpha <= 0 || o.Alpha >= 1 {
		return core.ErrInvalidAlpha
	}
	switch o.TestType {
	case TestWelch, TestTTest:
	default:
		return core.NewUnsupportedOptionError("test_type", string(o.TestType))
	}
	switch o.Alternative {
	case TwoSided, Greater, Less:
	default:
		return core.NewUnsupportedOptionError("alternative", string(o.Alternative))
	}
	return nil
}
