// Package calibration implements the Hosmer-Lemeshow goodness-of-fit test
// for binary probabilistic classifiers.
//
// Predictions are split into equal-width bins over [min, max]. Each bin is
// half-open, [lower, upper), so samples whose prediction equals the maximum
// fall outside every bin and do not contribute to the statistic. This is a
// known quirk of the reference computation and is kept so results stay
// comparable with earlier runs. Result.Excluded reports how many samples
// were dropped this way.
//
// Bins whose statistic is NaN or infinite (an expected count of zero) are
// left out of the total and counted in Result.NonFinite. A nansum-based
// computation keeps infinite terms, so where it reports a statistic of +Inf
// and a p-value of 0, this package reports the sum of the finite bins
// instead.
package calibration

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/talhanai/ml-perf-metric/pkg/stats"
	"github.com/talhanai/ml-perf-metric/pkg/validate"
)

// DefaultBins is the bin count used when none is configured.
const DefaultBins = 10

// Bin holds the observed and expected outcome counts for one probability
// interval.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`

	ObservedPositive int     `json:"observed_positive"`
	ObservedNegative int     `json:"observed_negative"`
	ExpectedPositive float64 `json:"expected_positive"`
	ExpectedNegative float64 `json:"expected_negative"`

	// Statistic is NaN or infinite when an expected count is zero.
	Statistic float64 `json:"statistic"`
}

// Result is the outcome of a Hosmer-Lemeshow test.
type Result struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Width float64 `json:"width"`
	Bins  []Bin   `json:"bins"`

	Statistic        float64 `json:"statistic"`
	DegreesOfFreedom int     `json:"degrees_of_freedom"`
	PValue           float64 `json:"p_value"`

	// Excluded counts samples that fell in no bin.
	Excluded int `json:"excluded"`
	// NonFinite counts bins whose statistic was skipped.
	NonFinite int `json:"non_finite"`
}

// Calibrated reports whether the p-value exceeds the significance level.
func (r *Result) Calibrated(alpha float64) bool {
	return r.PValue > alpha
}

// Tester runs Hosmer-Lemeshow tests. It holds no mutable state and is safe
// for concurrent use.
type Tester struct {
	bins   int
	dist   stats.DistributionFunc
	logger *zap.Logger
}

// Option configures a Tester.
type Option func(*Tester)

// WithBins sets the number of bins. Values below 3 make Test fail.
func WithBins(n int) Option {
	return func(t *Tester) { t.bins = n }
}

// WithDistribution replaces the chi-square distribution used to turn the
// statistic into a p-value.
func WithDistribution(fn stats.DistributionFunc) Option {
	return func(t *Tester) {
		if fn != nil {
			t.dist = fn
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tester) {
		if l != nil {
			t.logger = l
		}
	}
}

// New returns a Tester with DefaultBins bins and a gonum chi-square
// distribution.
func New(opts ...Option) *Tester {
	t := &Tester{
		bins:   DefaultBins,
		dist:   stats.ChiSquared,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Bins returns the configured bin count.
func (t *Tester) Bins() int { return t.bins }

// HLTest returns the Hosmer-Lemeshow p-value for yPred against yTrue using
// nBins bins. Labels equal to 1 are positive, anything else negative.
func HLTest(yTrue []int, yPred []float64, nBins int) (float64, error) {
	res, err := New(WithBins(nBins)).Test(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return res.PValue, nil
}

// Test bins the predictions and computes the Hosmer-Lemeshow statistic and
// its p-value with bins-2 degrees of freedom.
func (t *Tester) Test(yTrue []int, yPred []float64) (*Result, error) {
	if err := validate.Bins(t.bins); err != nil {
		return nil, err
	}
	if err := validate.Pair(yTrue, yPred); err != nil {
		return nil, err
	}

	predMin, predMax := stats.MinMax(yPred)
	if predMin == predMax {
		return nil, fmt.Errorf("%w: all %d predictions equal %v, bin width is zero",
			validate.ErrDegenerateInput, len(yPred), predMin)
	}
	width := (predMax - predMin) / float64(t.bins)

	res := &Result{
		Min:              predMin,
		Max:              predMax,
		Width:            width,
		Bins:             make([]Bin, t.bins),
		DegreesOfFreedom: t.bins - 2,
	}
	for i := range res.Bins {
		// The explicit conversions keep the product from being fused into
		// the addition, so bounds match on every architecture.
		res.Bins[i].Lower = predMin + float64(float64(i)*width)
		res.Bins[i].Upper = predMin + float64(float64(i+1)*width)
	}

	members := make([][]float64, t.bins)
	for j, p := range yPred {
		i := binIndex(res.Bins, p)
		if i < 0 {
			res.Excluded++
			continue
		}
		b := &res.Bins[i]
		b.Count++
		members[i] = append(members[i], p)
		if yTrue[j] == 1 {
			b.ObservedPositive++
		} else {
			b.ObservedNegative++
		}
	}

	h := make([]float64, len(res.Bins))
	for i := range res.Bins {
		b := &res.Bins[i]
		b.ExpectedPositive = stats.Sum(members[i])
		b.ExpectedNegative = float64(b.Count) - b.ExpectedPositive
		dPos := float64(b.ObservedPositive) - b.ExpectedPositive
		dNeg := float64(b.ObservedNegative) - b.ExpectedNegative
		b.Statistic = dPos*dPos/b.ExpectedPositive + dNeg*dNeg/b.ExpectedNegative
		h[i] = b.Statistic
		if math.IsNaN(b.Statistic) || math.IsInf(b.Statistic, 0) {
			t.logger.Debug("skipping non-finite bin statistic",
				zap.Int("bin", i),
				zap.Int("count", b.Count),
				zap.Float64("expected_positive", b.ExpectedPositive),
				zap.Float64("expected_negative", b.ExpectedNegative))
		}
	}
	res.Statistic, res.NonFinite = stats.NanSum(h)

	res.PValue = 1 - t.dist(float64(res.DegreesOfFreedom)).CDF(res.Statistic)

	t.logger.Debug("hosmer-lemeshow test",
		zap.Int("samples", len(yPred)),
		zap.Int("bins", t.bins),
		zap.Int("excluded", res.Excluded),
		zap.Int("non_finite_bins", res.NonFinite),
		zap.Float64("statistic", res.Statistic),
		zap.Float64("p_value", res.PValue))
	return res, nil
}

// binIndex returns the bin whose half-open interval holds p, or -1.
// Adjacent bins share the same computed bound, so intervals never overlap.
func binIndex(bins []Bin, p float64) int {
	for i := range bins {
		if p >= bins[i].Lower && p < bins[i].Upper {
			return i
		}
	}
	return -1
}
