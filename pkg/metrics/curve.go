package metrics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/talhanai/ml-perf-metric/pkg/validate"
)

// ROCCurve is a receiver operating characteristic curve. Point i holds the
// rates obtained by predicting positive for scores >= Thresholds[i]. The
// first point is always (0, 0) at +Inf.
type ROCCurve struct {
	FPR        []float64
	TPR        []float64
	Thresholds []float64
}

// PRCurve is a precision/recall curve ordered by decreasing recall and
// terminated by the (recall 0, precision 1) point, which has no threshold.
type PRCurve struct {
	Precision  []float64
	Recall     []float64
	Thresholds []float64
}

// CurveProvider computes the ranking curves and areas the aggregator derives
// its discrimination metrics from.
type CurveProvider interface {
	ROC(yTrue []int, yScore []float64) (ROCCurve, error)
	PrecisionRecall(yTrue []int, yScore []float64) (PRCurve, error)
	AUC(x, y []float64) (float64, error)
}

// GonumCurves is the default CurveProvider, built on gonum's stat and
// integrate packages.
type GonumCurves struct{}

var _ CurveProvider = GonumCurves{}

// ranking is the undropped ROC over every distinct score together with the
// class totals needed to recover counts from rates.
type ranking struct {
	tpr, fpr, thresh []float64
	pos, neg         int
}

func rank(yTrue []int, yScore []float64) (ranking, error) {
	if len(yTrue) != len(yScore) || len(yTrue) == 0 {
		return ranking{}, fmt.Errorf("%w: %d labels for %d scores", validate.ErrInvalidInput, len(yTrue), len(yScore))
	}
	y := make([]float64, len(yScore))
	copy(y, yScore)
	classes := make([]bool, len(yTrue))
	var r ranking
	for i, l := range yTrue {
		classes[i] = l == Positive
		if classes[i] {
			r.pos++
		} else {
			r.neg++
		}
	}
	if r.pos == 0 || r.neg == 0 {
		return ranking{}, fmt.Errorf("%w: curve needs both classes (positives=%d, negatives=%d)",
			validate.ErrDegenerateInput, r.pos, r.neg)
	}
	stat.SortWeightedLabeled(y, classes, nil)
	r.tpr, r.fpr, r.thresh = stat.ROC(nil, y, classes, nil)
	return r, nil
}

// counts converts the rate at index i back to true and false positive
// counts.
func (r ranking) counts(i int) (tp, fp float64) {
	return math.Round(r.tpr[i] * float64(r.pos)), math.Round(r.fpr[i] * float64(r.neg))
}

// ROC returns the curve with collinear intermediate points removed. Removing
// them leaves the area unchanged.
func (GonumCurves) ROC(yTrue []int, yScore []float64) (ROCCurve, error) {
	r, err := rank(yTrue, yScore)
	if err != nil {
		return ROCCurve{}, err
	}

	keep := []int{0}
	last := len(r.thresh) - 1
	for i := 1; i <= last; i++ {
		if i == 1 || i == last {
			keep = append(keep, i)
			continue
		}
		tpPrev, fpPrev := r.counts(i - 1)
		tp, fp := r.counts(i)
		tpNext, fpNext := r.counts(i + 1)
		if tpNext-2*tp+tpPrev != 0 || fpNext-2*fp+fpPrev != 0 {
			keep = append(keep, i)
		}
	}

	c := ROCCurve{
		FPR:        make([]float64, len(keep)),
		TPR:        make([]float64, len(keep)),
		Thresholds: make([]float64, len(keep)),
	}
	for j, i := range keep {
		// Rates are rebuilt from the counts; stat.ROC's 1-k/n rounding can
		// leave the origin at 1e-16 or push k/n just above a threshold.
		tp, fp := r.counts(i)
		c.FPR[j] = fp / float64(r.neg)
		c.TPR[j] = tp / float64(r.pos)
		c.Thresholds[j] = r.thresh[i]
	}
	return c, nil
}

// PrecisionRecall returns one point per distinct score.
func (GonumCurves) PrecisionRecall(yTrue []int, yScore []float64) (PRCurve, error) {
	r, err := rank(yTrue, yScore)
	if err != nil {
		return PRCurve{}, err
	}

	n := len(r.thresh) - 1
	c := PRCurve{
		Precision:  make([]float64, 0, n+1),
		Recall:     make([]float64, 0, n+1),
		Thresholds: make([]float64, 0, n),
	}
	for i := n; i >= 1; i-- {
		tp, fp := r.counts(i)
		c.Precision = append(c.Precision, tp/(tp+fp))
		c.Recall = append(c.Recall, tp/float64(r.pos))
		c.Thresholds = append(c.Thresholds, r.thresh[i])
	}
	c.Precision = append(c.Precision, 1)
	c.Recall = append(c.Recall, 0)
	return c, nil
}

// AUC integrates y over x with the trapezoidal rule. x must be monotonic;
// a decreasing x is integrated in reverse so the area stays positive.
func (GonumCurves) AUC(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("%w: auc needs equal lengths, got x=%d y=%d", validate.ErrInvalidInput, len(x), len(y))
	}
	if len(x) < 2 {
		return 0, fmt.Errorf("%w: auc needs at least 2 points, got %d", validate.ErrInvalidInput, len(x))
	}
	if sort.Float64sAreSorted(x) {
		return integrate.Trapezoidal(x, y), nil
	}

	rx := make([]float64, len(x))
	ry := make([]float64, len(y))
	copy(rx, x)
	copy(ry, y)
	floats.Reverse(rx)
	floats.Reverse(ry)
	if !sort.Float64sAreSorted(rx) {
		return 0, fmt.Errorf("%w: auc needs monotonic x", validate.ErrInvalidInput)
	}
	return integrate.Trapezoidal(rx, ry), nil
}

// TPRAtFPR returns the highest true positive rate among the curve points
// whose false positive rate does not exceed maxFPR.
func TPRAtFPR(c ROCCurve, maxFPR float64) (float64, error) {
	best, found := 0.0, false
	for i, f := range c.FPR {
		if f <= maxFPR && (!found || c.TPR[i] > best) {
			best, found = c.TPR[i], true
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: no roc point with fpr <= %v", validate.ErrDegenerateInput, maxFPR)
	}
	return best, nil
}
