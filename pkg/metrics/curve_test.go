package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talhanai/ml-perf-metric/pkg/validate"
)

var (
	refLabels = []int{0, 0, 1, 1, 0, 1, 0, 1, 1, 0, 1, 0}
	refPreds  = []float64{0.1, 0.4, 0.35, 0.8, 0.5, 0.5, 0.2, 0.9, 0.65, 0.7, 0.3, 0.05}
)

func assertSlicesInDelta(t *testing.T, want, got []float64, msg string) {
	t.Helper()
	require.Len(t, got, len(want), msg)
	for i := range want {
		if math.IsInf(want[i], 1) {
			assert.True(t, math.IsInf(got[i], 1), "%s[%d] = %v, want +Inf", msg, i, got[i])
			continue
		}
		assert.InDelta(t, want[i], got[i], 1e-12, "%s[%d]", msg, i)
	}
}

func TestROC(t *testing.T) {
	c, err := GonumCurves{}.ROC(refLabels, refPreds)
	require.NoError(t, err)

	assertSlicesInDelta(t, []float64{0, 0, 0, 1.0 / 6, 1.0 / 6, 1.0 / 3, 0.5, 0.5, 1}, c.FPR, "fpr")
	assertSlicesInDelta(t, []float64{0, 1.0 / 6, 1.0 / 3, 1.0 / 3, 0.5, 2.0 / 3, 2.0 / 3, 1, 1}, c.TPR, "tpr")
	assertSlicesInDelta(t, []float64{math.Inf(1), 0.9, 0.8, 0.7, 0.65, 0.5, 0.4, 0.3, 0.05}, c.Thresholds, "thresholds")
}

func TestROCDropsCollinearPoints(t *testing.T) {
	c, err := GonumCurves{}.ROC([]int{0, 1, 0, 1, 0, 1}, []float64{0.1, 0.1, 0.5, 0.5, 0.9, 0.9})
	require.NoError(t, err)

	assertSlicesInDelta(t, []float64{0, 1.0 / 3, 1}, c.FPR, "fpr")
	assertSlicesInDelta(t, []float64{0, 1.0 / 3, 1}, c.TPR, "tpr")
	assertSlicesInDelta(t, []float64{math.Inf(1), 0.9, 0.1}, c.Thresholds, "thresholds")

	auc, err := GonumCurves{}.AUC(c.FPR, c.TPR)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, auc, 1e-12)
}

func TestROCDoesNotMutateInput(t *testing.T) {
	preds := append([]float64(nil), refPreds...)
	labels := append([]int(nil), refLabels...)
	_, err := GonumCurves{}.ROC(labels, preds)
	require.NoError(t, err)
	assert.Equal(t, refPreds, preds)
	assert.Equal(t, refLabels, labels)
}

// lowFPRSample has 100 negatives and 2 positives: one negative outranks
// both positives and four more sit between them.
func lowFPRSample() ([]float64, []int) {
	preds := []float64{0.99, 0.98, 0.97, 0.96, 0.95, 0.94, 0.93}
	labels := []int{0, 1, 0, 0, 0, 0, 1}
	for i := 0; i < 95; i++ {
		preds = append(preds, 0.005*float64(i+1))
		labels = append(labels, 0)
	}
	return preds, labels
}

func TestROCRatesAreExact(t *testing.T) {
	t.Run("origin with 49 negatives", func(t *testing.T) {
		preds := []float64{0.9, 0.8}
		labels := []int{1, 1}
		for i := 1; i <= 49; i++ {
			preds = append(preds, float64(i)/100)
			labels = append(labels, 0)
		}
		c, err := GonumCurves{}.ROC(labels, preds)
		require.NoError(t, err)
		assert.Equal(t, 0.0, c.FPR[0])
		assert.Equal(t, 0.0, c.TPR[0])

		got, err := TPRAtFPR(c, 0)
		require.NoError(t, err)
		assert.Equal(t, 1.0, got)
	})

	t.Run("fpr on the ceiling", func(t *testing.T) {
		preds, labels := lowFPRSample()
		c, err := GonumCurves{}.ROC(labels, preds)
		require.NoError(t, err)
		assert.Contains(t, c.FPR, 0.01)
		assert.Contains(t, c.FPR, 0.05)

		for _, tt := range []struct{ max, want float64 }{{0, 0}, {0.01, 0.5}, {0.05, 1}} {
			got, err := TPRAtFPR(c, tt.max)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "max fpr %v", tt.max)
		}
	})
}

func TestPrecisionRecall(t *testing.T) {
	c, err := GonumCurves{}.PrecisionRecall(refLabels, refPreds)
	require.NoError(t, err)

	assertSlicesInDelta(t, []float64{
		0.5, 6.0 / 11, 0.6, 2.0 / 3, 0.625, 4.0 / 7, 2.0 / 3, 0.75, 2.0 / 3, 1, 1, 1,
	}, c.Precision, "precision")
	assertSlicesInDelta(t, []float64{
		1, 1, 1, 1, 5.0 / 6, 2.0 / 3, 2.0 / 3, 0.5, 1.0 / 3, 1.0 / 3, 1.0 / 6, 0,
	}, c.Recall, "recall")
	assertSlicesInDelta(t, []float64{
		0.05, 0.1, 0.2, 0.3, 0.35, 0.4, 0.5, 0.65, 0.7, 0.8, 0.9,
	}, c.Thresholds, "thresholds")

	auc, err := GonumCurves{}.AUC(c.Recall, c.Precision)
	require.NoError(t, err)
	assert.InDelta(t, 0.7767857142857142, auc, 1e-12)
}

func TestCurvesNeedBothClasses(t *testing.T) {
	_, err := GonumCurves{}.ROC([]int{1, 1}, []float64{0.2, 0.4})
	assert.ErrorIs(t, err, validate.ErrDegenerateInput)
	_, err = GonumCurves{}.PrecisionRecall([]int{0, 0}, []float64{0.2, 0.4})
	assert.ErrorIs(t, err, validate.ErrDegenerateInput)
	_, err = GonumCurves{}.ROC([]int{1}, []float64{0.2, 0.4})
	assert.ErrorIs(t, err, validate.ErrInvalidInput)
}

func TestAUC(t *testing.T) {
	tests := []struct {
		name    string
		x, y    []float64
		want    float64
		wantErr bool
	}{
		{"increasing", []float64{0, 0.5, 1}, []float64{1, 1, 0}, 0.75, false},
		{"decreasing", []float64{1, 0.5, 0}, []float64{0, 1, 1}, 0.75, false},
		{"ties", []float64{0, 0, 1, 1}, []float64{0, 1, 1, 1}, 1, false},
		{"non monotonic", []float64{0, 1, 0.5}, []float64{1, 1, 1}, 0, true},
		{"too short", []float64{0}, []float64{1}, 0, true},
		{"length mismatch", []float64{0, 1}, []float64{1}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GonumCurves{}.AUC(tt.x, tt.y)
			if tt.wantErr {
				assert.ErrorIs(t, err, validate.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestTPRAtFPR(t *testing.T) {
	c := ROCCurve{
		FPR: []float64{0, 0, 0.01, 0.04, 0.06, 1},
		TPR: []float64{0, 0.2, 0.5, 0.7, 0.9, 1},
	}
	for _, tt := range []struct{ max, want float64 }{{0, 0.2}, {0.01, 0.5}, {0.05, 0.7}, {1, 1}} {
		got, err := TPRAtFPR(c, tt.max)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "max fpr %v", tt.max)
	}

	_, err := TPRAtFPR(ROCCurve{FPR: []float64{0.5}, TPR: []float64{1}}, 0.05)
	assert.ErrorIs(t, err, validate.ErrDegenerateInput)
}
