// Package metrics evaluates a binary probabilistic classifier from its
// predicted probabilities and the true labels, combining discrimination
// metrics (ROC and precision/recall areas, F1, accuracy) with calibration
// metrics (Brier score and the Hosmer-Lemeshow p-value).
//
// Hard predictions are obtained by rounding half to even, so a probability
// of exactly 0.5 counts as a negative prediction.
package metrics

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/talhanai/ml-perf-metric/pkg/calibration"
	"github.com/talhanai/ml-perf-metric/pkg/validate"
)

// Result keys.
const (
	KeyAUC     = "auc"
	KeyF1Bin   = "f1_bin"
	KeyF1Micro = "f1_micro"
	KeyF1Macro = "f1_macro"
	KeyTPRFPR0 = "tpr_fpr0"
	KeyTPRFPR1 = "tpr_fpr1"
	KeyTPRFPR5 = "tpr_fpr5"
	KeyAUCPRC  = "auc_prc"
	KeyPrec    = "prec"
	KeyRec     = "rec"
	KeyAcc     = "acc"
	KeyAccNorm = "acc_norm"
	KeyBrier   = "brier"
	KeyHLTest  = "hltest"
)

// Result holds one evaluation. Acc is a count stored as float64 so that every
// metric shares one type.
type Result struct {
	AUC     float64 `json:"auc"`
	F1Bin   float64 `json:"f1_bin"`
	F1Micro float64 `json:"f1_micro"`
	F1Macro float64 `json:"f1_macro"`
	TPRFPR0 float64 `json:"tpr_fpr0"`
	TPRFPR1 float64 `json:"tpr_fpr1"`
	TPRFPR5 float64 `json:"tpr_fpr5"`
	AUCPRC  float64 `json:"auc_prc"`
	Prec    float64 `json:"prec"`
	Rec     float64 `json:"rec"`
	Acc     float64 `json:"acc"`
	AccNorm float64 `json:"acc_norm"`
	Brier   float64 `json:"brier"`
	HLTest  float64 `json:"hltest"`
}

// Map returns the result keyed by metric name.
func (r *Result) Map() map[string]float64 {
	return map[string]float64{
		KeyAUC:     r.AUC,
		KeyF1Bin:   r.F1Bin,
		KeyF1Micro: r.F1Micro,
		KeyF1Macro: r.F1Macro,
		KeyTPRFPR0: r.TPRFPR0,
		KeyTPRFPR1: r.TPRFPR1,
		KeyTPRFPR5: r.TPRFPR5,
		KeyAUCPRC:  r.AUCPRC,
		KeyPrec:    r.Prec,
		KeyRec:     r.Rec,
		KeyAcc:     r.Acc,
		KeyAccNorm: r.AccNorm,
		KeyBrier:   r.Brier,
		KeyHLTest:  r.HLTest,
	}
}

// Aggregator computes Results. It holds no mutable state and is safe for
// concurrent use.
type Aggregator struct {
	curves CurveProvider
	tester *calibration.Tester
	logger *zap.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithCurveProvider replaces the ROC, precision/recall and AUC routines.
func WithCurveProvider(p CurveProvider) Option {
	return func(a *Aggregator) {
		if p != nil {
			a.curves = p
		}
	}
}

// WithTester replaces the Hosmer-Lemeshow tester, for example to change the
// bin count.
func WithTester(t *calibration.Tester) Option {
	return func(a *Aggregator) {
		if t != nil {
			a.tester = t
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAggregator returns an Aggregator using GonumCurves and a tester with
// calibration.DefaultBins bins.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		curves: GonumCurves{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.tester == nil {
		a.tester = calibration.New(calibration.WithLogger(a.logger))
	}
	return a
}

var defaultAggregator = NewAggregator()

// PerfMetrics evaluates yPred against yTrue with the default Aggregator and
// returns the metrics keyed by name.
func PerfMetrics(yPred []float64, yTrue []int) (map[string]float64, error) {
	res, err := defaultAggregator.Evaluate(yPred, yTrue)
	if err != nil {
		return nil, err
	}
	return res.Map(), nil
}

// Evaluate computes every metric for yPred against yTrue. Labels must be 0 or
// 1 with both classes present and predictions must lie in [0, 1].
func (a *Aggregator) Evaluate(yPred []float64, yTrue []int) (*Result, error) {
	if err := validate.Pair(yTrue, yPred); err != nil {
		return nil, err
	}
	if err := validate.BinaryLabels(yTrue); err != nil {
		return nil, err
	}

	var res Result

	roc, err := a.curves.ROC(yTrue, yPred)
	if err != nil {
		return nil, fmt.Errorf("roc curve: %w", err)
	}
	if res.AUC, err = a.curves.AUC(roc.FPR, roc.TPR); err != nil {
		return nil, fmt.Errorf("roc auc: %w", err)
	}
	if res.TPRFPR0, err = TPRAtFPR(roc, 0); err != nil {
		return nil, err
	}
	if res.TPRFPR1, err = TPRAtFPR(roc, 0.01); err != nil {
		return nil, err
	}
	if res.TPRFPR5, err = TPRAtFPR(roc, 0.05); err != nil {
		return nil, err
	}

	hard := Round(yPred)
	res.F1Bin = F1(yTrue, hard, Binary)
	res.F1Micro = F1(yTrue, hard, Micro)
	res.F1Macro = F1(yTrue, hard, Macro)

	pr, err := a.curves.PrecisionRecall(yTrue, yPred)
	if err != nil {
		return nil, fmt.Errorf("precision/recall curve: %w", err)
	}
	if res.AUCPRC, err = a.curves.AUC(pr.Recall, pr.Precision); err != nil {
		return nil, fmt.Errorf("precision/recall auc: %w", err)
	}

	c := NewConfusion(yTrue, hard, Positive)
	res.Prec = c.Precision()
	res.Rec = c.Recall()
	res.Acc = float64(AccuracyCount(yTrue, hard))
	res.AccNorm = Accuracy(yTrue, hard)
	res.Brier = Brier(yTrue, yPred)

	hl, err := a.tester.Test(yTrue, yPred)
	if err != nil {
		return nil, fmt.Errorf("hosmer-lemeshow: %w", err)
	}
	res.HLTest = hl.PValue

	a.logger.Debug("evaluated predictions",
		zap.Int("samples", len(yPred)),
		zap.Float64(KeyAUC, res.AUC),
		zap.Float64(KeyAccNorm, res.AccNorm),
		zap.Float64(KeyBrier, res.Brier),
		zap.Float64(KeyHLTest, res.HLTest))
	return &res, nil
}
