package metrics_test

import (
	"fmt"

	"github.com/talhanai/ml-perf-metric/pkg/metrics"
)

func ExamplePerfMetrics() {
	labels := []int{0, 0, 1, 1, 0, 1, 0, 1, 1, 0, 1, 0}
	preds := []float64{0.1, 0.4, 0.35, 0.8, 0.5, 0.5, 0.2, 0.9, 0.65, 0.7, 0.3, 0.05}

	m, err := metrics.PerfMetrics(preds, labels)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, k := range []string{metrics.KeyAUC, metrics.KeyAUCPRC, metrics.KeyF1Macro, metrics.KeyAcc, metrics.KeyBrier, metrics.KeyHLTest} {
		fmt.Printf("%s: %.4f\n", k, m[k])
	}

	// Output:
	// auc: 0.7639
	// auc_prc: 0.7768
	// f1_macro: 0.6571
	// acc: 8.0000
	// brier: 0.1906
	// hltest: 0.6698
}
