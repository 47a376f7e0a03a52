package metrics

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotROC draws the ROC curve against the chance diagonal. auc is shown in
// the title when positive.
func PlotROC(c ROCCurve, auc float64) (*plot.Plot, error) {
	if len(c.FPR) == 0 || len(c.FPR) != len(c.TPR) {
		return nil, errors.New("metrics: empty or malformed roc curve")
	}

	p := plot.New()
	p.Title.Text = "ROC Curve"
	if auc > 0 {
		p.Title.Text = fmt.Sprintf("ROC Curve (AUC = %.3f)", auc)
	}
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	chance, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return nil, err
	}
	chance.Color = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	chance.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(chance)

	pts := make(plotter.XYs, len(c.FPR))
	for i := range c.FPR {
		pts[i].X = c.FPR[i]
		pts[i].Y = c.TPR[i]
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	l.Color = color.RGBA{R: 255, A: 255}
	l.LineStyle.Width = vg.Points(2)
	p.Add(l)
	return p, nil
}
