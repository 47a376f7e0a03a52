package calibration

import (
	"errors"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ReliabilityDiagram plots the observed positive rate of each populated bin
// against its mean predicted probability, with the identity line for
// reference. The plot is built in memory; saving it is left to the caller.
func ReliabilityDiagram(res *Result) (*plot.Plot, error) {
	if res == nil {
		return nil, errors.New("calibration: nil result")
	}
	pts := make(plotter.XYs, 0, len(res.Bins))
	for _, b := range res.Bins {
		if b.Count == 0 {
			continue
		}
		n := float64(b.Count)
		pts = append(pts, plotter.XY{X: b.ExpectedPositive / n, Y: float64(b.ObservedPositive) / n})
	}
	if len(pts) == 0 {
		return nil, errors.New("calibration: no populated bins to plot")
	}

	p := plot.New()
	p.Title.Text = "Reliability Diagram"
	p.X.Label.Text = "Mean predicted probability"
	p.Y.Label.Text = "Observed positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	ideal, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return nil, err
	}
	ideal.Color = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	ideal.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(ideal)

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, err
	}
	line.Color = color.RGBA{B: 255, A: 255, R: 50, G: 50}
	line.LineStyle.Width = vg.Points(2)
	points.Color = line.Color
	p.Add(line, points)
	p.Legend.Add("bins", line, points)
	p.Legend.Add("perfect", ideal)
	p.Legend.Top = true
	p.Legend.Left = true

	return p, nil
}
