package experiment

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotLoss renders one test-loss curve per optimizer to a PNG.
func PlotLoss(path, title string, results []Result) error {
	return plotCurves(path, title, "Loss", results, func(m EpochMetrics) float64 {
		return m.TestLoss
	})
}

// PlotAccuracy renders one accuracy curve per optimizer to a PNG.
func PlotAccuracy(path, title string, results []Result) error {
	return plotCurves(path, title, "Accuracy", results, func(m EpochMetrics) float64 {
		return m.Accuracy
	})
}

func plotCurves(path, title, yLabel string, results []Result, pick func(EpochMetrics) float64) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = yLabel
	p.Legend.Top = true

	for i, res := range results {
		pts := make(plotter.XYs, len(res.History))
		for j, m := range res.History {
			pts[j].X = float64(m.Epoch)
			pts[j].Y = pick(m)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("building curve for %s: %w", res.Optimizer, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(res.Optimizer, line)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}
	return nil
}
