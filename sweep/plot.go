package sweep

import (
	"fmt"

	homedir "github.com/mitchellh/go-homedir"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotPhase renders a phase portrait (component 0 against component 1) of
// a recorded trajectory. The image format follows the file extension
// (png, svg, pdf, ...).
func PlotPhase(path, title string, traj [][]float64) error {
	pts := make(plotter.XYs, len(traj))
	for i, row := range traj {
		pts[i].X = row[0]
		pts[i].Y = row[1]
	}
	return savePlot(path, title, "y1", "y2", pts)
}

// PlotWaveform renders a field u over its grid x, the Burgers' final
// waveform view.
func PlotWaveform(path, title string, x, u []float64) error {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = u[i]
	}
	return savePlot(path, title, "x", "u", pts)
}

func savePlot(path, title, xlabel, ylabel string, pts plotter.XYs) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expanding plot path %q: %w", path, err)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("building plot line: %w", err)
	}
	p.Add(line)
	p.Add(plotter.NewGrid())
	if err := p.Save(6*vg.Inch, 4*vg.Inch, expanded); err != nil {
		return fmt.Errorf("writing plot file %q: %w", expanded, err)
	}
	return nil
}
