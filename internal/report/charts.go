package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	apperrors "pvcli/internal/errors"
)

var barFill = color.RGBA{R: 70, G: 130, B: 180, A: 255}

// RenderMonthChart draws the violations-per-month bar chart to path. The
// file extension picks the image format.
func RenderMonthChart(counts []MonthCount, path string) error {
	if len(counts) == 0 {
		return apperrors.NewInternalError("no month counts to render", nil)
	}

	values := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, mc := range counts {
		values[i] = float64(mc.Count)
		labels[i] = strconv.Itoa(mc.Month)
	}

	p := plot.New()
	p.Title.Text = "Violations by Month"
	p.X.Label.Text = "Issue Month"
	p.Y.Label.Text = "Violations"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return apperrors.NewInternalError("failed to build month bar chart", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = barFill

	p.Add(bars)
	p.NominalX(labels...)

	return savePlot(p, 8*vg.Inch, 4*vg.Inch, path)
}

// RenderTopMakesChart draws the top vehicle makes bar chart to path,
// with make names rotated so long labels stay readable.
func RenderTopMakesChart(counts []MakeCount, path string) error {
	if len(counts) == 0 {
		return apperrors.NewInternalError("no make counts to render", nil)
	}

	values := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, mc := range counts {
		values[i] = float64(mc.Count)
		labels[i] = mc.Make
	}

	p := plot.New()
	p.Title.Text = "Top Vehicle Makes"
	p.X.Label.Text = "Vehicle Make"
	p.Y.Label.Text = "Violations"
	p.Y.Min = 0
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return apperrors.NewInternalError("failed to build makes bar chart", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = barFill

	p.Add(bars)
	p.NominalX(labels...)

	return savePlot(p, 8*vg.Inch, 5*vg.Inch, path)
}

func savePlot(p *plot.Plot, w, h vg.Length, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.NewConfigurationError(
			fmt.Sprintf("failed to create chart directory for %s", path), err)
	}
	if err := p.Save(w, h, path); err != nil {
		return apperrors.NewConfigurationError(
			fmt.Sprintf("failed to save chart to %s", path), err)
	}
	return nil
}
