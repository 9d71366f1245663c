package report

import (
	"image/color"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// confusionGrid adapts a confusion matrix to the heat map grid interface.
type confusionGrid struct {
	cm [][]int
}

func (g confusionGrid) Dims() (int, int)   { return len(g.cm), len(g.cm) }
func (g confusionGrid) X(c int) float64    { return float64(c) }
func (g confusionGrid) Y(r int) float64    { return float64(r) }
func (g confusionGrid) Z(c, r int) float64 { return float64(g.cm[r][c]) }

// ConfusionMatrixPlot draws the confusion matrix as a heat map. Rows are
// true labels, columns predicted labels.
func ConfusionMatrixPlot(labels []float64, cm [][]int, path string) error {
	p := plot.New()
	p.Title.Text = "Confusion Matrix"
	p.X.Label.Text = "Predicted Label"
	p.Y.Label.Text = "True Label"

	hm := plotter.NewHeatMap(confusionGrid{cm: cm}, moreland.SmoothBlueRed().Palette(255))
	p.Add(hm)

	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = strconv.FormatFloat(l, 'g', -1, 64)
	}
	p.NominalX(names...)
	p.NominalY(names...)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}

// RegressionPlot draws two panels: predicted-vs-actual values with the
// identity line, and residuals against predictions.
func RegressionPlot(yTrue, yPred []float64, path string) error {
	actual := plot.New()
	actual.Title.Text = "Predictions vs Actual"
	actual.X.Label.Text = "Actual Values"
	actual.Y.Label.Text = "Predicted Values"

	pts := make(plotter.XYs, len(yTrue))
	for i := range yTrue {
		pts[i] = plotter.XY{X: yTrue[i], Y: yPred[i]}
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "scatter")
	}
	s.GlyphStyle.Radius = vg.Points(2)

	lo, hi := floats.Min(yTrue), floats.Max(yTrue)
	identity, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "identity line")
	}
	identity.LineStyle.Color = color.RGBA{R: 200, A: 255}
	identity.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	actual.Add(s, identity)

	resid := plot.New()
	resid.Title.Text = "Residual Plot"
	resid.X.Label.Text = "Predicted Values"
	resid.Y.Label.Text = "Residuals"

	rpts := make(plotter.XYs, len(yTrue))
	for i := range yTrue {
		rpts[i] = plotter.XY{X: yPred[i], Y: yTrue[i] - yPred[i]}
	}
	rs, err := plotter.NewScatter(rpts)
	if err != nil {
		return errors.Wrap(err, "residual scatter")
	}
	rs.GlyphStyle.Radius = vg.Points(2)

	zero, err := plotter.NewLine(plotter.XYs{
		{X: floats.Min(yPred), Y: 0},
		{X: floats.Max(yPred), Y: 0},
	})
	if err != nil {
		return errors.Wrap(err, "zero line")
	}
	zero.LineStyle.Color = color.RGBA{R: 200, A: 255}
	zero.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	resid.Add(rs, zero)

	return savePanels(path, actual, resid)
}

// savePanels writes plots side by side into one PNG.
func savePanels(path string, plots ...*plot.Plot) error {
	const panel = 5 * vg.Inch
	img := vgimg.New(panel*vg.Length(len(plots)), panel)
	dc := draw.New(img)

	row := make([][]*plot.Plot, 1)
	row[0] = plots
	canvases := plot.Align(row, draw.Tiles{Rows: 1, Cols: len(plots)}, dc)
	for i, p := range plots {
		p.Draw(canvases[0][i])
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}

// FeatureImportancePlot draws a horizontal bar chart of the top 15 features
// by importance.
func FeatureImportancePlot(weights []FeatureWeight, path string) error {
	top := weights
	if len(top) > 15 {
		top = top[:15]
	}
	values := make(plotter.Values, len(top))
	names := make([]string, len(top))
	// Reverse so the most important feature lands on top of the chart.
	for i, fw := range top {
		j := len(top) - 1 - i
		values[j] = fw.Importance
		names[j] = fw.Feature
	}

	p := plot.New()
	p.Title.Text = "Feature Importance"
	p.X.Label.Text = "Importance"

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return errors.Wrap(err, "bar chart")
	}
	bars.Horizontal = true
	p.Add(bars)
	p.NominalY(names...)

	if err := p.Save(6*vg.Inch, 8*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}
