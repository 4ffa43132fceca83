package stats

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Default chart size in points.
const (
	DefaultChartWidth  = 480
	DefaultChartHeight = 270
)

var channelColors = map[string]color.Color{
	"B":  color.RGBA{B: 200, A: 255},
	"G":  color.RGBA{G: 160, A: 255},
	"R":  color.RGBA{R: 200, A: 255},
	"re": color.RGBA{R: 200, A: 255},
	"im": color.RGBA{B: 200, A: 255},
}

func seriesColor(name string) color.Color {
	if c, ok := channelColors[name]; ok {
		return c
	}
	return color.Black
}

// RenderHistogramPNG draws the histogram channels as line plots and returns
// PNG bytes. Non-positive sizes fall back to the defaults.
func RenderHistogramPNG(res *HistogramResult, width, height int) ([]byte, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Histogram %d,%d-%d,%d", res.Region.X1, res.Region.Y1, res.Region.X2, res.Region.Y2)
	p.X.Label.Text = "Value"
	p.Y.Label.Text = "Count"
	p.X.Min, p.X.Max = 0, 255

	for _, ch := range res.Channels {
		pts := make(plotter.XYs, len(ch.Bins))
		for i, n := range ch.Bins {
			pts[i] = plotter.XY{X: float64(i), Y: float64(n)}
		}
		if err := addLine(p, ch.Name, pts); err != nil {
			return nil, err
		}
	}
	return encodePlot(p, width, height)
}

// RenderProfilePNG plots each profile channel against the sample index.
func RenderProfilePNG(res *ProfileResult, width, height int) ([]byte, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Profile (%d,%d)-(%d,%d)", res.Begin.X, res.Begin.Y, res.End.X, res.End.Y)
	p.X.Label.Text = "Sample"
	p.Y.Label.Text = "Value"

	for _, ch := range res.Channels {
		if len(ch.Values) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(ch.Values))
		for i, v := range ch.Values {
			pts[i] = plotter.XY{X: float64(i), Y: v}
		}
		if err := addLine(p, ch.Name, pts); err != nil {
			return nil, err
		}
	}
	return encodePlot(p, width, height)
}

// RenderProjectionPNG plots the projection sums against the row or column
// index.
func RenderProjectionPNG(res *ProjectionResult, width, height int) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Projection along " + res.Axis
	p.X.Label.Text = "Index"
	p.Y.Label.Text = "Sum"

	for _, ch := range res.Channels {
		pts := make(plotter.XYs, len(ch.Sums))
		for i, v := range ch.Sums {
			pts[i] = plotter.XY{X: float64(res.Index[i]), Y: v}
		}
		if err := addLine(p, ch.Name, pts); err != nil {
			return nil, err
		}
	}
	return encodePlot(p, width, height)
}

func addLine(p *plot.Plot, name string, pts plotter.XYs) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build %s series: %w", name, err)
	}
	line.Color = seriesColor(name)
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

func encodePlot(p *plot.Plot, width, height int) ([]byte, error) {
	if width <= 0 {
		width = DefaultChartWidth
	}
	if height <= 0 {
		height = DefaultChartHeight
	}
	wt, err := p.WriterTo(vg.Points(float64(width)), vg.Points(float64(height)), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
