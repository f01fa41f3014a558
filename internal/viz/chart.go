package viz

import (
	"fmt"
	"image/color"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SizeChart plots plate sizes in plate order.
func SizeChart(sizes []int, height int) string {
	if len(sizes) == 0 {
		return ""
	}
	data := toFloats(sizes)
	if len(data) == 1 {
		data = append(data, data[0])
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.LowerBound(0),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("plate sizes (%d plates)", len(sizes))),
	)
}

// GrowthChart plots the claimed vertex count per convergence iteration.
func GrowthChart(claimed []int, width, height int) string {
	if len(claimed) == 0 {
		return ""
	}
	data := toFloats(claimed)
	if len(data) == 1 {
		data = append(data, data[0])
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.Green),
		asciigraph.Caption("claimed vertices per iteration"),
	)
}

// WriteSizeChart saves a bar chart of plate sizes. The format follows the
// extension of path (png, svg, pdf, ...).
func WriteSizeChart(path string, sizes []int, title string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "plate"
	p.Y.Label.Text = "vertices"

	values := make(plotter.Values, len(sizes))
	names := make([]string, len(sizes))
	for i, s := range sizes {
		values[i] = float64(s)
		names[i] = fmt.Sprintf("%d", i)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return err
	}
	bars.Color = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(names...)

	width := vg.Length(len(sizes))*vg.Points(24) + 2*vg.Inch
	return p.Save(width, 4*vg.Inch, path)
}

func toFloats(v []int) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
