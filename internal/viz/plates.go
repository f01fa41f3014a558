package viz

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/crustsim/internal/mesh"
)

const (
	glyphPlate     = "█"
	glyphBoundary  = "▓"
	glyphUnclaimed = "·"
	glyphContested = "×"
)

// RenderLattice draws one glyph per vertex, row by row. Vertices whose
// count is zero are unclaimed, above one contested; a vertex with a
// neighbor on another plate is drawn as boundary. counts may be nil.
func RenderLattice(l *mesh.Lattice, plateMap, counts []int, theme Theme) string {
	return RenderLatticeFit(l, plateMap, counts, l.Width, l.Height, theme)
}

// RenderLatticeFit is RenderLattice sampled down to at most width×height
// glyphs.
func RenderLatticeFit(l *mesh.Lattice, plateMap, counts []int, width, height int, theme Theme) string {
	w, h := min(l.Width, max(width, 1)), min(l.Height, max(height, 1))

	var b strings.Builder
	for row := 0; row < h; row++ {
		y := row * l.Height / h
		for col := 0; col < w; col++ {
			x := col * l.Width / w
			b.WriteString(cell(l, l.Index(x, y), plateMap, counts, theme))
		}
		if row < h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func cell(g mesh.Grid, id int, plateMap, counts []int, theme Theme) string {
	if counts != nil {
		switch {
		case counts[id] == 0:
			return lipgloss.NewStyle().Foreground(theme.Muted).Render(glyphUnclaimed)
		case counts[id] > 1:
			return lipgloss.NewStyle().Foreground(theme.Accent).Render(glyphContested)
		}
	}
	glyph := glyphPlate
	if onBoundary(g, id, plateMap) {
		glyph = glyphBoundary
	}
	return lipgloss.NewStyle().Foreground(theme.PlateColor(plateMap[id])).Render(glyph)
}

func onBoundary(g mesh.Grid, id int, plateMap []int) bool {
	for _, nb := range g.Neighbors(id) {
		if plateMap[nb] != plateMap[id] {
			return true
		}
	}
	return false
}

// RenderCounts prints the per-vertex claim counts of a lattice as digits,
// '+' standing for ten or more.
func RenderCounts(l *mesh.Lattice, counts []int) string {
	var b strings.Builder
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			c := counts[l.Index(x, y)]
			if c > 9 {
				b.WriteByte('+')
			} else {
				b.WriteByte(byte('0' + c))
			}
		}
		if y < l.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// RenderProjection draws any grid in an equirectangular longitude/latitude
// projection of its vertex directions. Each cell shows the plate of the
// vertex whose direction is closest to the cell centre.
func RenderProjection(g mesh.Grid, plateMap, counts []int, width, height int, theme Theme) string {
	n := g.VertexCount()
	dirs := make([]r3.Vec, n)
	for id := 0; id < n; id++ {
		if p := g.Position(id); r3.Norm2(p) > 0 {
			dirs[id] = r3.Unit(p)
		}
	}

	var b strings.Builder
	for row := 0; row < height; row++ {
		lat := math.Pi/2 - (float64(row)+0.5)/float64(height)*math.Pi
		for col := 0; col < width; col++ {
			lon := -math.Pi + (float64(col)+0.5)/float64(width)*2*math.Pi
			c := r3.Vec{X: math.Cos(lat) * math.Cos(lon), Y: math.Cos(lat) * math.Sin(lon), Z: math.Sin(lat)}

			best, bestDot := 0, math.Inf(-1)
			for id, d := range dirs {
				if dot := r3.Dot(d, c); dot > bestDot {
					best, bestDot = id, dot
				}
			}
			b.WriteString(cell(g, best, plateMap, counts, theme))
		}
		if row < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Legend lists each plate's colour swatch with its size.
func Legend(sizes []int, theme Theme) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		swatch := lipgloss.NewStyle().Foreground(theme.PlateColor(i)).Render(glyphPlate + glyphPlate)
		parts[i] = swatch + " " + MetricLabel.Render(strconv.Itoa(i)+":") + MetricValue.Render(strconv.Itoa(s))
	}
	return strings.Join(parts, "  ")
}
