package export

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/crustsim/internal/mesh"
)

// Projection maps vertex positions onto the SVG plane.
type Projection int

const (
	// Planar drops Z and fits X/Y into the canvas.
	Planar Projection = iota
	// Equirectangular plots longitude against latitude of the vertex
	// direction, Z being the polar axis.
	Equirectangular
)

// AutoProjection picks Planar for grids lying in one z plane and
// Equirectangular otherwise.
func AutoProjection(g mesh.Grid) Projection {
	if g.VertexCount() == 0 {
		return Planar
	}
	z := g.Position(0).Z
	for id := 1; id < g.VertexCount(); id++ {
		if g.Position(id).Z != z {
			return Equirectangular
		}
	}
	return Planar
}

// DefaultPalette is used when PlateMapToSVG gets no colours.
var DefaultPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// PlateMapToSVG draws every vertex as a dot coloured by plate. Edges inside
// a plate take the plate colour; edges between plates are drawn white.
func PlateMapToSVG(g mesh.Grid, plateMap []int, width, height int, proj Projection, palette []string) string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	pts := project(g, width, height, proj)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g stroke-width="1">
`, width, height, width, height))

	mesh.Edges(g, func(a, b int) {
		pa, pb := pts[a], pts[b]
		// skip edges that wrap around the dateline
		if proj == Equirectangular && math.Abs(pa[0]-pb[0]) > float64(width)/2 {
			return
		}
		stroke := "#ffffff"
		if plateMap[a] == plateMap[b] {
			stroke = color(palette, plateMap[a])
		}
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
`, pa[0], pa[1], pb[0], pb[1], stroke))
	})
	sb.WriteString("</g>\n<g>\n")

	radius := math.Max(1, math.Min(float64(width), float64(height))/math.Sqrt(float64(g.VertexCount()))/4)
	for id, p := range pts {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, p[0], p[1], radius, color(palette, plateMap[id])))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func color(palette []string, plate int) string {
	if plate < 0 {
		plate = -plate
	}
	return palette[plate%len(palette)]
}

func project(g mesh.Grid, width, height int, proj Projection) [][2]float64 {
	n := g.VertexCount()
	pts := make([][2]float64, n)
	w, h := float64(width), float64(height)

	if proj == Equirectangular {
		for id := 0; id < n; id++ {
			p := g.Position(id)
			if r3.Norm2(p) > 0 {
				p = r3.Unit(p)
			}
			lon := math.Atan2(p.Y, p.X)
			lat := math.Asin(math.Max(-1, math.Min(1, p.Z)))
			pts[id] = [2]float64{(lon + math.Pi) / (2 * math.Pi) * w, (math.Pi/2 - lat) / math.Pi * h}
		}
		return pts
	}

	if n == 0 {
		return pts
	}
	minX, maxX := g.Position(0).X, g.Position(0).X
	minY, maxY := g.Position(0).Y, g.Position(0).Y
	for id := 1; id < n; id++ {
		p := g.Position(id)
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	pad := 0.05
	for id := 0; id < n; id++ {
		p := g.Position(id)
		x := pad*w + (p.X-minX)/rangeX*w*(1-2*pad)
		y := pad*h + (p.Y-minY)/rangeY*h*(1-2*pad)
		pts[id] = [2]float64{x, y}
	}
	return pts
}
