package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Connectivity selects the lattice neighborhood.
type Connectivity int

const (
	Conn4 Connectivity = 4
	Conn8 Connectivity = 8
)

// LatticeOptions tunes NewLattice.
type LatticeOptions struct {
	Conn    Connectivity
	Spacing float64
}

// DefaultLatticeOptions returns 4-connectivity with unit spacing.
func DefaultLatticeOptions() LatticeOptions {
	return LatticeOptions{Conn: Conn4, Spacing: 1}
}

// Lattice is a planar W×H grid in the z=0 plane. Vertex ids are row-major:
// id = y*Width + x.
type Lattice struct {
	*Mesh
	Width   int
	Height  int
	Conn    Connectivity
	Spacing float64
}

// NewLattice builds a W×H lattice. Neighbor lists follow a fixed clockwise
// offset order starting north, clipped at the border.
func NewLattice(width, height int, opts LatticeOptions) (*Lattice, error) {
	if width <= 0 || height <= 0 || opts.Spacing <= 0 {
		return nil, fmt.Errorf("%w: %dx%d spacing %g", ErrBadDimensions, width, height, opts.Spacing)
	}

	offsets := [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	if opts.Conn == Conn8 {
		offsets = [][2]int{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
	} else {
		opts.Conn = Conn4
	}

	n := width * height
	positions := make([]r3.Vec, n)
	neighbors := make([][]int, n)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			id := y*width + x
			positions[id] = r3.Vec{X: float64(x) * opts.Spacing, Y: float64(y) * opts.Spacing}
			list := make([]int, 0, len(offsets))
			for _, d := range offsets {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				list = append(list, ny*width+nx)
			}
			neighbors[id] = list
		}
	}

	return &Lattice{
		Mesh:    &Mesh{positions: positions, neighbors: neighbors},
		Width:   width,
		Height:  height,
		Conn:    opts.Conn,
		Spacing: opts.Spacing,
	}, nil
}

// Normal is +Z everywhere.
func (l *Lattice) Normal(int) r3.Vec { return r3.Vec{Z: 1} }

// Index maps (x,y) to a vertex id.
func (l *Lattice) Index(x, y int) int { return y*l.Width + x }

// Coordinate maps a vertex id back to (x,y).
func (l *Lattice) Coordinate(id int) (x, y int) { return id % l.Width, id / l.Width }

// InBounds reports whether (x,y) lies inside the lattice.
func (l *Lattice) InBounds(x, y int) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}
