package mesh

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Grid is the read-only topology consumed by the plate segmentation.
type Grid interface {
	VertexCount() int
	Neighbors(id int) []int
	Position(id int) r3.Vec
}

// Normaler is implemented by grids that know the outward surface normal at
// each vertex.
type Normaler interface {
	Normal(id int) r3.Vec
}

// EdgeNormal returns the unit surface normal for the edge a-b. Grids that
// implement Normaler average their vertex normals; all others use the
// radial direction of the edge midpoint, which is exact for meshes centered
// on the origin.
func EdgeNormal(g Grid, a, b int) r3.Vec {
	var k r3.Vec
	if n, ok := g.(Normaler); ok {
		k = r3.Add(n.Normal(a), n.Normal(b))
	} else {
		k = r3.Add(g.Position(a), g.Position(b))
	}
	if r3.Norm2(k) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(k)
}

// Mesh is a general topology with explicit positions and adjacency.
type Mesh struct {
	positions []r3.Vec
	neighbors [][]int
}

// New validates and deep-copies positions and neighbor lists into a Mesh.
func New(positions []r3.Vec, neighbors [][]int) (*Mesh, error) {
	if len(positions) == 0 {
		return nil, ErrEmptyMesh
	}
	if len(positions) != len(neighbors) {
		return nil, fmt.Errorf("%w: %d positions, %d neighbor lists", ErrLengthMismatch, len(positions), len(neighbors))
	}

	n := len(positions)
	m := &Mesh{
		positions: make([]r3.Vec, n),
		neighbors: make([][]int, n),
	}
	copy(m.positions, positions)

	for id, list := range neighbors {
		for _, nb := range list {
			if nb < 0 || nb >= n {
				return nil, fmt.Errorf("%w: vertex %d lists %d", ErrNeighborRange, id, nb)
			}
			if nb == id {
				return nil, fmt.Errorf("%w: vertex %d", ErrSelfLoop, id)
			}
		}
		m.neighbors[id] = append([]int(nil), list...)
	}

	for id, list := range m.neighbors {
		for _, nb := range list {
			if !contains(m.neighbors[nb], id) {
				return nil, fmt.Errorf("%w: %d lists %d but not the reverse", ErrAsymmetric, id, nb)
			}
		}
	}

	return m, nil
}

// FromTriangles builds a Mesh from a triangle index buffer. Every triangle
// edge becomes a symmetric neighbor pair; duplicates are merged and each
// neighbor list is sorted ascending.
func FromTriangles(positions []r3.Vec, indices []int) (*Mesh, error) {
	if len(positions) == 0 {
		return nil, ErrEmptyMesh
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadIndices, len(indices))
	}

	n := len(positions)
	sets := make([]map[int]struct{}, n)
	for i := range sets {
		sets[i] = make(map[int]struct{})
	}

	link := func(a, b int) error {
		if a < 0 || a >= n || b < 0 || b >= n {
			return fmt.Errorf("%w: edge %d-%d", ErrNeighborRange, a, b)
		}
		if a == b {
			return fmt.Errorf("%w: vertex %d", ErrSelfLoop, a)
		}
		sets[a][b] = struct{}{}
		sets[b][a] = struct{}{}
		return nil
	}

	for i := 0; i < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if err := link(a, b); err != nil {
			return nil, err
		}
		if err := link(b, c); err != nil {
			return nil, err
		}
		if err := link(c, a); err != nil {
			return nil, err
		}
	}

	neighbors := make([][]int, n)
	for id, set := range sets {
		list := make([]int, 0, len(set))
		for nb := range set {
			list = append(list, nb)
		}
		sort.Ints(list)
		neighbors[id] = list
	}

	return &Mesh{
		positions: append([]r3.Vec(nil), positions...),
		neighbors: neighbors,
	}, nil
}

func (m *Mesh) VertexCount() int       { return len(m.positions) }
func (m *Mesh) Neighbors(id int) []int { return m.neighbors[id] }
func (m *Mesh) Position(id int) r3.Vec { return m.positions[id] }

// EdgeCount returns the number of undirected edges.
func (m *Mesh) EdgeCount() int {
	total := 0
	for _, list := range m.neighbors {
		total += len(list)
	}
	return total / 2
}

// Edges calls fn once per undirected edge with a < b, in ascending order of a.
func Edges(g Grid, fn func(a, b int)) {
	for a := 0; a < g.VertexCount(); a++ {
		for _, b := range g.Neighbors(a) {
			if a < b {
				fn(a, b)
			}
		}
	}
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
