package metrics

import (
	"math"

	"github.com/san-kum/crustsim/internal/fracture"
	"github.com/san-kum/crustsim/internal/mesh"
)

// Metric scores one finished fracturing.
type Metric interface {
	Name() string
	Evaluate(g mesh.Grid, a fracture.Assignment) float64
}

// Coverage is the fraction of vertices held by some plate.
type Coverage struct{}

func NewCoverage() *Coverage { return &Coverage{} }

func (c *Coverage) Name() string { return "coverage" }

func (c *Coverage) Evaluate(g mesh.Grid, a fracture.Assignment) float64 {
	n := g.VertexCount()
	if n == 0 {
		return 0
	}
	return 1 - float64(len(a.Unclaimed))/float64(n)
}

// Balance is the Shannon entropy of the plate sizes normalised by its
// maximum, ln(K). 1 means equal plates.
type Balance struct{}

func NewBalance() *Balance { return &Balance{} }

func (b *Balance) Name() string { return "balance" }

func (b *Balance) Evaluate(_ mesh.Grid, a fracture.Assignment) float64 {
	if len(a.Sizes) <= 1 {
		return 1
	}
	total := 0
	for _, s := range a.Sizes {
		total += s
	}
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, s := range a.Sizes {
		if s == 0 {
			continue
		}
		p := float64(s) / float64(total)
		h -= p * math.Log(p)
	}
	return h / math.Log(float64(len(a.Sizes)))
}

// EmptyPlates counts plates that never received a seed.
type EmptyPlates struct{}

func NewEmptyPlates() *EmptyPlates { return &EmptyPlates{} }

func (e *EmptyPlates) Name() string { return "empty_plates" }

func (e *EmptyPlates) Evaluate(_ mesh.Grid, a fracture.Assignment) float64 {
	n := 0
	for _, s := range a.Sizes {
		if s == 0 {
			n++
		}
	}
	return float64(n)
}

// BoundaryFraction is the share of grid edges whose endpoints map to
// different plates.
type BoundaryFraction struct{}

func NewBoundaryFraction() *BoundaryFraction { return &BoundaryFraction{} }

func (b *BoundaryFraction) Name() string { return "boundary_fraction" }

func (b *BoundaryFraction) Evaluate(g mesh.Grid, a fracture.Assignment) float64 {
	if len(a.Map) != g.VertexCount() {
		return 0
	}
	edges, cut := 0, 0
	mesh.Edges(g, func(u, v int) {
		edges++
		if a.Map[u] != a.Map[v] {
			cut++
		}
	})
	if edges == 0 {
		return 0
	}
	return float64(cut) / float64(edges)
}

// LargestPlate is the size of the biggest plate as a fraction of the grid.
type LargestPlate struct{}

func NewLargestPlate() *LargestPlate { return &LargestPlate{} }

func (l *LargestPlate) Name() string { return "largest_plate" }

func (l *LargestPlate) Evaluate(g mesh.Grid, a fracture.Assignment) float64 {
	n := g.VertexCount()
	if n == 0 {
		return 0
	}
	largest := 0
	for _, s := range a.Sizes {
		if s > largest {
			largest = s
		}
	}
	return float64(largest) / float64(n)
}

// SmallPlates is the fraction of plates holding fewer than MinFraction of
// the grid's vertices.
type SmallPlates struct {
	MinFraction float64
}

func NewSmallPlates(minFraction float64) *SmallPlates {
	return &SmallPlates{MinFraction: minFraction}
}

func (s *SmallPlates) Name() string { return "small_plates" }

func (s *SmallPlates) Evaluate(g mesh.Grid, a fracture.Assignment) float64 {
	if len(a.Sizes) == 0 {
		return 0
	}
	limit := s.MinFraction * float64(g.VertexCount())
	small := 0
	for _, size := range a.Sizes {
		if float64(size) < limit {
			small++
		}
	}
	return float64(small) / float64(len(a.Sizes))
}

// Defaults returns every plate metric.
func Defaults() []Metric {
	return []Metric{
		NewCoverage(),
		NewBalance(),
		NewEmptyPlates(),
		NewBoundaryFraction(),
		NewLargestPlate(),
	}
}

// Evaluate runs ms and collects the scores by name.
func Evaluate(g mesh.Grid, a fracture.Assignment, ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Evaluate(g, a)
	}
	return out
}
