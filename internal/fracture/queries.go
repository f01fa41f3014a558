package fracture

import (
	"math"
	"sort"

	"github.com/san-kum/crustsim/internal/mesh"
	"github.com/san-kum/crustsim/internal/stress"
)

// Counts returns, per vertex, how many regions include it. Disjoint
// regions give only 0s and 1s.
func Counts(regions []*Region) []int {
	if len(regions) == 0 {
		return nil
	}
	out := make([]int, regions[0].VertexCount())
	for _, r := range regions {
		for id, in := range r.included {
			if in {
				out[id]++
			}
		}
	}
	return out
}

// Sizes returns the number of vertices in each region.
func Sizes(regions []*Region) []int {
	out := make([]int, len(regions))
	for i, r := range regions {
		out[i] = r.Size()
	}
	return out
}

// Map returns the plate id of every vertex. Regions from
// policy.FirstActive() on write their index; every other vertex is 0.
func Map(regions []*Region, policy Policy) []int {
	if len(regions) == 0 {
		return nil
	}
	out := make([]int, regions[0].VertexCount())
	for j := policy.FirstActive(); j < len(regions); j++ {
		for id, in := range regions[j].included {
			if in {
				out[id] = j
			}
		}
	}
	return out
}

// Unclaimed returns the vertices no region holds, ascending.
func Unclaimed(regions []*Region) []int {
	var out []int
	for id, c := range Counts(regions) {
		if c == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Assignment bundles the derived queries of one fracturing.
type Assignment struct {
	Map       []int
	Sizes     []int
	Counts    []int
	Unclaimed []int
}

// Assign computes every derived query at once.
func Assign(regions []*Region, policy Policy) Assignment {
	counts := Counts(regions)
	var unclaimed []int
	for id, c := range counts {
		if c == 0 {
			unclaimed = append(unclaimed, id)
		}
	}
	return Assignment{
		Map:       Map(regions, policy),
		Sizes:     Sizes(regions),
		Counts:    counts,
		Unclaimed: unclaimed,
	}
}

// BoundaryKind classifies the relative motion across a plate boundary.
type BoundaryKind int

const (
	Unclassified BoundaryKind = iota
	Divergent
	Convergent
	Transform
)

func (k BoundaryKind) String() string {
	switch k {
	case Divergent:
		return "divergent"
	case Convergent:
		return "convergent"
	case Transform:
		return "transform"
	default:
		return "unclassified"
	}
}

// Boundary is the set of grid edges separating two plates.
type Boundary struct {
	PlateA int
	PlateB int
	Edges  [][2]int
	Kind   BoundaryKind

	// Mean strain factors across Edges, set by Classify.
	Tensile float64
	Shear   float64
}

// Boundaries returns the edges whose endpoints lie on different plates,
// grouped by plate pair with PlateA < PlateB. Pairs are ordered ascending;
// edges within a pair keep (a < b) grid order.
func Boundaries(g mesh.Grid, plateMap []int) []Boundary {
	byPair := make(map[[2]int]*Boundary)
	mesh.Edges(g, func(a, b int) {
		pa, pb := plateMap[a], plateMap[b]
		if pa == pb {
			return
		}
		key := [2]int{pa, pb}
		if pa > pb {
			key = [2]int{pb, pa}
		}
		bd, ok := byPair[key]
		if !ok {
			bd = &Boundary{PlateA: key[0], PlateB: key[1]}
			byPair[key] = bd
		}
		bd.Edges = append(bd.Edges, [2]int{a, b})
	})

	out := make([]Boundary, 0, len(byPair))
	for _, bd := range byPair {
		out = append(out, *bd)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlateA != out[j].PlateA {
			return out[i].PlateA < out[j].PlateA
		}
		return out[i].PlateB < out[j].PlateB
	})
	return out
}

// Classify fills Kind, Tensile and Shear of each boundary from the mean
// strain factors of its edges. Shear dominating tensile in magnitude makes a
// transform boundary; otherwise the tensile sign picks divergent or
// convergent.
func Classify(g mesh.Grid, field stress.Field, boundaries []Boundary) {
	var probe CrustIsUnfractured
	for i := range boundaries {
		bd := &boundaries[i]
		if len(bd.Edges) == 0 {
			continue
		}
		var tensile, shear float64
		for _, e := range bd.Edges {
			a, b := e[0], e[1]
			t, s := probe.Factors(g.Position(a), field[a], g.Position(b), field[b], mesh.EdgeNormal(g, a, b))
			tensile += t
			shear += math.Abs(s)
		}
		n := float64(len(bd.Edges))
		bd.Tensile, bd.Shear = tensile/n, shear/n

		switch {
		case bd.Tensile == 0 && bd.Shear == 0:
			bd.Kind = Unclassified
		case bd.Shear > math.Abs(bd.Tensile):
			bd.Kind = Transform
		case bd.Tensile > 0:
			bd.Kind = Divergent
		default:
			bd.Kind = Convergent
		}
	}
}
