package fracture

import (
	"container/heap"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/crustsim/internal/mesh"
	"github.com/san-kum/crustsim/internal/stress"
)

// FloodFill grows a single Region one vertex at a time.
type FloodFill struct {
	predicate Predicate
}

// NewFloodFill returns a FloodFill that admits vertices with p. A nil p
// falls back to EarthlikeStrengths.
func NewFloodFill(p Predicate) *FloodFill {
	if p == nil {
		p = EarthlikeStrengths()
	}
	return &FloodFill{predicate: p}
}

// Predicate returns the connectivity test in use.
func (f *FloodFill) Predicate() Predicate { return f.predicate }

// Reset clears r and restarts it from seed. The seed is included and its
// neighbors are queued by distance from the seed. Claiming the seed in a
// ClaimMask is the caller's job.
func (f *FloodFill) Reset(g mesh.Grid, seed int, r *Region) {
	r.clear()
	r.seed = seed
	r.state = Seeded
	r.include(seed)

	origin := g.Position(seed)
	for _, nb := range g.Neighbors(seed) {
		f.enqueue(g, origin, nb, r)
	}
	if len(r.frontier) == 0 {
		r.state = Stable
	}
}

// Advance evaluates one live candidate from the frontier of r and returns
// the resulting state. Candidates that were already included or have since
// been claimed elsewhere are discarded without counting as the evaluation.
// A rejected candidate is dropped from r for good; other regions may still
// take it. Advance on an Empty or Stable region is a no-op.
func (f *FloodFill) Advance(g mesh.Grid, field stress.Field, mask *ClaimMask, r *Region) State {
	if r.state == Empty || r.state == Stable {
		return r.state
	}

	for len(r.frontier) > 0 {
		c := heap.Pop(&r.frontier).(candidate)
		if r.included[c.id] || !mask.Considered(c.id) {
			continue
		}

		if !f.admits(g, field, c.id, r) {
			break
		}
		if !mask.Claim(c.id) {
			continue
		}

		r.include(c.id)
		r.state = Growing
		origin := g.Position(r.seed)
		for _, nb := range g.Neighbors(c.id) {
			if mask.Considered(nb) {
				f.enqueue(g, origin, nb, r)
			}
		}
		break
	}

	if len(r.frontier) == 0 {
		r.state = Stable
	}
	return r.state
}

// Grow advances r until it is Stable and returns the number of Advance calls.
func (f *FloodFill) Grow(g mesh.Grid, field stress.Field, mask *ClaimMask, r *Region) int {
	steps := 0
	for r.state != Stable && r.state != Empty {
		f.Advance(g, field, mask, r)
		steps++
	}
	return steps
}

func (f *FloodFill) admits(g mesh.Grid, field stress.Field, id int, r *Region) bool {
	a, u := g.Position(id), field[id]
	for _, nb := range g.Neighbors(id) {
		if !r.included[nb] {
			continue
		}
		if f.predicate.Connected(a, u, g.Position(nb), field[nb], mesh.EdgeNormal(g, id, nb)) {
			return true
		}
	}
	return false
}

func (f *FloodFill) enqueue(g mesh.Grid, origin r3.Vec, id int, r *Region) {
	if r.queued[id] {
		return
	}
	r.queued[id] = true
	heap.Push(&r.frontier, candidate{id: id, priority: r3.Norm(r3.Sub(g.Position(id), origin))})
}
