package fracture

// State is the lifecycle stage of a Region.
type State int

const (
	// Empty regions have no seed.
	Empty State = iota
	// Seeded regions hold only their seed and its queued neighbors.
	Seeded
	// Growing regions have admitted at least one vertex beyond the seed.
	Growing
	// Stable regions have an empty frontier.
	Stable
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Seeded:
		return "seeded"
	case Growing:
		return "growing"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// Region is one plate slot. Membership only grows between calls to
// FloodFill.Reset.
type Region struct {
	seed     int
	state    State
	included []bool
	queued   []bool
	size     int
	frontier frontier
}

// NewRegion returns an empty region sized for n vertices.
func NewRegion(n int) *Region {
	return &Region{
		seed:     -1,
		included: make([]bool, n),
		queued:   make([]bool, n),
	}
}

// Seed returns the seed vertex, or -1 while the region is Empty.
func (r *Region) Seed() int { return r.seed }

func (r *Region) State() State { return r.state }

// Size returns the number of included vertices.
func (r *Region) Size() int { return r.size }

// VertexCount returns the length of the membership bitset.
func (r *Region) VertexCount() int { return len(r.included) }

// Includes reports whether id belongs to the region.
func (r *Region) Includes(id int) bool { return r.included[id] }

// FrontierLen returns the number of queued candidates, stale ones included.
func (r *Region) FrontierLen() int { return len(r.frontier) }

// Members returns the included vertex ids in ascending order.
func (r *Region) Members() []int {
	out := make([]int, 0, r.size)
	for id, in := range r.included {
		if in {
			out = append(out, id)
		}
	}
	return out
}

func (r *Region) clear() {
	for i := range r.included {
		r.included[i] = false
		r.queued[i] = false
	}
	r.seed = -1
	r.size = 0
	r.state = Empty
	r.frontier = r.frontier[:0]
}

func (r *Region) include(id int) {
	r.included[id] = true
	r.queued[id] = true
	r.size++
}
