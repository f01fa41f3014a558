package fracture

import (
	"context"
	"fmt"
	"strings"

	"github.com/san-kum/crustsim/internal/mesh"
	"github.com/san-kum/crustsim/internal/stress"
)

// DefaultSeedGrowthBudget is the number of Advance calls each region gets
// right after it is seeded.
const DefaultSeedGrowthBudget = 30

// Policy selects which regions take part in joint convergence.
type Policy int

const (
	// PolicyBackgroundReserved grows region 0 only while seeding. Map
	// reports it as the background value 0.
	PolicyBackgroundReserved Policy = iota
	// PolicyAllRegions lets every region compete during convergence.
	PolicyAllRegions
)

func (p Policy) String() string {
	switch p {
	case PolicyBackgroundReserved:
		return "background"
	case PolicyAllRegions:
		return "all"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps "background" or "all" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "background", "background-reserved":
		return PolicyBackgroundReserved, nil
	case "all", "all-regions":
		return PolicyAllRegions, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// FirstActive returns the index of the first region that converges jointly.
func (p Policy) FirstActive() int {
	if p == PolicyAllRegions {
		return 0
	}
	return 1
}

// Options configures a Fracturing.
type Options struct {
	Predicate        Predicate
	SeedGrowthBudget int
	Policy           Policy
	Parallel         bool

	err error
}

// Option mutates Options. Invalid values are recorded and reported by New
// as ErrOptionViolation.
type Option func(*Options)

// DefaultOptions returns the Earth-like predicate, a seed budget of
// DefaultSeedGrowthBudget, the background policy and sequential stepping.
func DefaultOptions() Options {
	return Options{
		Predicate:        EarthlikeStrengths(),
		SeedGrowthBudget: DefaultSeedGrowthBudget,
		Policy:           PolicyBackgroundReserved,
	}
}

// WithPredicate replaces the connectivity test.
func WithPredicate(p Predicate) Option {
	return func(o *Options) {
		if p == nil {
			o.err = fmt.Errorf("%w: predicate is nil", ErrOptionViolation)
			return
		}
		o.Predicate = p
	}
}

// WithStrengths uses CrustIsUnfractured with the given strengths.
func WithStrengths(compressive, tensile, shear float64) Option {
	return WithPredicate(CrustIsUnfractured{Compressive: compressive, Tensile: tensile, Shear: shear})
}

// WithSeedGrowthBudget sets how many Advance calls a region gets right after
// seeding. Zero leaves every plate at its seed until convergence.
func WithSeedGrowthBudget(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: seed growth budget cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.SeedGrowthBudget = n
	}
}

// WithPolicy sets the convergence policy.
func WithPolicy(p Policy) Option {
	return func(o *Options) {
		if p != PolicyBackgroundReserved && p != PolicyAllRegions {
			o.err = fmt.Errorf("%w: %v", ErrUnknownPolicy, p)
			return
		}
		o.Policy = p
	}
}

// WithParallel advances the active regions of each convergence iteration
// concurrently. Plates stay disjoint; ownership of contested vertices may
// differ between runs.
func WithParallel() Option {
	return func(o *Options) { o.Parallel = true }
}

// Fracturing seeds and grows all plates of a grid.
type Fracturing struct {
	opts Options
	fill *FloodFill
}

// New builds a Fracturing from DefaultOptions and opts.
func New(opts ...Option) (*Fracturing, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	return &Fracturing{opts: o, fill: NewFloodFill(o.Predicate)}, nil
}

func (f *Fracturing) Options() Options { return f.opts }
func (f *Fracturing) Policy() Policy   { return f.opts.Policy }
func (f *Fracturing) Fill() *FloodFill { return f.fill }

// Initialize returns plates empty regions sized for g.
func (f *Fracturing) Initialize(g mesh.Grid, plates int) []*Region {
	if plates < 0 {
		plates = 0
	}
	regions := make([]*Region, plates)
	for i := range regions {
		regions[i] = NewRegion(g.VertexCount())
	}
	return regions
}

// Fracture seeds every region and grows the active ones until no frontier
// holds a candidate. Regions for which no unclaimed vertex remains are left
// Empty.
func (f *Fracturing) Fracture(g mesh.Grid, field stress.Field, regions []*Region) error {
	run, err := f.Start(g, field, regions)
	if err != nil {
		return err
	}
	run.Converge()
	return nil
}

// Run is a fracturing in progress: seeding is done and convergence can be
// stepped one iteration at a time.
type Run struct {
	grid    mesh.Grid
	field   stress.Field
	regions []*Region
	active  []*Region
	mask    *ClaimMask
	fill    *FloodFill

	parallel   bool
	iterations int
}

// Start validates the inputs and performs seeding. Seeds are picked in
// region order as the unclaimed vertex of largest stress magnitude, the
// smaller id winning ties.
func (f *Fracturing) Start(g mesh.Grid, field stress.Field, regions []*Region) (*Run, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	n := g.VertexCount()
	if len(field) != n {
		return nil, fmt.Errorf("%w: field has %d vectors, grid has %d vertices", ErrSizeMismatch, len(field), n)
	}
	if len(regions) == 0 {
		return nil, ErrNoRegions
	}
	for i, r := range regions {
		if r == nil || r.VertexCount() != n {
			return nil, fmt.Errorf("%w: region %d not sized for %d vertices", ErrSizeMismatch, i, n)
		}
	}

	run := &Run{
		grid:     g,
		field:    field,
		regions:  regions,
		mask:     NewClaimMask(n),
		fill:     f.fill,
		parallel: f.opts.Parallel,
	}

	magnitudes := field.Magnitudes()
	for _, r := range regions {
		seed := run.strongestUnclaimed(magnitudes)
		if seed < 0 {
			r.clear()
			continue
		}
		run.mask.Claim(seed)
		f.fill.Reset(g, seed, r)
		for i := 0; i < f.opts.SeedGrowthBudget; i++ {
			f.fill.Advance(g, field, run.mask, r)
		}
	}

	if first := f.opts.Policy.FirstActive(); first < len(regions) {
		run.active = regions[first:]
	}
	return run, nil
}

func (r *Run) strongestUnclaimed(magnitudes []float64) int {
	best := -1
	for id, m := range magnitudes {
		if !r.mask.Considered(id) {
			continue
		}
		if best < 0 || m > magnitudes[best] {
			best = id
		}
	}
	return best
}

// Outstanding returns the combined frontier size of the active regions.
func (r *Run) Outstanding() int {
	total := 0
	for _, region := range r.active {
		total += region.FrontierLen()
	}
	return total
}

// Done reports whether convergence has finished.
func (r *Run) Done() bool { return r.Outstanding() == 0 }

// Step advances every active region once and returns Outstanding.
func (r *Run) Step() int {
	if r.parallel {
		parallelFor(len(r.active), 1, func(start, end int) {
			for _, region := range r.active[start:end] {
				r.fill.Advance(r.grid, r.field, r.mask, region)
			}
		})
	} else {
		for _, region := range r.active {
			r.fill.Advance(r.grid, r.field, r.mask, region)
		}
	}
	r.iterations++
	return r.Outstanding()
}

// Converge steps until Done and returns the number of iterations taken by
// this call.
func (r *Run) Converge() int {
	start := r.iterations
	for !r.Done() {
		r.Step()
	}
	return r.iterations - start
}

// ConvergeContext is Converge with a cancellation check before every
// iteration. The returned error wraps ErrCanceled and the context error.
func (r *Run) ConvergeContext(ctx context.Context) error {
	for !r.Done() {
		if err := ctx.Err(); err != nil {
			return &ConvergenceError{
				Iteration: r.iterations,
				Claimed:   r.mask.ClaimedCount(),
				Wrapped:   fmt.Errorf("%w: %w", ErrCanceled, err),
			}
		}
		r.Step()
	}
	return nil
}

func (r *Run) Grid() mesh.Grid     { return r.grid }
func (r *Run) Regions() []*Region  { return r.regions }
func (r *Run) Active() []*Region   { return r.active }
func (r *Run) Mask() *ClaimMask    { return r.mask }
func (r *Run) Iterations() int     { return r.iterations }
func (r *Run) Field() stress.Field { return r.field }
