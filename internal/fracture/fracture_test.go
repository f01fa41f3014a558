package fracture

import (
	"container/heap"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/crustsim/internal/mesh"
	"github.com/san-kum/crustsim/internal/stress"
)

func TestCrustIsUnfractured_Factors(t *testing.T) {
	c := CrustIsUnfractured{Compressive: 1, Tensile: 1, Shear: 1}
	up := r3.Vec{Z: 1}

	// b pulls away from a along the edge: dot(DL,I)/l/l = 2/2/2
	tensile, shear := c.Factors(r3.Vec{}, r3.Vec{}, r3.Vec{X: 2}, r3.Vec{X: 1}, up)
	assert.InDelta(t, 0.5, tensile, 1e-12)
	assert.InDelta(t, 0, shear, 1e-12)

	// both factors scale with 1/l^2 of the raw dot product
	tensile, shear = c.Factors(r3.Vec{}, r3.Vec{}, r3.Vec{X: 4}, r3.Vec{X: 2, Y: 1}, up)
	assert.InDelta(t, 8.0/16, tensile, 1e-12)
	assert.InDelta(t, 4.0/16, math.Abs(shear), 1e-12)

	// b slides sideways
	tensile, shear = c.Factors(r3.Vec{}, r3.Vec{}, r3.Vec{X: 2}, r3.Vec{Y: 1}, up)
	assert.InDelta(t, 0, tensile, 1e-12)
	assert.InDelta(t, 0.5, math.Abs(shear), 1e-12)

	// coincident vertices and degenerate normals are harmless
	tensile, shear = c.Factors(r3.Vec{X: 1}, r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 3}, up)
	assert.Zero(t, tensile)
	assert.Zero(t, shear)
	_, shear = c.Factors(r3.Vec{}, r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 3}, r3.Vec{})
	assert.Zero(t, shear)
}

func TestCrustIsUnfractured_ConnectedLongEdge(t *testing.T) {
	c := CrustIsUnfractured{Compressive: 0.5, Tensile: 0.5, Shear: 0.5}
	a, b := r3.Vec{}, r3.Vec{X: 2}
	up := r3.Vec{Z: 1}

	tests := []struct {
		name string
		v    r3.Vec
		want bool
	}{
		{"tension below strength", r3.Vec{X: 0.9}, true},
		{"tension at strength", r3.Vec{X: 1}, false},
		{"compression at strength", r3.Vec{X: -1}, false},
		{"shear below strength", r3.Vec{Y: 0.9}, true},
		{"shear at strength", r3.Vec{Y: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Connected(a, r3.Vec{}, b, tt.v, up); got != tt.want {
				t.Errorf("Connected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCrustIsUnfractured_Connected(t *testing.T) {
	c := CrustIsUnfractured{Compressive: 0.1, Tensile: 0.2, Shear: 0.3}
	a, b := r3.Vec{}, r3.Vec{X: 1}
	up := r3.Vec{Z: 1}

	tests := []struct {
		name string
		v    r3.Vec
		want bool
	}{
		{"at rest", r3.Vec{}, true},
		{"mild tension", r3.Vec{X: 0.15}, true},
		{"tension at strength", r3.Vec{X: 0.2}, false},
		{"too much tension", r3.Vec{X: 0.5}, false},
		{"mild compression", r3.Vec{X: -0.05}, true},
		{"too much compression", r3.Vec{X: -0.2}, false},
		{"mild shear", r3.Vec{Y: 0.25}, true},
		{"too much shear", r3.Vec{Y: -0.35}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Connected(a, r3.Vec{}, b, tt.v, up))
		})
	}

	assert.True(t, AlwaysConnected.Connected(a, r3.Vec{}, b, r3.Vec{X: 1e9}, up))
	assert.False(t, NeverConnected.Connected(a, r3.Vec{}, b, r3.Vec{}, up))
}

func TestFrontier_Order(t *testing.T) {
	q := &frontier{}
	heap.Push(q, candidate{id: 7, priority: 2})
	heap.Push(q, candidate{id: 3, priority: 1})
	heap.Push(q, candidate{id: 9, priority: 1})
	heap.Push(q, candidate{id: 1, priority: 1})
	heap.Push(q, candidate{id: 0, priority: 5})

	var got []int
	for q.Len() > 0 {
		got = append(got, heap.Pop(q).(candidate).id)
	}
	assert.Equal(t, []int{1, 3, 9, 7, 0}, got)
}

func TestClaimMask(t *testing.T) {
	m := NewClaimMask(4)
	require.Equal(t, 4, m.Len())
	assert.True(t, m.Claim(2))
	assert.False(t, m.Claim(2), "second claim must fail")
	assert.False(t, m.Considered(2))
	assert.Equal(t, []int{0, 1, 3}, m.Unclaimed())
	assert.Equal(t, 1, m.ClaimedCount())

	m.Reset()
	assert.Zero(t, m.ClaimedCount())
}

func TestFloodFill_ResetAndAdvance(t *testing.T) {
	l, err := mesh.NewLattice(3, 1, mesh.DefaultLatticeOptions())
	require.NoError(t, err)
	field := make(stress.Field, l.VertexCount())
	mask := NewClaimMask(l.VertexCount())
	fill := NewFloodFill(AlwaysConnected)
	r := NewRegion(l.VertexCount())

	assert.Equal(t, Empty, r.State())
	assert.Equal(t, -1, r.Seed())
	assert.Equal(t, Empty, fill.Advance(l, field, mask, r), "advance on empty region is a no-op")

	mask.Claim(0)
	fill.Reset(l, 0, r)
	assert.Equal(t, Seeded, r.State())
	assert.Equal(t, 1, r.Size())
	assert.Equal(t, 1, r.FrontierLen())

	assert.Equal(t, Growing, fill.Advance(l, field, mask, r))
	assert.Equal(t, []int{0, 1}, r.Members())
	assert.False(t, mask.Considered(1))

	assert.Equal(t, Stable, fill.Advance(l, field, mask, r))
	assert.Equal(t, 3, r.Size())

	before := r.Members()
	assert.Equal(t, Stable, fill.Advance(l, field, mask, r))
	assert.Equal(t, before, r.Members())
}

func TestFloodFill_SkipsClaimedVertices(t *testing.T) {
	l, err := mesh.NewLattice(3, 1, mesh.DefaultLatticeOptions())
	require.NoError(t, err)
	field := make(stress.Field, l.VertexCount())
	mask := NewClaimMask(l.VertexCount())
	fill := NewFloodFill(AlwaysConnected)

	r := NewRegion(l.VertexCount())
	mask.Claim(0)
	fill.Reset(l, 0, r)
	mask.Claim(1) // another plate took the only way out

	assert.Equal(t, Stable, fill.Advance(l, field, mask, r))
	assert.Equal(t, 1, r.Size())
	assert.False(t, r.Includes(1))
}

func TestFloodFill_RejectionIsPerRegion(t *testing.T) {
	l, err := mesh.NewLattice(2, 1, mesh.DefaultLatticeOptions())
	require.NoError(t, err)
	field := make(stress.Field, l.VertexCount())
	mask := NewClaimMask(l.VertexCount())

	r := NewRegion(l.VertexCount())
	mask.Claim(0)
	NewFloodFill(NeverConnected).Reset(l, 0, r)
	assert.Equal(t, Stable, NewFloodFill(NeverConnected).Advance(l, field, mask, r))
	assert.True(t, mask.Considered(1), "rejected vertex stays available")
}

func TestFloodFill_GrowIsIterative(t *testing.T) {
	l, err := mesh.NewLattice(300, 300, mesh.DefaultLatticeOptions())
	require.NoError(t, err)
	field := make(stress.Field, l.VertexCount())
	mask := NewClaimMask(l.VertexCount())
	fill := NewFloodFill(AlwaysConnected)
	r := NewRegion(l.VertexCount())

	mask.Claim(0)
	fill.Reset(l, 0, r)
	fill.Grow(l, field, mask, r)
	assert.Equal(t, l.VertexCount(), r.Size())
	assert.Equal(t, l.VertexCount(), mask.ClaimedCount())
}

func TestNew_Options(t *testing.T) {
	f, err := New()
	require.NoError(t, err)
	assert.Equal(t, DefaultSeedGrowthBudget, f.Options().SeedGrowthBudget)
	assert.Equal(t, PolicyBackgroundReserved, f.Policy())
	assert.Equal(t, EarthlikeStrengths(), f.Fill().Predicate())

	_, err = New(WithSeedGrowthBudget(-1))
	assert.ErrorIs(t, err, ErrOptionViolation)
	_, err = New(WithPredicate(nil))
	assert.ErrorIs(t, err, ErrOptionViolation)
	_, err = New(WithPolicy(Policy(7)))
	assert.ErrorIs(t, err, ErrUnknownPolicy)

	f, err = New(WithStrengths(1, 2, 3), WithPolicy(PolicyAllRegions), WithParallel())
	require.NoError(t, err)
	assert.Equal(t, CrustIsUnfractured{Compressive: 1, Tensile: 2, Shear: 3}, f.Options().Predicate)
	assert.True(t, f.Options().Parallel)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
		err  error
	}{
		{"background", PolicyBackgroundReserved, nil},
		{"", PolicyBackgroundReserved, nil},
		{"ALL", PolicyAllRegions, nil},
		{"everything", 0, ErrUnknownPolicy},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, got, mustParse(t, got.String()))
	}
}

func mustParse(t *testing.T, s string) Policy {
	t.Helper()
	p, err := ParsePolicy(s)
	require.NoError(t, err)
	return p
}

func TestFracture_InputValidation(t *testing.T) {
	l, err := mesh.NewLattice(3, 3, mesh.DefaultLatticeOptions())
	require.NoError(t, err)
	f, err := New()
	require.NoError(t, err)

	field := make(stress.Field, l.VertexCount())
	regions := f.Initialize(l, 2)

	assert.ErrorIs(t, f.Fracture(nil, field, regions), ErrNilGrid)
	assert.ErrorIs(t, f.Fracture(l, field[:4], regions), ErrSizeMismatch)
	assert.ErrorIs(t, f.Fracture(l, field, nil), ErrNoRegions)
	assert.ErrorIs(t, f.Fracture(l, field, []*Region{NewRegion(2)}), ErrSizeMismatch)
	assert.NoError(t, f.Fracture(l, field, regions))
}

func TestRun_ConvergeContextCanceled(t *testing.T) {
	l, err := mesh.NewLattice(10, 10, mesh.DefaultLatticeOptions())
	require.NoError(t, err)
	f, err := New(WithPredicate(AlwaysConnected), WithSeedGrowthBudget(0), WithPolicy(PolicyAllRegions))
	require.NoError(t, err)

	run, err := f.Start(l, make(stress.Field, l.VertexCount()), f.Initialize(l, 2))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = run.ConvergeContext(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCanceled)

	var ce *ConvergenceError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 0, ce.Iteration)
	assert.Equal(t, 2, ce.Claimed)
	assert.False(t, run.Done())
}

func TestQueries(t *testing.T) {
	l, err := mesh.NewLattice(4, 1, mesh.DefaultLatticeOptions())
	require.NoError(t, err)
	f, err := New(WithPredicate(NeverConnected))
	require.NoError(t, err)

	field := stress.Field{{X: 4}, {}, {}, {X: 3}}
	regions := f.Initialize(l, 2)
	require.NoError(t, f.Fracture(l, field, regions))

	assert.Equal(t, []int{1, 1}, Sizes(regions))
	assert.Equal(t, []int{1, 0, 0, 1}, Counts(regions))
	assert.Equal(t, []int{0, 0, 0, 1}, Map(regions, PolicyBackgroundReserved))
	assert.Equal(t, []int{0, 0, 0, 1}, Map(regions, PolicyAllRegions))
	assert.Equal(t, []int{1, 2}, Unclaimed(regions))

	a := Assign(regions, PolicyBackgroundReserved)
	assert.Equal(t, Unclaimed(regions), a.Unclaimed)
	assert.Equal(t, Sizes(regions), a.Sizes)

	assert.Nil(t, Counts(nil))
	assert.Nil(t, Map(nil, PolicyAllRegions))
}

func TestBoundaries(t *testing.T) {
	l, err := mesh.NewLattice(3, 2, mesh.DefaultLatticeOptions())
	require.NoError(t, err)
	plateMap := []int{
		2, 2, 1,
		2, 0, 1,
	}
	got := Boundaries(l, plateMap)
	require.Len(t, got, 3)

	assert.Equal(t, 0, got[0].PlateA)
	assert.Equal(t, 1, got[0].PlateB)
	assert.Equal(t, [][2]int{{4, 5}}, got[0].Edges)

	assert.Equal(t, 0, got[1].PlateA)
	assert.Equal(t, 2, got[1].PlateB)
	assert.Equal(t, [][2]int{{1, 4}, {3, 4}}, got[1].Edges)

	assert.Equal(t, [][2]int{{1, 2}}, got[2].Edges)
}

func TestClassify(t *testing.T) {
	l, err := mesh.NewLattice(2, 1, mesh.DefaultLatticeOptions())
	require.NoError(t, err)
	plateMap := []int{0, 1}

	tests := []struct {
		name  string
		field stress.Field
		want  BoundaryKind
	}{
		{"apart", stress.Field{{X: -1}, {X: 1}}, Divergent},
		{"together", stress.Field{{X: 1}, {X: -1}}, Convergent},
		{"sliding", stress.Field{{Y: 1}, {Y: -1}}, Transform},
		{"still", stress.Field{{}, {}}, Unclassified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Boundaries(l, plateMap)
			Classify(l, tt.field, b)
			require.Len(t, b, 1)
			assert.Equal(t, tt.want, b[0].Kind, b[0].Kind.String())
		})
	}
}
