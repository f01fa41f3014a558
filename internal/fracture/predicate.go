package fracture

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Predicate decides whether two adjacent vertices still belong to the same
// rigid plate. a and b are positions, u and v their displacement samples,
// normal the unit surface normal at the edge (zero when unknown).
type Predicate interface {
	Connected(a, u, b, v, normal r3.Vec) bool
}

// PredicateFunc adapts a plain function to Predicate.
type PredicateFunc func(a, u, b, v, normal r3.Vec) bool

func (f PredicateFunc) Connected(a, u, b, v, normal r3.Vec) bool { return f(a, u, b, v, normal) }

var (
	// AlwaysConnected never fractures.
	AlwaysConnected Predicate = PredicateFunc(func(_, _, _, _, _ r3.Vec) bool { return true })

	// NeverConnected fractures every edge.
	NeverConnected Predicate = PredicateFunc(func(_, _, _, _, _ r3.Vec) bool { return false })
)

// CrustIsUnfractured is a nonphysical yet physically informed fracture
// criterion. Strengths are expressed as strain factors: displacement
// difference per unit edge length, divided once more by edge length.
type CrustIsUnfractured struct {
	Compressive float64
	Tensile     float64
	Shear       float64
}

// EarthlikeStrengths returns strengths tuned for buoyancy gradients in SI
// units on an Earth-sized grid.
func EarthlikeStrengths() CrustIsUnfractured {
	return CrustIsUnfractured{Compressive: 1e-30, Tensile: 3e-11, Shear: 3e-10}
}

// Factors returns the tensile and shear strain factors for the edge a-b.
// The shear axis runs along the surface, orthogonal to the edge; it is
// undefined, and the shear factor zero, when normal is zero or parallel to
// the edge. Coincident vertices yield zero for both.
func (c CrustIsUnfractured) Factors(a, u, b, v, normal r3.Vec) (tensile, shear float64) {
	i := r3.Sub(b, a)
	l := r3.Norm(i)
	if l == 0 {
		return 0, 0
	}
	dl := r3.Sub(v, u)
	tensile = r3.Dot(dl, i) / l / l

	if j := r3.Cross(i, normal); r3.Norm2(j) > 0 {
		j = r3.Scale(l, r3.Unit(j))
		shear = r3.Dot(dl, j) / l / l
	}
	return tensile, shear
}

// Connected reports whether tensile lies strictly between -Compressive and
// Tensile and |shear| is below Shear.
func (c CrustIsUnfractured) Connected(a, u, b, v, normal r3.Vec) bool {
	tensile, shear := c.Factors(a, u, b, v, normal)
	return -c.Compressive < tensile && tensile < c.Tensile && math.Abs(shear) < c.Shear
}
