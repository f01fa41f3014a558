// Package stress holds the per-vertex displacement field that drives plate
// segmentation, plus simple generators standing in for the upstream
// buoyancy pipeline.
package stress

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/crustsim/internal/mesh"
)

var (
	// ErrSizeMismatch indicates a field whose length differs from the grid's vertex count.
	ErrSizeMismatch = errors.New("stress: field length does not match vertex count")

	// ErrInvalidVector indicates a NaN or Inf component.
	ErrInvalidVector = errors.New("stress: vector has NaN or Inf component")
)

// Field is one displacement vector per vertex, index-aligned with the grid.
type Field []r3.Vec

// Clone returns an independent copy.
func (f Field) Clone() Field {
	c := make(Field, len(f))
	copy(c, f)
	return c
}

// Magnitudes returns |f[i]| for every vertex.
func (f Field) Magnitudes() []float64 {
	out := make([]float64, len(f))
	for i, v := range f {
		out[i] = r3.Norm(v)
	}
	return out
}

// MaxMagnitude returns the largest vector length, or 0 for an empty field.
func (f Field) MaxMagnitude() float64 {
	best := 0.0
	for _, v := range f {
		if m := r3.Norm(v); m > best {
			best = m
		}
	}
	return best
}

// Validate checks the field against g.
func (f Field) Validate(g mesh.Grid) error {
	if len(f) != g.VertexCount() {
		return fmt.Errorf("%w: %d vectors, %d vertices", ErrSizeMismatch, len(f), g.VertexCount())
	}
	for i, v := range f {
		if !finite(v.X) || !finite(v.Y) || !finite(v.Z) {
			return fmt.Errorf("%w: vertex %d", ErrInvalidVector, i)
		}
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
