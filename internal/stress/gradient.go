package stress

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/crustsim/internal/mesh"
)

// Gradient estimates the gradient of a per-vertex scalar raster by averaging
// directional differences along each incident edge:
//
//	grad_i = 1/deg(i) * sum_j (s_j - s_i) * (p_j - p_i) / |p_j - p_i|^2
//
// Vertices without neighbors, or whose edges all have zero length, get the
// zero vector. The result is projected onto the surface tangent plane when
// the grid implements mesh.Normaler.
func Gradient(g mesh.Grid, scalars []float64) (Field, error) {
	n := g.VertexCount()
	if len(scalars) != n {
		return nil, ErrSizeMismatch
	}

	normaler, hasNormals := g.(mesh.Normaler)
	out := make(Field, n)
	for i := 0; i < n; i++ {
		pi := g.Position(i)
		var sum r3.Vec
		used := 0
		for _, j := range g.Neighbors(i) {
			d := r3.Sub(g.Position(j), pi)
			l2 := r3.Norm2(d)
			if l2 == 0 {
				continue
			}
			sum = r3.Add(sum, r3.Scale((scalars[j]-scalars[i])/l2, d))
			used++
		}
		if used == 0 {
			continue
		}
		grad := r3.Scale(1/float64(used), sum)
		if hasNormals {
			k := normaler.Normal(i)
			grad = r3.Sub(grad, r3.Scale(r3.Dot(grad, k), k))
		}
		out[i] = grad
	}
	return out, nil
}
