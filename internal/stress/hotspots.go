package stress

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/crustsim/internal/mesh"
)

// HotspotOptions parameterizes the synthetic buoyancy raster.
type HotspotOptions struct {
	Count     int
	Amplitude float64
	// Width is the gaussian falloff distance in grid units.
	Width float64
	Seed  int64
}

// DefaultHotspotOptions returns six unit hotspots.
func DefaultHotspotOptions() HotspotOptions {
	return HotspotOptions{Count: 6, Amplitude: 1, Width: 4, Seed: 1}
}

// Buoyancy sums Count gaussian bumps centered on randomly chosen vertices.
// Bump signs alternate so neighboring hotspots pull in opposite directions.
func Buoyancy(g mesh.Grid, opts HotspotOptions) []float64 {
	n := g.VertexCount()
	out := make([]float64, n)
	if n == 0 || opts.Count <= 0 || opts.Width <= 0 {
		return out
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	w2 := 2 * opts.Width * opts.Width
	for h := 0; h < opts.Count; h++ {
		center := g.Position(rng.Intn(n))
		amp := opts.Amplitude * (0.5 + rng.Float64())
		if h%2 == 1 {
			amp = -amp
		}
		for i := 0; i < n; i++ {
			d2 := r3.Norm2(r3.Sub(g.Position(i), center))
			out[i] += amp * math.Exp(-d2/w2)
		}
	}
	return out
}

// Hotspots returns the gradient of the Buoyancy raster.
func Hotspots(g mesh.Grid, opts HotspotOptions) (Field, error) {
	return Gradient(g, Buoyancy(g, opts))
}
