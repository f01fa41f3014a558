package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sphere is a subdivided icosahedron whose vertices lie on a sphere of the
// given radius centered on the origin.
type Sphere struct {
	*Mesh
	Level     int
	Radius    float64
	Triangles []int
}

// NewIcosphere subdivides a regular icosahedron level times and projects
// every vertex onto the sphere. Level 0 has 12 vertices; each level
// multiplies the face count by four (10*4^level + 2 vertices).
func NewIcosphere(level int, radius float64) (*Sphere, error) {
	if level < 0 || radius <= 0 {
		return nil, fmt.Errorf("%w: level %d radius %g", ErrBadDimensions, level, radius)
	}

	t := (1.0 + math.Sqrt(5.0)) / 2.0
	positions := []r3.Vec{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
	indices := []int{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	for i := 0; i < level; i++ {
		positions, indices = subdivide(positions, indices)
	}

	for i := range positions {
		positions[i] = r3.Scale(radius, r3.Unit(positions[i]))
	}

	m, err := FromTriangles(positions, indices)
	if err != nil {
		return nil, err
	}
	return &Sphere{Mesh: m, Level: level, Radius: radius, Triangles: indices}, nil
}

// Normal is the radial direction.
func (s *Sphere) Normal(id int) r3.Vec { return r3.Unit(s.Position(id)) }

// IcosphereVertexCount returns the vertex count of NewIcosphere(level, _).
func IcosphereVertexCount(level int) int {
	count := 10
	for i := 0; i < level; i++ {
		count *= 4
	}
	return count + 2
}

func subdivide(positions []r3.Vec, indices []int) ([]r3.Vec, []int) {
	midpoints := make(map[[2]int]int)
	out := make([]int, 0, len(indices)*4)

	midpoint := func(a, b int) int {
		key := [2]int{a, b}
		if a > b {
			key = [2]int{b, a}
		}
		if mid, ok := midpoints[key]; ok {
			return mid
		}
		positions = append(positions, r3.Scale(0.5, r3.Add(positions[a], positions[b])))
		midpoints[key] = len(positions) - 1
		return midpoints[key]
	}

	for i := 0; i < len(indices); i += 3 {
		v1, v2, v3 := indices[i], indices[i+1], indices[i+2]
		m1 := midpoint(v1, v2)
		m2 := midpoint(v2, v3)
		m3 := midpoint(v3, v1)
		out = append(out, v1, m1, m3, v2, m2, m1, v3, m3, m2, m1, m2, m3)
	}

	return positions, out
}
