package export

import (
	"strings"
	"testing"

	"github.com/san-kum/crustsim/internal/mesh"
)

func TestAutoProjection(t *testing.T) {
	l, _ := mesh.NewLattice(3, 3, mesh.DefaultLatticeOptions())
	if got := AutoProjection(l); got != Planar {
		t.Errorf("AutoProjection(lattice) = %v, want Planar", got)
	}
	s, _ := mesh.NewIcosphere(1, 1)
	if got := AutoProjection(s); got != Equirectangular {
		t.Errorf("AutoProjection(sphere) = %v, want Equirectangular", got)
	}
}

func TestPlateMapToSVG(t *testing.T) {
	l, _ := mesh.NewLattice(2, 2, mesh.DefaultLatticeOptions())
	svg := PlateMapToSVG(l, []int{0, 1, 0, 1}, 200, 100, Planar, []string{"#aa0000", "#00aa00"})

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an SVG document")
	}
	if got := strings.Count(svg, "<circle"); got != 4 {
		t.Errorf("circles = %d, want 4", got)
	}
	if got := strings.Count(svg, "<line"); got != 4 {
		t.Errorf("lines = %d, want 4", got)
	}
	// the two vertical edges stay inside a plate, the two horizontal ones cross
	if got := strings.Count(svg, `stroke="#ffffff"`); got != 2 {
		t.Errorf("boundary edges = %d, want 2", got)
	}
}

func TestPlateMapToSVG_Sphere(t *testing.T) {
	s, _ := mesh.NewIcosphere(2, 1)
	plateMap := make([]int, s.VertexCount())
	svg := PlateMapToSVG(s, plateMap, 400, 200, Equirectangular, nil)

	if got := strings.Count(svg, "<circle"); got != s.VertexCount() {
		t.Errorf("circles = %d, want %d", got, s.VertexCount())
	}
	if strings.Contains(svg, `stroke="#ffffff"`) {
		t.Error("single plate should have no boundary edges")
	}
}
