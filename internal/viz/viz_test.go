package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/crustsim/internal/mesh"
)

func TestRenderLattice(t *testing.T) {
	l, err := mesh.NewLattice(3, 2, mesh.DefaultLatticeOptions())
	require.NoError(t, err)

	out := RenderLattice(l, []int{0, 0, 1, 0, 0, 1}, []int{1, 0, 1, 1, 2, 1}, ThemeMono)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, 3, lipgloss.Width(lines[0]))
	assert.Contains(t, out, glyphUnclaimed)
	assert.Contains(t, out, glyphContested)
	assert.Contains(t, out, glyphBoundary)
}

func TestRenderLatticeFit(t *testing.T) {
	l, err := mesh.NewLattice(40, 10, mesh.DefaultLatticeOptions())
	require.NoError(t, err)
	plateMap := make([]int, l.VertexCount())

	lines := strings.Split(RenderLatticeFit(l, plateMap, nil, 20, 4, ThemeMono), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, 20, lipgloss.Width(lines[0]))

	lines = strings.Split(RenderLatticeFit(l, plateMap, nil, 100, 100, ThemeMono), "\n")
	assert.Len(t, lines, 10)
}

func TestRenderCounts(t *testing.T) {
	l, err := mesh.NewLattice(2, 2, mesh.DefaultLatticeOptions())
	require.NoError(t, err)
	assert.Equal(t, "10\n1+", RenderCounts(l, []int{1, 0, 1, 12}))
}

func TestRenderProjection(t *testing.T) {
	s, err := mesh.NewIcosphere(1, 1)
	require.NoError(t, err)
	plateMap := make([]int, s.VertexCount())
	for id := range plateMap {
		if s.Position(id).Z > 0 {
			plateMap[id] = 1
		}
	}

	out := RenderProjection(s, plateMap, nil, 20, 8, ThemeAtlas)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 8)
	for _, line := range lines {
		assert.Equal(t, 20, lipgloss.Width(line))
	}
}

func TestThemes(t *testing.T) {
	assert.Equal(t, "atlas", GetTheme("nope").Name)
	assert.Equal(t, []string{"atlas", "magma", "ocean", "mono"}, ThemeNames())

	mono := GetTheme("mono")
	assert.Equal(t, mono.Plates[0], mono.PlateColor(len(mono.Plates)))

	SetTheme("ocean")
	defer SetTheme("atlas")
	assert.Equal(t, "ocean", CurrentTheme.Name)
}

func TestCharts(t *testing.T) {
	assert.Empty(t, SizeChart(nil, 5))
	assert.Contains(t, SizeChart([]int{3, 9, 1}, 5), "plate sizes")
	assert.Contains(t, GrowthChart([]int{4}, 20, 5), "claimed")
}

func TestWriteSizeChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sizes.png")
	require.NoError(t, WriteSizeChart(path, []int{10, 40, 25}, "plates"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSparklineAndProgress(t *testing.T) {
	assert.Equal(t, 10, lipgloss.Width(ProgressBar(0.5, 10)))
	assert.Equal(t, 4, lipgloss.Width(Sparkline([]float64{1, 2, 3, 4}, 4)))
	assert.Equal(t, 3, lipgloss.Width(Sparkline(nil, 3)))
}
