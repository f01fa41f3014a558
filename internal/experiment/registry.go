package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/crustsim/internal/config"
	"github.com/san-kum/crustsim/internal/mesh"
	"github.com/san-kum/crustsim/internal/metrics"
	"github.com/san-kum/crustsim/internal/stress"
)

// MeshBuilder turns a configuration into a grid.
type MeshBuilder func(cfg *config.Config) (mesh.Grid, error)

// StressGenerator produces the displacement field for a grid.
type StressGenerator func(cfg *config.Config, g mesh.Grid) (stress.Field, error)

type Registry struct {
	meshes     map[string]MeshBuilder
	generators map[string]StressGenerator
}

func NewRegistry() *Registry {
	r := &Registry{
		meshes:     make(map[string]MeshBuilder),
		generators: make(map[string]StressGenerator),
	}

	r.meshes["lattice"] = func(cfg *config.Config) (mesh.Grid, error) {
		return mesh.NewLattice(cfg.Mesh.Width, cfg.Mesh.Height, cfg.LatticeOptions())
	}
	r.meshes["icosphere"] = func(cfg *config.Config) (mesh.Grid, error) {
		return mesh.NewIcosphere(cfg.Mesh.Level, cfg.Mesh.Radius)
	}

	r.generators["hotspots"] = func(cfg *config.Config, g mesh.Grid) (stress.Field, error) {
		return stress.Hotspots(g, cfg.HotspotOptions())
	}
	r.generators["zero"] = func(_ *config.Config, g mesh.Grid) (stress.Field, error) {
		return make(stress.Field, g.VertexCount()), nil
	}
	r.generators["file"] = func(cfg *config.Config, g mesh.Grid) (stress.Field, error) {
		f, err := stress.Load(cfg.Stress.File)
		if err != nil {
			return nil, err
		}
		if err := f.Validate(g); err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Stress.File, err)
		}
		return f, nil
	}

	return r
}

// RegisterMesh adds or replaces a mesh kind.
func (r *Registry) RegisterMesh(kind string, b MeshBuilder) { r.meshes[kind] = b }

// RegisterGenerator adds or replaces a stress generator.
func (r *Registry) RegisterGenerator(name string, g StressGenerator) { r.generators[name] = g }

func (r *Registry) GetMesh(cfg *config.Config) (mesh.Grid, error) {
	fn, ok := r.meshes[cfg.Mesh.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown mesh: %s", cfg.Mesh.Kind)
	}
	return fn(cfg)
}

func (r *Registry) GetField(cfg *config.Config, g mesh.Grid) (stress.Field, error) {
	fn, ok := r.generators[cfg.Stress.Generator]
	if !ok {
		return nil, fmt.Errorf("unknown stress generator: %s", cfg.Stress.Generator)
	}
	return fn(cfg, g)
}

func (r *Registry) ListMeshes() []string     { return sortedKeys(r.meshes) }
func (r *Registry) ListGenerators() []string { return sortedKeys(r.generators) }

func (r *Registry) DefaultMetrics() []metrics.Metric {
	return metrics.Defaults()
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
