package config

import "sort"

var Presets = map[string]map[string]*Config{
	"lattice": {
		"small": {
			Mesh:      MeshConfig{Kind: "lattice", Width: 24, Height: 12, Connectivity: 4, Spacing: 1},
			Stress:    StressConfig{Generator: "hotspots", Hotspots: 4, Amplitude: 1, Width: 3, Seed: 1},
			Strengths: StrengthConfig{Compressive: 0.03, Tensile: 0.02, Shear: 0.03},
			Plates:    4, SeedGrowthBudget: 30, Policy: "background",
		},
		"continent": {
			Mesh:      MeshConfig{Kind: "lattice", Width: 96, Height: 48, Connectivity: 8, Spacing: 1},
			Stress:    StressConfig{Generator: "hotspots", Hotspots: 10, Amplitude: 1, Width: 8, Seed: 7},
			Strengths: StrengthConfig{Compressive: 0.02, Tensile: 0.015, Shear: 0.02},
			Plates:    12, SeedGrowthBudget: 30, Policy: "all",
		},
		"shattered": {
			Mesh:      MeshConfig{Kind: "lattice", Width: 48, Height: 24, Connectivity: 4, Spacing: 1},
			Stress:    StressConfig{Generator: "hotspots", Hotspots: 12, Amplitude: 2, Width: 2, Seed: 3},
			Strengths: StrengthConfig{Compressive: 0.01, Tensile: 0.005, Shear: 0.01},
			Plates:    16, SeedGrowthBudget: 10, Policy: "all",
		},
		"rigid": {
			Mesh:      MeshConfig{Kind: "lattice", Width: 48, Height: 24, Connectivity: 4, Spacing: 1},
			Stress:    StressConfig{Generator: "hotspots", Hotspots: 6, Amplitude: 1, Width: 4, Seed: 1},
			Strengths: StrengthConfig{Compressive: 1, Tensile: 1, Shear: 1},
			Plates:    6, SeedGrowthBudget: 30, Policy: "all",
		},
	},
	"icosphere": {
		"coarse": {
			Mesh:      MeshConfig{Kind: "icosphere", Level: 2, Radius: 1},
			Stress:    StressConfig{Generator: "hotspots", Hotspots: 4, Amplitude: 1, Width: 0.5, Seed: 1},
			Strengths: StrengthConfig{Compressive: 0.3, Tensile: 0.2, Shear: 0.3},
			Plates:    5, SeedGrowthBudget: 30, Policy: "background",
		},
		"globe": {
			Mesh:      MeshConfig{Kind: "icosphere", Level: 4, Radius: 1},
			Stress:    StressConfig{Generator: "hotspots", Hotspots: 8, Amplitude: 1, Width: 0.4, Seed: 42},
			Strengths: StrengthConfig{Compressive: 0.5, Tensile: 0.3, Shear: 0.5},
			Plates:    12, SeedGrowthBudget: 30, Policy: "all",
		},
		"fine": {
			Mesh:      MeshConfig{Kind: "icosphere", Level: 5, Radius: 1},
			Stress:    StressConfig{Generator: "hotspots", Hotspots: 16, Amplitude: 1, Width: 0.3, Seed: 9},
			Strengths: StrengthConfig{Compressive: 0.5, Tensile: 0.3, Shear: 0.5},
			Plates:    20, SeedGrowthBudget: 30, Policy: "all", Parallel: true,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(kind, preset string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Kinds returns the mesh kinds that have presets.
func Kinds() []string {
	kinds := make([]string, 0, len(Presets))
	for k := range Presets {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
