package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/crustsim/internal/fracture"
	"github.com/san-kum/crustsim/internal/mesh"
	"github.com/san-kum/crustsim/internal/stress"
)

const (
	DefaultWidth       = 48
	DefaultHeight      = 24
	DefaultLevel       = 3
	DefaultRadius      = 1.0
	DefaultPlates      = 8
	DefaultCompressive = 0.03
	DefaultTensile     = 0.02
	DefaultShear       = 0.03
)

// ErrInvalid indicates a configuration that cannot produce a run.
var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Mesh             MeshConfig     `yaml:"mesh"`
	Stress           StressConfig   `yaml:"stress"`
	Strengths        StrengthConfig `yaml:"strengths"`
	Plates           int            `yaml:"plates"`
	SeedGrowthBudget int            `yaml:"seed_growth_budget"`
	Policy           string         `yaml:"policy"`
	Parallel         bool           `yaml:"parallel"`
}

type MeshConfig struct {
	Kind         string  `yaml:"kind"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Connectivity int     `yaml:"connectivity"`
	Spacing      float64 `yaml:"spacing"`
	Level        int     `yaml:"level"`
	Radius       float64 `yaml:"radius"`
}

type StressConfig struct {
	Generator string  `yaml:"generator"`
	File      string  `yaml:"file,omitempty"`
	Hotspots  int     `yaml:"hotspots"`
	Amplitude float64 `yaml:"amplitude"`
	Width     float64 `yaml:"width"`
	Seed      int64   `yaml:"seed"`
}

type StrengthConfig struct {
	Compressive float64 `yaml:"compressive"`
	Tensile     float64 `yaml:"tensile"`
	Shear       float64 `yaml:"shear"`
}

func DefaultConfig() *Config {
	hs := stress.DefaultHotspotOptions()
	return &Config{
		Mesh: MeshConfig{
			Kind:         "lattice",
			Width:        DefaultWidth,
			Height:       DefaultHeight,
			Connectivity: int(mesh.Conn4),
			Spacing:      1,
			Level:        DefaultLevel,
			Radius:       DefaultRadius,
		},
		Stress: StressConfig{
			Generator: "hotspots",
			Hotspots:  hs.Count,
			Amplitude: hs.Amplitude,
			Width:     hs.Width,
			Seed:      hs.Seed,
		},
		Strengths: StrengthConfig{
			Compressive: DefaultCompressive,
			Tensile:     DefaultTensile,
			Shear:       DefaultShear,
		},
		Plates:           DefaultPlates,
		SeedGrowthBudget: fracture.DefaultSeedGrowthBudget,
		Policy:           fracture.PolicyBackgroundReserved.String(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate checks the fields a run depends on.
func (c *Config) Validate() error {
	switch c.Mesh.Kind {
	case "lattice":
		if c.Mesh.Width <= 0 || c.Mesh.Height <= 0 {
			return fmt.Errorf("%w: lattice %dx%d", ErrInvalid, c.Mesh.Width, c.Mesh.Height)
		}
		if c.Mesh.Connectivity != int(mesh.Conn4) && c.Mesh.Connectivity != int(mesh.Conn8) {
			return fmt.Errorf("%w: connectivity %d", ErrInvalid, c.Mesh.Connectivity)
		}
		if c.Mesh.Spacing <= 0 {
			return fmt.Errorf("%w: spacing %g", ErrInvalid, c.Mesh.Spacing)
		}
	case "icosphere":
		if c.Mesh.Level < 0 || c.Mesh.Radius <= 0 {
			return fmt.Errorf("%w: icosphere level %d radius %g", ErrInvalid, c.Mesh.Level, c.Mesh.Radius)
		}
	default:
		return fmt.Errorf("%w: unknown mesh kind %q", ErrInvalid, c.Mesh.Kind)
	}

	switch c.Stress.Generator {
	case "hotspots", "zero":
	case "file":
		if c.Stress.File == "" {
			return fmt.Errorf("%w: stress generator file needs a path", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown stress generator %q", ErrInvalid, c.Stress.Generator)
	}

	if c.Plates <= 0 {
		return fmt.Errorf("%w: plates %d", ErrInvalid, c.Plates)
	}
	if c.SeedGrowthBudget < 0 {
		return fmt.Errorf("%w: seed growth budget %d", ErrInvalid, c.SeedGrowthBudget)
	}
	if _, err := fracture.ParsePolicy(c.Policy); err != nil {
		return err
	}
	return nil
}

func (c *Config) LatticeOptions() mesh.LatticeOptions {
	return mesh.LatticeOptions{Conn: mesh.Connectivity(c.Mesh.Connectivity), Spacing: c.Mesh.Spacing}
}

func (c *Config) HotspotOptions() stress.HotspotOptions {
	return stress.HotspotOptions{
		Count:     c.Stress.Hotspots,
		Amplitude: c.Stress.Amplitude,
		Width:     c.Stress.Width,
		Seed:      c.Stress.Seed,
	}
}

// FractureOptions translates the plate settings into fracture options.
func (c *Config) FractureOptions() ([]fracture.Option, error) {
	policy, err := fracture.ParsePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	opts := []fracture.Option{
		fracture.WithStrengths(c.Strengths.Compressive, c.Strengths.Tensile, c.Strengths.Shear),
		fracture.WithSeedGrowthBudget(c.SeedGrowthBudget),
		fracture.WithPolicy(policy),
	}
	if c.Parallel {
		opts = append(opts, fracture.WithParallel())
	}
	return opts, nil
}
