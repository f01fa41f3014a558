package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/crustsim/internal/config"
	"github.com/san-kum/crustsim/internal/experiment"
	"github.com/san-kum/crustsim/internal/optim"
	"github.com/san-kum/crustsim/internal/storage"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario is a scripted sequence of fracturing runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. The base configuration comes from Config
// (a YAML file) or Preset ("kind/name"), falling back to the defaults;
// Params are then applied on top.
type ScenarioStep struct {
	Name   string             `yaml:"name"`
	Preset string             `yaml:"preset"`
	Config string             `yaml:"config"`
	Params map[string]float64 `yaml:"params"`
	Policy string             `yaml:"policy"`
	Save   bool               `yaml:"save"`
}

// StepResult pairs a step with its outcome and, when saved, its run id.
type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Result *experiment.Result
	RunID  string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// Resolve builds the configuration a step runs with.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	var base *config.Config
	switch {
	case s.Config != "":
		cfg, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		base = cfg
	case s.Preset != "":
		kind, name, ok := strings.Cut(s.Preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset %q: want kind/name", s.Preset)
		}
		base = config.GetPreset(kind, name)
		if base == nil {
			return nil, fmt.Errorf("preset %q not found", s.Preset)
		}
	default:
		base = config.DefaultConfig()
	}

	cfg, err := optim.Apply(base, s.Params)
	if err != nil {
		return nil, err
	}
	if s.Policy != "" {
		cfg.Policy = s.Policy
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order. Steps marked save are written
// to store when it is not nil. Progress lines go to out.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, store *storage.Store, out io.Writer) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		label := step.Name
		if label == "" {
			label = step.Preset
		}
		fmt.Fprintf(out, "Running step %d/%d: %s\n", i+1, len(scenario.Steps), label)

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp, err := experiment.New(cfg, registry)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Config: cfg, Result: result}
		if step.Save && store != nil {
			id, err := store.Save(cfg, exp.Field(), result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}

// MonteCarloConfig reruns a base configuration with a fresh stress seed
// per trial.
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	Metric    string
	Seed      int64
}

type MonteCarloResult struct {
	TrialID    int
	StressSeed int64
	Value      float64
	Iterations int
	Unclaimed  int
}

// RunMonteCarlo executes NumTrials runs over randomized hotspot fields.
// Trials run concurrently; results keep trial order.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry, out io.Writer) ([]MonteCarloResult, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	ensemble := experiment.NewEnsemble(registry)
	seeds := make([]int64, cfg.NumTrials)
	for trial := range seeds {
		trialCfg := cfg.Base.Clone()
		trialCfg.Stress.Seed = rng.Int63()
		seeds[trial] = trialCfg.Stress.Seed
		ensemble.Add(trialCfg)
	}

	runs, err := ensemble.Run(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial, result := range runs {
		value, ok := result.Metrics[cfg.Metric]
		if !ok {
			return nil, fmt.Errorf("unknown metric: %s", cfg.Metric)
		}
		results = append(results, MonteCarloResult{
			TrialID:    trial,
			StressSeed: seeds[trial],
			Value:      value,
			Iterations: result.Iterations,
			Unclaimed:  len(result.Unclaimed),
		})
	}

	fmt.Fprintf(out, "Monte Carlo: %d/%d trials complete\n", len(results), cfg.NumTrials)
	return results, nil
}

// MonteCarloStats returns the mean, standard deviation, minimum and
// maximum metric value over results.
func MonteCarloStats(results []MonteCarloResult) (mean, stddev, lo, hi float64) {
	if len(results) == 0 {
		return 0, 0, 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range results {
		mean += r.Value
		lo = math.Min(lo, r.Value)
		hi = math.Max(hi, r.Value)
	}
	mean /= float64(len(results))
	for _, r := range results {
		d := r.Value - mean
		stddev += d * d
	}
	stddev = math.Sqrt(stddev / float64(len(results)))
	return
}
