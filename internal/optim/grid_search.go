package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/crustsim/internal/config"
	"github.com/san-kum/crustsim/internal/experiment"
)

// Trial is one evaluated parameter combination.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Maximize makes Search prefer larger metric values.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

// Search evaluates every combination of the ranges and returns the best
// parameters, their score, and every trial in visiting order.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("grid search: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	if g.maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64
	var trials []Trial

	g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &best, &bestParams, &trials)

	if err := ctx.Err(); err != nil {
		return bestParams, best, trials, err
	}
	return bestParams, best, trials, nil
}

func (g *GridSearch) better(val, best float64) bool {
	if g.maximize {
		return val > best
	}
	return val < best
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	best *float64,
	bestParams *map[string]float64,
	trials *[]Trial,
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		trial := Trial{Params: current}
		defer func() { *trials = append(*trials, trial) }()

		exp, err := buildExperiment(current)
		if err != nil {
			trial.Err = err
			return
		}

		result, err := exp.Run(ctx)
		if err != nil {
			trial.Err = err
			return
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			trial.Err = fmt.Errorf("unknown metric: %s", metricName)
			return
		}
		trial.Value = val
		if g.better(val, *best) {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, best, bestParams, trials)
	}
}

// Apply copies base and overrides the fields named in params. Known names
// are compressive, tensile, shear, plates, seed_growth_budget, hotspots,
// amplitude, width and seed.
func Apply(base *config.Config, params map[string]float64) (*config.Config, error) {
	cfg := base.Clone()
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, name := range names {
		v := params[name]
		switch name {
		case "compressive":
			cfg.Strengths.Compressive = v
		case "tensile":
			cfg.Strengths.Tensile = v
		case "shear":
			cfg.Strengths.Shear = v
		case "plates":
			cfg.Plates = int(v)
		case "seed_growth_budget":
			cfg.SeedGrowthBudget = int(v)
		case "hotspots":
			cfg.Stress.Hotspots = int(v)
		case "amplitude":
			cfg.Stress.Amplitude = v
		case "width":
			cfg.Stress.Width = v
		case "seed":
			cfg.Stress.Seed = int64(v)
		default:
			return nil, fmt.Errorf("unknown sweep parameter: %s", name)
		}
	}
	return cfg, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
