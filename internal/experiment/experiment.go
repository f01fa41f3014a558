package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/crustsim/internal/config"
	"github.com/san-kum/crustsim/internal/fracture"
	"github.com/san-kum/crustsim/internal/mesh"
	"github.com/san-kum/crustsim/internal/metrics"
	"github.com/san-kum/crustsim/internal/stress"
)

// Observer is notified after every convergence iteration.
type Observer interface {
	OnStep(iteration int, run *fracture.Run)
}

// Result is the outcome of one fracturing run.
type Result struct {
	fracture.Assignment
	Seeds      []int
	Boundaries []fracture.Boundary
	// Claimed holds the claimed vertex count after seeding and after each
	// convergence iteration.
	Claimed    []int
	Iterations int
	Metrics    map[string]float64
	Elapsed    time.Duration
}

type Experiment struct {
	cfg        *config.Config
	grid       mesh.Grid
	field      stress.Field
	fracturing *fracture.Fracturing
	metrics    []metrics.Metric
	observers  []Observer
}

// New validates cfg and builds its grid and stress field through r.
func New(cfg *config.Config, r *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, err := r.GetMesh(cfg)
	if err != nil {
		return nil, err
	}
	field, err := r.GetField(cfg, grid)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.FractureOptions()
	if err != nil {
		return nil, err
	}
	f, err := fracture.New(opts...)
	if err != nil {
		return nil, err
	}
	exp := &Experiment{
		cfg:        cfg,
		grid:       grid,
		field:      field,
		fracturing: f,
	}
	for _, m := range r.DefaultMetrics() {
		exp.AddMetric(m)
	}
	return exp, nil
}

func (e *Experiment) AddMetric(m metrics.Metric) { e.metrics = append(e.metrics, m) }
func (e *Experiment) AddObserver(o Observer)     { e.observers = append(e.observers, o) }

func (e *Experiment) Config() *config.Config           { return e.cfg }
func (e *Experiment) Grid() mesh.Grid                  { return e.grid }
func (e *Experiment) Field() stress.Field              { return e.field }
func (e *Experiment) Fracturing() *fracture.Fracturing { return e.fracturing }

// Start seeds a fresh set of plates and returns the run for stepping.
func (e *Experiment) Start() (*fracture.Run, error) {
	regions := e.fracturing.Initialize(e.grid, e.cfg.Plates)
	return e.fracturing.Start(e.grid, e.field, regions)
}

// Run fractures the grid to convergence. ctx is checked between
// iterations; on cancellation the partial result is returned with the error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	run, err := e.Start()
	if err != nil {
		return nil, err
	}

	claimed := []int{run.Mask().ClaimedCount()}
	for !run.Done() {
		select {
		case <-ctx.Done():
			res := e.Collect(run, claimed, start)
			return res, &fracture.ConvergenceError{
				Iteration: run.Iterations(),
				Claimed:   run.Mask().ClaimedCount(),
				Wrapped:   fmt.Errorf("%w: %w", fracture.ErrCanceled, ctx.Err()),
			}
		default:
		}

		run.Step()
		claimed = append(claimed, run.Mask().ClaimedCount())
		for _, o := range e.observers {
			o.OnStep(run.Iterations(), run)
		}
	}

	return e.Collect(run, claimed, start), nil
}

// Collect derives a Result from the current state of run.
func (e *Experiment) Collect(run *fracture.Run, claimed []int, start time.Time) *Result {
	regions := run.Regions()
	a := fracture.Assign(regions, e.fracturing.Policy())

	seeds := make([]int, len(regions))
	for i, r := range regions {
		seeds[i] = r.Seed()
	}

	boundaries := fracture.Boundaries(e.grid, a.Map)
	fracture.Classify(e.grid, e.field, boundaries)

	return &Result{
		Assignment: a,
		Seeds:      seeds,
		Boundaries: boundaries,
		Claimed:    claimed,
		Iterations: run.Iterations(),
		Metrics:    metrics.Evaluate(e.grid, a, e.metrics),
		Elapsed:    time.Since(start),
	}
}
