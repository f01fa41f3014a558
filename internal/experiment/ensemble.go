package experiment

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/crustsim/internal/config"
)

// Ensemble fractures several configurations concurrently, one goroutine
// per configuration.
type Ensemble struct {
	registry *Registry
	configs  []*config.Config
}

func NewEnsemble(r *Registry, configs ...*config.Config) *Ensemble {
	return &Ensemble{registry: r, configs: configs}
}

// Add appends a configuration and returns its index.
func (e *Ensemble) Add(cfg *config.Config) int {
	e.configs = append(e.configs, cfg)
	return len(e.configs) - 1
}

func (e *Ensemble) Len() int { return len(e.configs) }

// Run returns one result per configuration in insertion order. The first
// failing configuration, by index, determines the returned error.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(e.configs))
	errs := make([]error, len(e.configs))

	var wg sync.WaitGroup
	for i := range e.configs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			exp, err := New(e.configs[idx], e.registry)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("ensemble member %d: %w", i, err)
		}
	}

	return results, nil
}
