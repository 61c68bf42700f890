package optim

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/springbone/internal/config"
	"github.com/san-kum/springbone/internal/experiment"
	"github.com/san-kum/springbone/internal/sim"
)

// Runner runs one configured experiment.
type Runner func(ctx context.Context, cfg *config.Config) (*sim.Result, error)

// GridSearch evaluates every combination of chain parameter values and
// keeps the one with the lowest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, workers: 4}
}

// SetWorkers bounds how many trials run at once.
func (g *GridSearch) SetWorkers(n int) {
	if n > 0 {
		g.workers = n
	}
}

type Trial struct {
	Params map[string]float64
	Value  float64
}

// Search runs a trial per grid point against copies of base. Ties keep
// the earliest grid point.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string, run Runner) (Trial, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Trial{}, nil, fmt.Errorf("grid search: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	points := g.points(0, map[string]float64{}, nil)
	trials := make([]Trial, len(points))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, params := range points {
		i, params := i, params
		eg.Go(func() error {
			cfg := *base
			for name, v := range params {
				if err := cfg.Chain.Set(name, v); err != nil {
					return err
				}
			}
			result, err := run(ctx, &cfg)
			if err != nil {
				return fmt.Errorf("trial %v: %w", params, err)
			}
			val, ok := result.Metrics[metricName]
			if !ok {
				return fmt.Errorf("trial %v: no metric %q", params, metricName)
			}
			trials[i] = Trial{Params: params, Value: val}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Trial{}, nil, err
	}

	best := Trial{Value: math.Inf(1)}
	for _, t := range trials {
		if t.Value < best.Value {
			best = t
		}
	}
	return best, trials, nil
}

func (g *GridSearch) points(depth int, current map[string]float64, out []map[string]float64) []map[string]float64 {
	if depth == len(g.paramNames) {
		p := make(map[string]float64, len(current))
		for k, v := range current {
			p[k] = v
		}
		return append(out, p)
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		out = g.points(depth+1, current, out)
	}
	delete(current, name)
	return out
}

// ExperimentRunner runs cfg as a full experiment with the registry's
// default metrics.
func ExperimentRunner(registry *experiment.Registry) Runner {
	return func(ctx context.Context, cfg *config.Config) (*sim.Result, error) {
		exp := experiment.New(cfg)
		if err := exp.Setup(registry.DefaultMetrics(cfg.Model), nil); err != nil {
			return nil, err
		}
		defer exp.Close()
		return exp.Run(ctx)
	}
}
