// Package optim searches pendulum parameters for the run that minimizes a
// metric.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/doubleswing/internal/physics"
	"github.com/san-kum/doubleswing/internal/sim"
)

// RunFunc runs one simulation with the candidate parameters.
type RunFunc func(ctx context.Context, p physics.Params) (*sim.Result, error)

// GridSearch tries every combination of the given values, one axis per
// parameter name accepted by physics.Params.SetParam.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Outcome is the best grid point found.
type Outcome struct {
	Params map[string]float64
	Value  float64
	Tried  int
	Failed int
}

// Search runs every grid point from base and keeps the lowest value of
// metricName. Runs that fail or lack the metric count as failed and are
// skipped; cancellation stops the search.
func (g *GridSearch) Search(ctx context.Context, base physics.Params, run RunFunc, metricName string) (Outcome, error) {
	out := Outcome{Value: math.Inf(1)}
	err := g.searchRecursive(ctx, 0, base, make(map[string]float64), run, metricName, &out)
	if err != nil {
		return out, err
	}
	if out.Params == nil {
		return out, fmt.Errorf("no run produced metric %q", metricName)
	}
	return out, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	p physics.Params,
	current map[string]float64,
	run RunFunc,
	metricName string,
	out *Outcome,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		out.Tried++
		result, err := run(ctx, p)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			out.Failed++
			return nil
		}

		val, ok := result.Metrics[metricName]
		if !ok || math.IsNaN(val) {
			out.Failed++
			return nil
		}
		if val < out.Value {
			out.Value = val
			out.Params = make(map[string]float64, len(current))
			for k, v := range current {
				out.Params[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := p
		if err := next.SetParam(paramName, val); err != nil {
			return err
		}
		current[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, next, current, run, metricName, out); err != nil {
			return err
		}
	}
	delete(current, paramName)
	return nil
}

// Linspace returns n evenly spaced values from min to max inclusive.
func Linspace(min, max float64, n int) []float64 {
	if n <= 1 {
		return []float64{min}
	}
	out := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	return out
}
