package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/doubleswing/internal/engine"
	"github.com/san-kum/doubleswing/internal/physics"
	"github.com/san-kum/doubleswing/internal/sim"
)

// BifurcationPoint holds the distinct Poincare values of th2 seen for one
// parameter value.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// BifurcationDiagram sweeps the named parameter of p (see
// physics.Params.SetParam) from paramMin to paramMax. For every value it
// runs the free pendulum from s0, discards the transient seconds and keeps
// th2 at each section crossing during the following record seconds.
func BifurcationDiagram(
	p physics.Params,
	paramName string,
	paramMin, paramMax float64,
	paramSteps int,
	s0 physics.State,
	dt, transient, record float64,
) ([]BifurcationPoint, error) {
	if paramSteps <= 1 {
		paramSteps = 2
	}
	dt = engine.ClampStep(dt)
	if dt == 0 {
		return nil, fmt.Errorf("dt must be positive")
	}

	paramStep := (paramMax - paramMin) / float64(paramSteps-1)
	results := make([]BifurcationPoint, 0, paramSteps)
	transientSteps := int(transient / dt)
	recordSteps := int(record / dt)

	for i := 0; i < paramSteps; i++ {
		param := paramMin + float64(i)*paramStep
		sweep := p
		if err := sweep.SetParam(paramName, param); err != nil {
			return nil, err
		}

		e := engine.New(sweep, s0)
		for n := 0; n < transientSteps; n++ {
			e.Step(dt)
		}

		run := &sim.Result{States: make([]physics.State, 0, recordSteps+1)}
		run.States = append(run.States, e.State())
		for n := 0; n < recordSteps; n++ {
			e.Step(dt)
			run.States = append(run.States, e.State())
		}

		values := make([]float64, 0)
		seen := make(map[int]bool)
		for _, pt := range NewPoincareSection(run).Points {
			// quantize to find distinct values
			key := int(pt.X * 1000)
			if !seen[key] {
				seen[key] = true
				values = append(values, pt.X)
			}
		}

		results = append(results, BifurcationPoint{Param: param, Values: values})
	}

	return results, nil
}

// BifurcationToASCII plots parameter across and values up.
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	found := false
	for _, p := range data {
		for _, v := range p.Values {
			if !found {
				minVal, maxVal = v, v
				found = true
				continue
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if !found {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := i * width / len(data)
		if col >= width {
			col = width - 1
		}
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
