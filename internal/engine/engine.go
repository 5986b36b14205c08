// Package engine owns one double pendulum and advances it frame by frame.
//
// A driver calls exactly one step method per frame with the elapsed time:
// [Engine.Step] when nothing is held, [Engine.StepDrag] while link 1 is
// manipulated, [Engine.StepHoldLink2] while bob 2 is. The frame time is
// clamped to [0, MaxStep] so a stalled frame cannot blow up the integrator.
//
// An Engine is not safe for concurrent use.
package engine

import (
	"math"

	"github.com/san-kum/doubleswing/internal/angle"
	"github.com/san-kum/doubleswing/internal/integrators"
	"github.com/san-kum/doubleswing/internal/physics"
)

// MaxStep is the longest time advanced by a single step call.
const MaxStep = 1.0 / 15

// ClampStep limits dt to [0, MaxStep]. NaN becomes 0.
func ClampStep(dt float64) float64 {
	if math.IsNaN(dt) || dt < 0 {
		return 0
	}
	if dt > MaxStep {
		return MaxStep
	}
	return dt
}

type Engine struct {
	params physics.Params
	state  physics.State
	rk     *integrators.RK4
}

// New builds an engine from copies of p and s. Both angles are normalized.
func New(p physics.Params, s physics.State) *Engine {
	return &Engine{
		params: p,
		state:  s.Normalized(),
		rk:     integrators.NewRK4(),
	}
}

// Step advances the free system by dt.
func (e *Engine) Step(dt float64) {
	e.rk.Free(&e.params, &e.state, ClampStep(dt))
}

// StepDrag imposes link 1's angle th1, rate w1 and angular acceleration a1,
// then advances link 2 by dt under the resulting pivot acceleration. a1 only
// shapes this step; it is not stored.
func (e *Engine) StepDrag(dt, th1, w1, a1 float64) {
	dt = ClampStep(dt)

	e.state.Th1 = angle.Normalize(th1)
	e.state.W1 = w1

	xdd, ydd := e.params.PivotAccel(e.state.Th1, e.state.W1, a1)
	e.rk.Driven(&e.params, &e.state.Th2, &e.state.W2, dt, xdd, ydd)
}

// StepHoldLink2 pins link 2 at th2 with rate w2 and lets link 1 react for one
// free step. Th2 is restored to the held angle afterwards; W2 keeps the
// integrated value so a release carries momentum.
func (e *Engine) StepHoldLink2(dt, th2, w2 float64) {
	held := angle.Normalize(th2)

	e.state.Th2 = held
	e.state.W2 = w2
	e.rk.Free(&e.params, &e.state, ClampStep(dt))
	e.state.Th2 = held
}

func (e *Engine) BobPositions() physics.Positions {
	return e.params.BobPositions(e.state)
}

// Energy is the total mechanical energy, zero potential at the pivot.
func (e *Engine) Energy() float64 {
	return e.EnergyBreakdown().Total()
}

func (e *Engine) EnergyBreakdown() physics.Energy {
	return e.params.EnergyBreakdown(e.state)
}

func (e *Engine) State() physics.State {
	return e.state
}

// SetState replaces the state as given. Angles are not normalized until the
// next step.
func (e *Engine) SetState(s physics.State) {
	e.state = s
}

func (e *Engine) Params() physics.Params {
	return e.params
}

func (e *Engine) SetParams(p physics.Params) {
	e.params = p
}

// ParamsRef exposes the live parameters for drivers that tune them through
// dynamo.Configurable.
func (e *Engine) ParamsRef() *physics.Params {
	return &e.params
}

// Hang puts the pendulum back at rest hanging straight down.
func (e *Engine) Hang() {
	e.state = physics.State{}
}
