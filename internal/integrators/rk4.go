package integrators

import (
	"fmt"

	"github.com/san-kum/doubleswing/internal/angle"
	"github.com/san-kum/doubleswing/internal/dynamo"
	"github.com/san-kum/doubleswing/internal/physics"
)

// RK4 is the classical fourth-order Runge-Kutta scheme with a fixed step.
// Stage buffers are reused between calls, so one RK4 must not be shared
// across goroutines.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State

	control dynamo.Control
}

var _ dynamo.Integrator = (*RK4)(nil)

func NewRK4() *RK4 {
	return &RK4{control: make(dynamo.Control, 2)}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

// Step advances x by dt and returns the new state. u is held constant over
// all four stages. Step panics with ErrDimensionMismatch when x or u does not
// fit dyn.
func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	if n != dyn.StateDim() || (len(u) != 0 && len(u) != dyn.ControlDim()) {
		panic(fmt.Errorf("%w: state %d/%d, control %d/%d", dynamo.ErrDimensionMismatch,
			n, dyn.StateDim(), len(u), dyn.ControlDim()))
	}
	if dt == 0 {
		return x.Clone()
	}
	r.ensureScratch(n)

	copy(r.k1, dyn.Derive(x, u, t))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	copy(r.k2, dyn.Derive(r.scratch, u, t+dt*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	copy(r.k3, dyn.Derive(r.scratch, u, t+dt*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	copy(r.k4, dyn.Derive(r.scratch, u, t+dt))

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}

// Free advances the full double pendulum in s by dt. Both angles are
// normalized afterwards.
func (r *RK4) Free(p *physics.Params, s *physics.State, dt float64) {
	x := r.Step(physics.NewDoublePendulum(p), s.Vector(), nil, 0, dt)
	*s = physics.StateFromVector(x).Normalized()
}

// Driven advances link 2 alone while its suspension point accelerates with
// (xdd, ydd), ydd positive upwards. th2 is normalized afterwards.
func (r *RK4) Driven(p *physics.Params, th2, w2 *float64, dt, xdd, ydd float64) {
	if len(r.control) != 2 {
		r.control = make(dynamo.Control, 2)
	}
	r.control[0], r.control[1] = xdd, ydd

	x := r.Step(physics.NewMovingPivot(p), dynamo.State{*th2, *w2}, r.control, 0, dt)
	*th2 = angle.Normalize(x[0])
	*w2 = x[1]
}
