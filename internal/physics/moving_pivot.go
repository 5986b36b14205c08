package physics

import (
	"math"

	"github.com/san-kum/doubleswing/internal/dynamo"
)

// PivotAccel returns the cartesian acceleration of bob 1 when link 1 moves
// with angle th1, rate w1 and angular acceleration a1. xdd is positive to the
// right, ydd is positive upwards (against gravity).
func (p *Params) PivotAccel(th1, w1, a1 float64) (xdd, ydd float64) {
	return LinkAccel(p.L1, th1, w1, a1)
}

// LinkAccel is the cartesian acceleration of the far end of a rod of the
// given length, relative to its near joint, turning with angle th, rate w and
// angular acceleration a. ydd is positive upwards.
func LinkAccel(length, th, w, a float64) (xdd, ydd float64) {
	s, c := math.Sin(th), math.Cos(th)
	xdd = length * (a*c - w*w*s)
	ydd = length * (a*s + w*w*c)
	return xdd, ydd
}

// MovingPivotAccel is the angular acceleration of link 2 hanging from a
// suspension point that accelerates with (xdd, ydd), ydd positive upwards.
func (p *Params) MovingPivotAccel(th2, w2, xdd, ydd float64) float64 {
	s, c := math.Sin(th2), math.Cos(th2)

	a2 := -(p.Gravity/p.L2)*s - (xdd*c+ydd*s)/p.L2

	if p.Damping != 0 {
		a2 -= p.Damping * w2
	}
	return a2
}

// MovingPivot adapts MovingPivotAccel to dynamo.System over [th2, w2]. The
// control vector carries the pivot acceleration [xdd, ydd].
type MovingPivot struct {
	P *Params
}

func NewMovingPivot(p *Params) *MovingPivot {
	return &MovingPivot{P: p}
}

func (m *MovingPivot) StateDim() int   { return 2 }
func (m *MovingPivot) ControlDim() int { return 2 }

func (m *MovingPivot) Derive(x dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	var xdd, ydd float64
	if len(u) >= 2 {
		xdd, ydd = u[0], u[1]
	}
	return dynamo.State{x[1], m.P.MovingPivotAccel(x[0], x[1], xdd, ydd)}
}
