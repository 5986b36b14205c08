package physics

import (
	"math"

	"github.com/san-kum/doubleswing/internal/dynamo"
)

// Accelerations returns the angular accelerations of both links for state s.
func (p *Params) Accelerations(s State) (a1, a2 float64) {
	m1, m2, l1, l2, g := p.M1, p.M2, p.L1, p.L2, p.Gravity
	th1, th2, w1, w2 := s.Th1, s.Th2, s.W1, s.W2

	dth := th1 - th2
	sinD, cosD := math.Sin(dth), math.Cos(dth)

	den := 2*m1 + m2 - m2*math.Cos(2*dth)
	if math.Abs(den) < DenomEpsilon {
		den = math.Copysign(DenomEpsilon, den)
	}

	a1 = (-g*(2*m1+m2)*math.Sin(th1) -
		m2*g*math.Sin(th1-2*th2) -
		2*sinD*m2*(w2*w2*l2+w1*w1*l1*cosD)) / (l1 * den)

	a2 = (2 * sinD * (w1*w1*l1*(m1+m2) +
		g*(m1+m2)*math.Cos(th1) +
		w2*w2*l2*m2*cosD)) / (l2 * den)

	// linear drag, not a Lagrangian dissipation term
	if p.Damping != 0 {
		a1 -= p.Damping * w1
		a2 -= p.Damping * w2
	}
	return a1, a2
}

func (p *Params) BobPositions(s State) Positions {
	x1 := p.L1 * math.Sin(s.Th1)
	y1 := p.L1 * math.Cos(s.Th1)
	return Positions{
		X1: x1,
		Y1: y1,
		X2: x1 + p.L2*math.Sin(s.Th2),
		Y2: y1 + p.L2*math.Cos(s.Th2),
	}
}

// Energy splits total mechanical energy. Potential is zero at the pivot
// height and negative below it.
type Energy struct {
	Kinetic   float64 `json:"kinetic"`
	Potential float64 `json:"potential"`
}

func (e Energy) Total() float64 { return e.Kinetic + e.Potential }

func (p *Params) EnergyBreakdown(s State) Energy {
	m1, m2, l1, l2, g := p.M1, p.M2, p.L1, p.L2, p.Gravity

	v1sq := l1 * l1 * s.W1 * s.W1
	v2sq := v1sq + l2*l2*s.W2*s.W2 +
		2*l1*l2*s.W1*s.W2*math.Cos(s.Th1-s.Th2)

	return Energy{
		Kinetic:   0.5*m1*v1sq + 0.5*m2*v2sq,
		Potential: -(m1+m2)*g*l1*math.Cos(s.Th1) - m2*g*l2*math.Cos(s.Th2),
	}
}

// DoublePendulum adapts Params to dynamo.System over [th1, w1, th2, w2].
// It takes no control input.
type DoublePendulum struct {
	P *Params
}

func NewDoublePendulum(p *Params) *DoublePendulum {
	return &DoublePendulum{P: p}
}

func (d *DoublePendulum) StateDim() int   { return 4 }
func (d *DoublePendulum) ControlDim() int { return 0 }

func (d *DoublePendulum) Derive(x dynamo.State, _ dynamo.Control, _ float64) dynamo.State {
	s := StateFromVector(x)
	a1, a2 := d.P.Accelerations(s)
	return dynamo.State{s.W1, a1, s.W2, a2}
}

func (d *DoublePendulum) Energy(x dynamo.State) float64 {
	return d.P.EnergyBreakdown(StateFromVector(x)).Total()
}
