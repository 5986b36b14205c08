package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/doubleswing/internal/dynamo"
)

func TestDoublePendulumEquilibrium(t *testing.T) {
	p := DefaultParams()

	a1, a2 := p.Accelerations(State{})
	if math.Abs(a1) > 1e-12 || math.Abs(a2) > 1e-12 {
		t.Errorf("expected zero accelerations hanging at rest, got %f, %f", a1, a2)
	}

	// inverted is also an equilibrium, just not a stable one
	a1, a2 = p.Accelerations(State{Th1: math.Pi, Th2: math.Pi})
	if math.Abs(a1) > 1e-9 || math.Abs(a2) > 1e-9 {
		t.Errorf("expected zero accelerations inverted at rest, got %f, %f", a1, a2)
	}
}

func TestDoublePendulumSymmetry(t *testing.T) {
	p := DefaultParams()

	s1 := State{Th1: 0.4, W1: 0.3, Th2: -0.2, W2: 1.1}
	s2 := State{Th1: -0.4, W1: -0.3, Th2: 0.2, W2: -1.1}

	a11, a21 := p.Accelerations(s1)
	a12, a22 := p.Accelerations(s2)

	if math.Abs(a11+a12) > 1e-9 {
		t.Errorf("expected mirrored alpha1: %f vs %f", a11, a12)
	}
	if math.Abs(a21+a22) > 1e-9 {
		t.Errorf("expected mirrored alpha2: %f vs %f", a21, a22)
	}
}

// The closed form must satisfy both Euler-Lagrange equations of the point-mass
// double pendulum.
func TestAccelerationsSatisfyLagrangeEquations(t *testing.T) {
	params := []Params{
		DefaultParams(),
		{L1: 2, L2: 0.5, M1: 3, M2: 0.7, Gravity: 9.81},
		{L1: 0.3, L2: 1.7, M1: 0.2, M2: 4, Gravity: 1.62},
	}
	states := []State{
		{Th1: 0.3, W1: 0, Th2: -0.2, W2: 0},
		{Th1: 1.2, W1: -2.5, Th2: 2.9, W2: 4.0},
		{Th1: -3.0, W1: 7.0, Th2: 0.1, W2: -0.3},
	}

	for _, p := range params {
		for _, s := range states {
			a1, a2 := p.Accelerations(s)
			m1, m2, l1, l2, g := p.M1, p.M2, p.L1, p.L2, p.Gravity
			d := s.Th1 - s.Th2

			eq1 := (m1+m2)*l1*a1 + m2*l2*a2*math.Cos(d) +
				m2*l2*s.W2*s.W2*math.Sin(d) + (m1+m2)*g*math.Sin(s.Th1)
			eq2 := l2*a2 + l1*a1*math.Cos(d) -
				l1*s.W1*s.W1*math.Sin(d) + g*math.Sin(s.Th2)

			if math.Abs(eq1) > 1e-9 || math.Abs(eq2) > 1e-9 {
				t.Errorf("params %+v state %+v: residuals %g, %g", p, s, eq1, eq2)
			}
		}
	}
}

func TestDampingSubtractsLinearDrag(t *testing.T) {
	p := DefaultParams()
	s := State{Th1: 0.5, W1: 1.5, Th2: -0.4, W2: -2.0}

	a1, a2 := p.Accelerations(s)
	p.Damping = 0.5
	d1, d2 := p.Accelerations(s)

	if math.Abs((a1-d1)-0.5*s.W1) > 1e-12 {
		t.Errorf("expected damping term %f on link 1, got %f", 0.5*s.W1, a1-d1)
	}
	if math.Abs((a2-d2)-0.5*s.W2) > 1e-12 {
		t.Errorf("expected damping term %f on link 2, got %f", 0.5*s.W2, a2-d2)
	}
}

func TestDegenerateDenominatorStaysFinite(t *testing.T) {
	// a massless first bob with collinear links drives the denominator to 0
	p := Params{L1: 1, L2: 1, M1: 0, M2: 1, Gravity: StandardGravity}
	s := State{Th1: 0.7, W1: 1.0, Th2: 0.7, W2: -1.0}

	a1, a2 := p.Accelerations(s)
	if math.IsNaN(a1) || math.IsInf(a1, 0) || math.IsNaN(a2) || math.IsInf(a2, 0) {
		t.Errorf("expected finite accelerations, got %v, %v", a1, a2)
	}
}

func TestBobPositions(t *testing.T) {
	p := Params{L1: 2, L2: 1, M1: 1, M2: 1, Gravity: StandardGravity}

	pos := p.BobPositions(State{})
	if pos.X1 != 0 || pos.Y1 != 2 || pos.X2 != 0 || pos.Y2 != 3 {
		t.Errorf("hanging positions wrong: %+v", pos)
	}

	pos = p.BobPositions(State{Th1: math.Pi / 2, Th2: 0})
	if math.Abs(pos.X1-2) > 1e-12 || math.Abs(pos.Y1) > 1e-12 {
		t.Errorf("horizontal link 1 wrong: %+v", pos)
	}
	if math.Abs(pos.X2-2) > 1e-12 || math.Abs(pos.Y2-1) > 1e-12 {
		t.Errorf("bob 2 should hang below bob 1: %+v", pos)
	}
}

func TestEnergyBreakdown(t *testing.T) {
	p := DefaultParams()

	e := p.EnergyBreakdown(State{})
	if e.Kinetic != 0 {
		t.Errorf("expected no kinetic energy at rest, got %f", e.Kinetic)
	}
	wantPE := -(p.M1+p.M2)*p.Gravity*p.L1 - p.M2*p.Gravity*p.L2
	if math.Abs(e.Potential-wantPE) > 1e-12 {
		t.Errorf("expected potential %f, got %f", wantPE, e.Potential)
	}

	// rigid rotation: both bobs move like a single rod
	s := State{Th1: 0.2, W1: 1.0, Th2: 0.2, W2: 1.0}
	e = p.EnergyBreakdown(s)
	wantKE := 0.5*p.M1*1 + 0.5*p.M2*4
	if math.Abs(e.Kinetic-wantKE) > 1e-12 {
		t.Errorf("expected kinetic %f, got %f", wantKE, e.Kinetic)
	}
	if e.Total() != e.Kinetic+e.Potential {
		t.Error("Total must be the sum of the parts")
	}
}

func TestDoublePendulumSystem(t *testing.T) {
	p := DefaultParams()
	dyn := NewDoublePendulum(&p)

	if dyn.StateDim() != 4 {
		t.Errorf("expected state dim 4, got %d", dyn.StateDim())
	}
	if dyn.ControlDim() != 0 {
		t.Errorf("expected control dim 0, got %d", dyn.ControlDim())
	}

	s := State{Th1: 0.3, W1: 0.1, Th2: -0.2, W2: 0.4}
	dx := dyn.Derive(s.Vector(), nil, 0)
	a1, a2 := p.Accelerations(s)
	if dx[0] != s.W1 || dx[1] != a1 || dx[2] != s.W2 || dx[3] != a2 {
		t.Errorf("unexpected derivative %v", dx)
	}

	var h dynamo.Hamiltonian = dyn
	if h.Energy(s.Vector()) != p.EnergyBreakdown(s).Total() {
		t.Error("system energy disagrees with EnergyBreakdown")
	}
}

func TestStateVectorRoundTrip(t *testing.T) {
	s := State{Th1: 1, W1: 2, Th2: 3, W2: 4}
	if got := StateFromVector(s.Vector()); got != s {
		t.Errorf("round trip changed state: %+v", got)
	}
	if got := StateFromVector(dynamo.State{5}); got != (State{Th1: 5}) {
		t.Errorf("short vector should fill leading fields only: %+v", got)
	}
}

func TestNormalized(t *testing.T) {
	s := State{Th1: 3 * math.Pi / 2, W1: 20, Th2: -7, W2: -20}.Normalized()
	if s.Th1 <= -math.Pi || s.Th1 > math.Pi || s.Th2 <= -math.Pi || s.Th2 > math.Pi {
		t.Errorf("angles not normalized: %+v", s)
	}
	if s.W1 != 20 || s.W2 != -20 {
		t.Error("velocities must not be touched")
	}
}

func TestParamsConfigurable(t *testing.T) {
	p := DefaultParams()
	var c dynamo.Configurable = &p

	if err := c.SetParam("damping", 0.3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Damping != 0.3 {
		t.Errorf("expected damping 0.3, got %f", p.Damping)
	}
	if got := c.GetParams()["l2"]; got != p.L2 {
		t.Errorf("expected l2 %f, got %f", p.L2, got)
	}

	err := c.SetParam("spring", 1)
	if !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}
