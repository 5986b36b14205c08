package engine

import (
	"math"
	"testing"

	"github.com/san-kum/doubleswing/internal/physics"
)

func TestClampStep(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"negative", -0.5, 0},
		{"nan", math.NaN(), 0},
		{"normal", 1.0 / 60, 1.0 / 60},
		{"at limit", MaxStep, MaxStep},
		{"stall", 10, MaxStep},
		{"inf", math.Inf(1), MaxStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampStep(tt.in); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNewNormalizesAndCopies(t *testing.T) {
	p := physics.DefaultParams()
	e := New(p, physics.State{Th1: 3 * math.Pi, Th2: -3 * math.Pi / 2, W1: 1})

	s := e.State()
	if math.Abs(s.Th1-math.Pi) > 1e-12 {
		t.Errorf("expected th1 = pi, got %f", s.Th1)
	}
	if math.Abs(s.Th2-math.Pi/2) > 1e-12 {
		t.Errorf("expected th2 = pi/2, got %f", s.Th2)
	}

	p.L1 = 5
	if e.Params().L1 != physics.DefaultLength {
		t.Error("engine must keep its own copy of the params")
	}
}

func TestStepIgnoresNonPositiveTime(t *testing.T) {
	start := physics.State{Th1: 0.7, W1: 1.2, Th2: -0.4, W2: 0.3}

	for _, dt := range []float64{0, -1, math.NaN()} {
		e := New(physics.DefaultParams(), start)
		e.Step(dt)
		if e.State() != start {
			t.Errorf("dt=%v: expected no change, got %+v", dt, e.State())
		}
	}
}

func TestStallClampsToMaxStep(t *testing.T) {
	start := physics.State{Th1: 0.9, Th2: -0.3}
	a := New(physics.DefaultParams(), start)
	b := New(physics.DefaultParams(), start)

	a.Step(10)
	b.Step(1.0 / 15)

	if a.State() != b.State() {
		t.Errorf("expected identical states, got %+v and %+v", a.State(), b.State())
	}
}

func TestStepDragImposesLink1(t *testing.T) {
	e := New(physics.DefaultParams(), physics.State{Th2: 0.2})

	e.StepDrag(1.0/60, 2*math.Pi+0.5, 3.0, 1.0)

	s := e.State()
	if math.Abs(s.Th1-0.5) > 1e-12 {
		t.Errorf("expected th1 normalized to 0.5, got %f", s.Th1)
	}
	if s.W1 != 3.0 {
		t.Errorf("expected w1 = 3, got %f", s.W1)
	}
	if s.Th2 == 0.2 && s.W2 == 0 {
		t.Error("link 2 should have moved")
	}
}

func TestStepDragZeroTimeOnlyImposes(t *testing.T) {
	e := New(physics.DefaultParams(), physics.State{Th2: 0.2, W2: -0.1})

	e.StepDrag(0, 1.0, 2.0, 50)

	want := physics.State{Th1: 1.0, W1: 2.0, Th2: 0.2, W2: -0.1}
	if e.State() != want {
		t.Errorf("expected %+v, got %+v", want, e.State())
	}
}

func TestStepHoldLink2PinsAngle(t *testing.T) {
	e := New(physics.DefaultParams(), physics.State{Th1: 0.4})

	for i := 0; i < 30; i++ {
		e.StepHoldLink2(1.0/60, 1.0, 0)
	}

	s := e.State()
	if s.Th2 != 1.0 {
		t.Errorf("expected th2 held at 1.0, got %f", s.Th2)
	}
	if s.Th1 == 0.4 {
		t.Error("link 1 should react to the held link")
	}
}

func TestSetStateAndHang(t *testing.T) {
	e := New(physics.DefaultParams(), physics.State{})

	raw := physics.State{Th1: 4, W1: 1, Th2: -4, W2: 2}
	e.SetState(raw)
	if e.State() != raw {
		t.Errorf("SetState must assign verbatim, got %+v", e.State())
	}

	e.Hang()
	if e.State() != (physics.State{}) {
		t.Errorf("expected rest state, got %+v", e.State())
	}
	if e.Energy() != e.EnergyBreakdown().Potential {
		t.Error("at rest all energy is potential")
	}
}

func TestBobPositionsFollowState(t *testing.T) {
	e := New(physics.DefaultParams(), physics.State{Th1: math.Pi / 2, Th2: math.Pi / 2})

	pos := e.BobPositions()
	if math.Abs(pos.X2-2) > 1e-12 || math.Abs(pos.Y2) > 1e-12 {
		t.Errorf("expected bob 2 at (2, 0), got %+v", pos)
	}
}

func TestSetParamsTakesEffect(t *testing.T) {
	e := New(physics.DefaultParams(), physics.State{Th1: 0.3})
	before := e.Energy()

	p := e.Params()
	p.M1 = 2
	e.SetParams(p)
	if e.Energy() == before {
		t.Error("heavier bob should change the energy")
	}

	e.ParamsRef().Damping = 0.4
	if e.Params().Damping != 0.4 {
		t.Error("ParamsRef must alias the live params")
	}
}
