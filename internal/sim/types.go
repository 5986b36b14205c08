package sim

import (
	"math"

	"github.com/san-kum/doubleswing/internal/drag"
	"github.com/san-kum/doubleswing/internal/dynamo"
	"github.com/san-kum/doubleswing/internal/physics"
)

type Config struct {
	Dt            float64
	Duration      float64
	Drag          drag.Settings
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 240,
		Duration:      10,
		Drag:          drag.DefaultSettings(),
		ValidateState: true,
	}
}

// Trajectory is a scripted pointer: the link angle it asks for, tau seconds
// into a gesture.
type Trajectory interface {
	Angle(tau float64) float64
}

// Hold keeps the link at a fixed angle.
type Hold struct {
	Theta float64
}

func (h Hold) Angle(float64) float64 { return h.Theta }

// Sweep moves linearly from From to To over Duration and stays at To.
type Sweep struct {
	From, To float64
	Duration float64
}

func (s Sweep) Angle(tau float64) float64 {
	if s.Duration <= 0 || tau >= s.Duration {
		return s.To
	}
	if tau <= 0 {
		return s.From
	}
	return s.From + (s.To-s.From)*tau/s.Duration
}

// Swing oscillates sinusoidally about Center.
type Swing struct {
	Center    float64
	Amplitude float64
	Frequency float64 // Hz
}

func (s Swing) Angle(tau float64) float64 {
	return s.Center + s.Amplitude*math.Sin(2*math.Pi*s.Frequency*tau)
}

// Gesture holds one link on Path between Start and End seconds of run time.
type Gesture struct {
	Link       int
	Start, End float64
	Path       Trajectory
}

func (g Gesture) Active(t float64) bool {
	return t >= g.Start && t < g.End
}

// Script is the ordered list of gestures for one run. When gestures overlap
// the first one listed wins.
type Script []Gesture

func (s Script) At(t float64) (Gesture, bool) {
	for _, g := range s {
		if g.Active(t) {
			return g, true
		}
	}
	return Gesture{}, false
}

type Result struct {
	States   []physics.State
	Controls []dynamo.Control
	Times    []float64
	Energies []physics.Energy
	// Driven is the link held during the frame that produced each state, 0
	// when the pendulum was free.
	Driven      []int
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

func (r *Result) Final() physics.State {
	if len(r.States) == 0 {
		return physics.State{}
	}
	return r.States[len(r.States)-1]
}
