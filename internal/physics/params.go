package physics

import (
	"fmt"

	"github.com/san-kum/doubleswing/internal/angle"
	"github.com/san-kum/doubleswing/internal/dynamo"
)

const (
	StandardGravity = 9.80665
	DefaultLength   = 1.0
	DefaultMass     = 1.0

	// DenomEpsilon is the smallest magnitude the coupling denominator may
	// take before division.
	DenomEpsilon = 1e-12
)

// Params are the physical constants of one pendulum. Lengths and masses must
// be strictly positive; nothing here checks that.
type Params struct {
	L1      float64 `json:"l1"`
	L2      float64 `json:"l2"`
	M1      float64 `json:"m1"`
	M2      float64 `json:"m2"`
	Gravity float64 `json:"gravity"`
	Damping float64 `json:"damping"`
}

func DefaultParams() Params {
	return Params{
		L1: DefaultLength, L2: DefaultLength,
		M1: DefaultMass, M2: DefaultMass,
		Gravity: StandardGravity,
	}
}

func (p *Params) GetParams() map[string]float64 {
	return map[string]float64{
		"l1":      p.L1,
		"l2":      p.L2,
		"m1":      p.M1,
		"m2":      p.M2,
		"gravity": p.Gravity,
		"damping": p.Damping,
	}
}

func (p *Params) SetParam(name string, value float64) error {
	switch name {
	case "l1":
		p.L1 = value
	case "l2":
		p.L2 = value
	case "m1":
		p.M1 = value
	case "m2":
		p.M2 = value
	case "gravity":
		p.Gravity = value
	case "damping":
		p.Damping = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}

// State is the full configuration of the pendulum. Angles are measured from
// the downward vertical.
type State struct {
	Th1 float64 `json:"th1"`
	W1  float64 `json:"w1"`
	Th2 float64 `json:"th2"`
	W2  float64 `json:"w2"`
}

// Normalized returns s with both angles mapped into (-pi, pi].
func (s State) Normalized() State {
	s.Th1 = angle.Normalize(s.Th1)
	s.Th2 = angle.Normalize(s.Th2)
	return s
}

// Vector returns s in the [th1, w1, th2, w2] layout.
func (s State) Vector() dynamo.State {
	return dynamo.State{s.Th1, s.W1, s.Th2, s.W2}
}

// StateFromVector is the inverse of Vector. Short vectors leave the missing
// fields zero.
func StateFromVector(x dynamo.State) State {
	var s State
	fields := []*float64{&s.Th1, &s.W1, &s.Th2, &s.W2}
	for i := 0; i < len(fields) && i < len(x); i++ {
		*fields[i] = x[i]
	}
	return s
}

// Positions are bob coordinates in metres relative to the pivot, +y down.
type Positions struct {
	X1, Y1 float64
	X2, Y2 float64
}
