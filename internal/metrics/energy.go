package metrics

import (
	"math"

	"github.com/san-kum/doubleswing/internal/dynamo"
)

// EnergyDrift tracks the largest relative deviation of total energy from the
// first observed sample.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	h             dynamo.Hamiltonian
}

func NewEnergyDrift(h dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		h:    h,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

// Observe ignores samples whose energy is NaN or Inf.
func (e *EnergyDrift) Observe(x dynamo.State, u dynamo.Control, t float64) {
	energy := e.h.Energy(x)
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return
	}

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// Dissipation counts frames where energy rose by more than tolerance over the
// previous frame. A free run with damping should report zero. Frames that
// carry a control input are skipped along with the frame after them, since a
// hand on the pendulum can add energy.
type Dissipation struct {
	name      string
	tolerance float64
	prev      float64
	primed    bool
	rises     int
	h         dynamo.Hamiltonian
}

func NewDissipation(h dynamo.Hamiltonian, tolerance float64) *Dissipation {
	return &Dissipation{
		name:      "energy_rises",
		tolerance: tolerance,
		h:         h,
	}
}

func (d *Dissipation) Name() string { return d.name }

func (d *Dissipation) Observe(x dynamo.State, u dynamo.Control, t float64) {
	energy := d.h.Energy(x)

	if len(u) > 0 {
		d.primed = false
		return
	}

	if d.primed && energy > d.prev+d.tolerance {
		d.rises++
	}
	d.prev = energy
	d.primed = true
}

func (d *Dissipation) Value() float64 {
	return float64(d.rises)
}

func (d *Dissipation) Reset() {
	d.prev = 0
	d.primed = false
	d.rises = 0
}
