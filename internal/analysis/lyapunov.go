package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/doubleswing/internal/angle"
	"github.com/san-kum/doubleswing/internal/engine"
	"github.com/san-kum/doubleswing/internal/physics"
)

// LyapunovExponent estimates the largest Lyapunov exponent of the free
// pendulum started at s0 by following a copy offset by perturbation in th1
// and pulling it back to that distance after every step.
func LyapunovExponent(p physics.Params, s0 physics.State, dt, duration, perturbation float64) float64 {
	dt = engine.ClampStep(dt)
	if dt == 0 || duration <= 0 || perturbation <= 0 {
		return 0
	}

	ref := engine.New(p, s0)
	shifted := s0
	shifted.Th1 += perturbation
	pert := engine.New(p, shifted)

	sumLog := 0.0
	elapsed := 0.0
	diff := make([]float64, 4)

	for elapsed < duration {
		ref.Step(dt)
		pert.Step(dt)
		elapsed += dt

		separation(diff, ref.State(), pert.State())
		sep := floats.Norm(diff, 2)
		if sep == 0 || math.IsNaN(sep) {
			continue
		}
		sumLog += math.Log(sep / perturbation)

		floats.Scale(perturbation/sep, diff)
		base := ref.State()
		pert.SetState(physics.State{
			Th1: base.Th1 + diff[0],
			W1:  base.W1 + diff[1],
			Th2: base.Th2 + diff[2],
			W2:  base.W2 + diff[3],
		})
	}

	if elapsed == 0 {
		return 0
	}
	return sumLog / elapsed
}

// separation writes b - a into dst with angle components wrapped.
func separation(dst []float64, a, b physics.State) {
	dst[0] = angle.UnwrapDelta(b.Th1, a.Th1)
	dst[1] = b.W1 - a.W1
	dst[2] = angle.UnwrapDelta(b.Th2, a.Th2)
	dst[3] = b.W2 - a.W2
}
