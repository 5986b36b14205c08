package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/doubleswing/internal/physics"
	"github.com/san-kum/doubleswing/internal/sim"
)

// Variables lists the names accepted by Series.
var Variables = []string{"th1", "w1", "th2", "w2", "ke", "pe", "energy"}

// Series extracts one named variable from every recorded frame of a run.
func Series(r *sim.Result, name string) ([]float64, error) {
	pick, err := picker(name)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(r.States))
	for i, s := range r.States {
		var e physics.Energy
		if i < len(r.Energies) {
			e = r.Energies[i]
		}
		out[i] = pick(s, e)
	}
	return out, nil
}

func picker(name string) (func(physics.State, physics.Energy) float64, error) {
	switch strings.ToLower(name) {
	case "th1":
		return func(s physics.State, _ physics.Energy) float64 { return s.Th1 }, nil
	case "w1":
		return func(s physics.State, _ physics.Energy) float64 { return s.W1 }, nil
	case "th2":
		return func(s physics.State, _ physics.Energy) float64 { return s.Th2 }, nil
	case "w2":
		return func(s physics.State, _ physics.Energy) float64 { return s.W2 }, nil
	case "ke":
		return func(_ physics.State, e physics.Energy) float64 { return e.Kinetic }, nil
	case "pe":
		return func(_ physics.State, e physics.Energy) float64 { return e.Potential }, nil
	case "energy":
		return func(_ physics.State, e physics.Energy) float64 { return e.Total() }, nil
	}
	return nil, fmt.Errorf("unknown variable %q (want one of %s)", name, strings.Join(Variables, ", "))
}
