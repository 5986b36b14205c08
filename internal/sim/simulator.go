package sim

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/doubleswing/internal/drag"
	"github.com/san-kum/doubleswing/internal/dynamo"
	"github.com/san-kum/doubleswing/internal/engine"
	"github.com/san-kum/doubleswing/internal/physics"
)

// Simulator plays a Script against one pendulum the way an interactive driver
// would: one engine call per frame, a drag filter per link, and a reset of
// that filter whenever a gesture grabs its link.
type Simulator struct {
	params    physics.Params
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	log       *zap.Logger
}

type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

func New(p physics.Params, opts ...Option) *Simulator {
	s := &Simulator{
		params:    p,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, s0 physics.State, script Script, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg, script); err != nil {
		return nil, err
	}

	steps := int(math.Floor(cfg.Duration/cfg.Dt + 1e-9))
	result := &Result{
		States:   make([]physics.State, 0, steps+1),
		Controls: make([]dynamo.Control, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Energies: make([]physics.Energy, 0, steps+1),
		Driven:   make([]int, 0, steps+1),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	eng := engine.New(s.params, s0)
	filters := [2]drag.Filter{}
	held := 0
	dt := cfg.Dt

	if dt > engine.MaxStep {
		s.log.Warn("frame time above engine limit, steps will be clamped",
			zap.Float64("dt", dt), zap.Float64("max", engine.MaxStep))
	}
	s.log.Info("run started",
		zap.Int("steps", steps),
		zap.Float64("dt", dt),
		zap.Int("gestures", len(script)))

	record := func(t float64, link int) {
		result.States = append(result.States, eng.State())
		result.Times = append(result.Times, t)
		result.Energies = append(result.Energies, eng.EnergyBreakdown())
		result.Driven = append(result.Driven, link)
	}
	record(0, 0)
	initialEnergy := eng.Energy()

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.log.Info("run cancelled", zap.Int("step", i))
			return result, ctx.Err()
		default:
		}

		t := float64(i) * dt
		g, active := script.At(t)
		link := 0
		if active {
			link = g.Link
		}

		if link != held {
			if held != 0 {
				s.log.Debug("release", zap.Int("link", held), zap.Float64("t", t),
					zap.Float64("omega", filters[held-1].Omega()))
			}
			if link != 0 {
				cur := eng.State()
				start := cur.Th1
				if link == 2 {
					start = cur.Th2
				}
				filters[link-1].Reset(start)
				s.log.Debug("grab", zap.Int("link", link), zap.Float64("t", t))
			}
			held = link
		}

		x := eng.State()
		var u dynamo.Control

		switch link {
		case 1:
			target := g.Path.Angle(t - g.Start)
			w := filters[0].Estimate(target, dt, cfg.Drag)
			xdd, ydd := s.params.PivotAccel(target, w, 0)
			u = dynamo.Control{xdd, ydd}
			s.observe(x, u, t)
			eng.StepDrag(dt, target, w, 0)
		case 2:
			target := g.Path.Angle(t - g.Start)
			w := filters[1].Estimate(target, dt, cfg.Drag)
			xdd, ydd := physics.LinkAccel(s.params.L2, target, w, 0)
			u = dynamo.Control{xdd, ydd}
			s.observe(x, u, t)
			eng.StepHoldLink2(dt, target, w)
		default:
			s.observe(x, u, t)
			eng.Step(dt)
		}

		next := eng.State()
		if cfg.ValidateState && !next.Vector().IsValid() {
			runErr = &dynamo.SimulationError{
				Step:    i,
				Time:    t,
				State:   next.Vector(),
				Wrapped: dynamo.ErrInvalidState,
			}
			result.Errors = append(result.Errors, runErr)
			s.log.Error("state diverged", zap.Error(runErr))
			break
		}

		result.StepsTaken++
		result.Controls = append(result.Controls, u)
		record(t+dt, link)
	}

	// metrics also see the last recorded state; observers only see the
	// state each step starts from
	if runErr == nil {
		final := eng.State().Vector()
		for _, m := range s.metrics {
			m.Observe(final, nil, float64(steps)*dt)
		}
	}

	// a diverged engine has no usable energy; the last recorded frame does
	finalEnergy := eng.Energy()
	if runErr != nil {
		finalEnergy = result.Energies[len(result.Energies)-1].Total()
	}
	result.EnergyDrift = relativeDrift(initialEnergy, finalEnergy)

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Info("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Float64("energy_drift", result.EnergyDrift))

	return result, runErr
}

// relativeDrift is |e1 - e0| / |e0|, or 0 when either energy is not finite
// or e0 is zero.
func relativeDrift(e0, e1 float64) float64 {
	if e0 == 0 || math.IsNaN(e0) || math.IsInf(e0, 0) || math.IsNaN(e1) || math.IsInf(e1, 0) {
		return 0
	}
	return math.Abs(e1-e0) / math.Abs(e0)
}

func (s *Simulator) observe(x physics.State, u dynamo.Control, t float64) {
	if len(s.metrics) == 0 && len(s.observers) == 0 {
		return
	}
	v := x.Vector()
	for _, m := range s.metrics {
		m.Observe(v, u, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(v, u, t)
	}
}

func (s *Simulator) validateConfig(cfg Config, script Script) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrParameterBounds, cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrParameterBounds, cfg.Duration)
	}
	for i, g := range script {
		if g.Link != 1 && g.Link != 2 {
			return fmt.Errorf("%w: gesture %d: link must be 1 or 2, got %d", dynamo.ErrParameterBounds, i, g.Link)
		}
		if !(g.End > g.Start) {
			return fmt.Errorf("%w: gesture %d: end %.3f not after start %.3f", dynamo.ErrParameterBounds, i, g.End, g.Start)
		}
		if g.Path == nil {
			return fmt.Errorf("%w: gesture %d has no path", dynamo.ErrParameterBounds, i)
		}
	}
	return nil
}
