package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/doubleswing/internal/drag"
	"github.com/san-kum/doubleswing/internal/dynamo"
	"github.com/san-kum/doubleswing/internal/physics"
	"github.com/san-kum/doubleswing/internal/sim"
)

const (
	DefaultDt       = 1.0 / 240
	DefaultDuration = 20.0
	DefaultTheta1   = 0.3
	DefaultTheta2   = -0.2
)

// Gesture kinds.
const (
	KindHold  = "hold"
	KindSweep = "sweep"
	KindSwing = "swing"
)

type Config struct {
	Name      string          `yaml:"name"`
	Params    ParamsConfig    `yaml:"params"`
	InitState InitStateConfig `yaml:"init_state"`
	Drag      drag.Settings   `yaml:"drag"`
	Run       RunConfig       `yaml:"run"`
	Gestures  []GestureConfig `yaml:"gestures,omitempty"`
}

type ParamsConfig struct {
	L1      float64 `yaml:"l1"`
	L2      float64 `yaml:"l2"`
	M1      float64 `yaml:"m1"`
	M2      float64 `yaml:"m2"`
	Gravity float64 `yaml:"gravity"`
	Damping float64 `yaml:"damping"`
}

type InitStateConfig struct {
	Theta1 float64 `yaml:"theta1"`
	Omega1 float64 `yaml:"omega1"`
	Theta2 float64 `yaml:"theta2"`
	Omega2 float64 `yaml:"omega2"`
}

type RunConfig struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
}

// GestureConfig describes a scripted grab. Which of the shape fields matter
// depends on Kind: hold uses Theta, sweep uses From and To over the whole
// window, swing uses Center, Amplitude and Frequency.
type GestureConfig struct {
	Link  int     `yaml:"link"`
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Kind  string  `yaml:"kind"`

	Theta     float64 `yaml:"theta,omitempty"`
	From      float64 `yaml:"from,omitempty"`
	To        float64 `yaml:"to,omitempty"`
	Center    float64 `yaml:"center,omitempty"`
	Amplitude float64 `yaml:"amplitude,omitempty"`
	Frequency float64 `yaml:"frequency,omitempty"`
}

func DefaultConfig() *Config {
	p := physics.DefaultParams()
	return &Config{
		Name: "default",
		Params: ParamsConfig{
			L1: p.L1, L2: p.L2,
			M1: p.M1, M2: p.M2,
			Gravity: p.Gravity,
			Damping: p.Damping,
		},
		InitState: InitStateConfig{
			Theta1: DefaultTheta1,
			Theta2: DefaultTheta2,
		},
		Drag: drag.DefaultSettings(),
		Run: RunConfig{
			Dt:       DefaultDt,
			Duration: DefaultDuration,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func bounds(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{dynamo.ErrParameterBounds}, args...)...)
}

// Validate checks everything the physics core takes on trust.
func (c *Config) Validate() error {
	p := c.Params
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"params.l1", p.L1}, {"params.l2", p.L2},
		{"params.m1", p.M1}, {"params.m2", p.M2},
	} {
		if !(f.v > 0) {
			return bounds("%s must be positive, got %g", f.name, f.v)
		}
	}
	if p.Damping < 0 {
		return bounds("params.damping must not be negative, got %g", p.Damping)
	}
	if !(c.Run.Dt > 0) {
		return bounds("run.dt must be positive, got %g", c.Run.Dt)
	}
	if !(c.Run.Duration > 0) {
		return bounds("run.duration must be positive, got %g", c.Run.Duration)
	}
	if c.Drag.Alpha < 0 || c.Drag.Alpha > 1 {
		return bounds("drag.alpha must be in [0, 1], got %g", c.Drag.Alpha)
	}
	if c.Drag.OmegaMax < 0 {
		return bounds("drag.omega_max must not be negative, got %g", c.Drag.OmegaMax)
	}

	for i, g := range c.Gestures {
		if g.Link != 1 && g.Link != 2 {
			return bounds("gestures[%d].link must be 1 or 2, got %d", i, g.Link)
		}
		if !(g.End > g.Start) {
			return bounds("gestures[%d] ends at %g, not after its start %g", i, g.End, g.Start)
		}
		switch g.Kind {
		case KindHold, KindSweep, KindSwing:
		default:
			return bounds("gestures[%d].kind %q unknown", i, g.Kind)
		}
	}
	return nil
}

func (c *Config) PhysicsParams() physics.Params {
	return physics.Params{
		L1: c.Params.L1, L2: c.Params.L2,
		M1: c.Params.M1, M2: c.Params.M2,
		Gravity: c.Params.Gravity,
		Damping: c.Params.Damping,
	}
}

func (c *Config) InitialState() physics.State {
	return physics.State{
		Th1: c.InitState.Theta1,
		W1:  c.InitState.Omega1,
		Th2: c.InitState.Theta2,
		W2:  c.InitState.Omega2,
	}
}

func (c *Config) DragSettings() drag.Settings {
	return c.Drag
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Run.Dt,
		Duration:      c.Run.Duration,
		Drag:          c.Drag,
		ValidateState: true,
	}
}

// Script converts the gesture list. Call Validate first; unknown kinds are
// treated as holds.
func (c *Config) Script() sim.Script {
	script := make(sim.Script, 0, len(c.Gestures))
	for _, g := range c.Gestures {
		var path sim.Trajectory
		switch g.Kind {
		case KindSweep:
			path = sim.Sweep{From: g.From, To: g.To, Duration: g.End - g.Start}
		case KindSwing:
			path = sim.Swing{Center: g.Center, Amplitude: g.Amplitude, Frequency: g.Frequency}
		default:
			path = sim.Hold{Theta: g.Theta}
		}
		script = append(script, sim.Gesture{
			Link:  g.Link,
			Start: g.Start,
			End:   g.End,
			Path:  path,
		})
	}
	return script
}
