package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/doubleswing/internal/dynamo"
	"github.com/san-kum/doubleswing/internal/engine"
	"github.com/san-kum/doubleswing/internal/metrics"
	"github.com/san-kum/doubleswing/internal/physics"
)

const frame = 1.0 / 64

func testConfig(duration float64) Config {
	cfg := DefaultConfig()
	cfg.Dt = frame
	cfg.Duration = duration
	return cfg
}

func TestSimulatorRun(t *testing.T) {
	p := physics.DefaultParams()
	s0 := physics.State{Th1: 0.3, Th2: -0.2}

	result, err := New(p).Run(context.Background(), s0, nil, testConfig(1))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 65 {
		t.Errorf("expected 65 states, got %d", len(result.States))
	}
	if len(result.Times) != 65 || len(result.Energies) != 65 || len(result.Driven) != 65 {
		t.Errorf("series lengths disagree: %d times, %d energies, %d driven",
			len(result.Times), len(result.Energies), len(result.Driven))
	}
	if result.StepsTaken != 64 {
		t.Errorf("expected 64 steps, got %d", result.StepsTaken)
	}

	e := engine.New(p, s0)
	for i := 0; i < 64; i++ {
		e.Step(frame)
	}
	if result.Final() != e.State() {
		t.Errorf("free run should match direct stepping: %+v vs %+v", result.Final(), e.State())
	}
	if result.EnergyDrift > 1e-3 {
		t.Errorf("energy drift too large: %f", result.EnergyDrift)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(physics.DefaultParams())

	tests := []struct {
		name   string
		cfg    Config
		script Script
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}, nil},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}, nil},
		{"nan dt", Config{Dt: math.NaN(), Duration: 1.0}, nil},
		{"zero duration", Config{Dt: 0.1, Duration: 0}, nil},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}, nil},
		{"bad link", Config{Dt: 0.1, Duration: 1}, Script{{Link: 3, Start: 0, End: 1, Path: Hold{}}}},
		{"empty window", Config{Dt: 0.1, Duration: 1}, Script{{Link: 1, Start: 1, End: 1, Path: Hold{}}}},
		{"no path", Config{Dt: 0.1, Duration: 1}, Script{{Link: 1, Start: 0, End: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), physics.State{}, tt.script, tt.cfg)
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

type countingMetric struct {
	count    int
	controls int
}

func (c *countingMetric) Name() string { return "count" }
func (c *countingMetric) Observe(x dynamo.State, u dynamo.Control, t float64) {
	c.count++
	if len(u) > 0 {
		c.controls++
	}
}
func (c *countingMetric) Value() float64 { return float64(c.count) }
func (c *countingMetric) Reset()         { c.count, c.controls = 0, 0 }

func TestSimulatorMetrics(t *testing.T) {
	sim := New(physics.DefaultParams())
	metric := &countingMetric{}
	sim.AddMetric(metric)

	script := Script{{Link: 1, Start: 0.5, End: 0.75, Path: Hold{Theta: 0.2}}}
	result, err := sim.Run(context.Background(), physics.State{}, script, testConfig(1))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// 64 frames plus the final state
	if result.Metrics["count"] != 65 {
		t.Errorf("expected 65 observations, got %v", result.Metrics["count"])
	}
	if metric.controls != 16 {
		t.Errorf("expected 16 driven observations, got %d", metric.controls)
	}
}

func TestHoldLink1(t *testing.T) {
	script := Script{{Link: 1, Start: 0.5, End: 1.0, Path: Hold{Theta: 0.5}}}
	result, err := New(physics.DefaultParams()).Run(context.Background(), physics.State{}, script, testConfig(2))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// frame 32 starts the gesture and produces state 33
	for i := 33; i <= 64; i++ {
		s := result.States[i]
		if s.Th1 != 0.5 || s.W1 != 0 {
			t.Fatalf("state %d: expected link 1 pinned at rest, got %+v", i, s)
		}
		if result.Driven[i] != 1 {
			t.Fatalf("state %d: expected driven by link 1", i)
		}
		if len(result.Controls[i-1]) != 2 {
			t.Fatalf("frame %d: expected pivot acceleration control", i-1)
		}
	}

	if result.Driven[32] != 0 || result.Driven[65] != 0 {
		t.Error("frames outside the gesture must be free")
	}
	if len(result.Controls[64]) != 0 {
		t.Error("free frames carry no control")
	}
	// a still pivot leaves a hanging link 2 where it is
	if result.States[40].Th2 != 0 {
		t.Errorf("expected link 2 to keep hanging, got %f", result.States[40].Th2)
	}
}

func TestSweepVelocityEstimate(t *testing.T) {
	script := Script{{Link: 1, Start: 0, End: 1, Path: Sweep{From: 0, To: 1, Duration: 1}}}
	result, err := New(physics.DefaultParams()).Run(context.Background(), physics.State{}, script, testConfig(1))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.States[1].W1 != 0 {
		t.Errorf("first grabbed frame must report zero velocity, got %f", result.States[1].W1)
	}
	if w := result.States[60].W1; math.Abs(w-1) > 1e-3 {
		t.Errorf("expected estimate near the sweep rate 1 rad/s, got %f", w)
	}
}

func TestHoldLink2(t *testing.T) {
	script := Script{{Link: 2, Start: 0, End: 10, Path: Hold{Theta: 1.0}}}
	result, err := New(physics.DefaultParams()).Run(context.Background(), physics.State{}, script, testConfig(1))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for i := 1; i < len(result.States); i++ {
		if result.States[i].Th2 != 1.0 {
			t.Fatalf("state %d: expected th2 held at 1.0, got %f", i, result.States[i].Th2)
		}
		if result.Driven[i] != 2 {
			t.Fatalf("state %d: expected driven by link 2", i)
		}
	}
	if result.Final().Th1 == 0 {
		t.Error("link 1 should be pulled off vertical")
	}
	for i, u := range result.Controls {
		if len(u) != 2 {
			t.Fatalf("frame %d: expected held link 2 to carry a control", i)
		}
	}
}

func TestHoldLink2DampedNoEnergyRises(t *testing.T) {
	p := physics.DefaultParams()
	p.Damping = 0.3
	sim := New(p)
	sim.AddMetric(metrics.NewDissipation(physics.NewDoublePendulum(&p), 1e-3))

	// sweeping link 2 pumps energy in; the metric must not blame the damping
	script := Script{{Link: 2, Start: 0.5, End: 1.5, Path: Sweep{From: 0, To: 2, Duration: 1}}}
	result, err := sim.Run(context.Background(), physics.State{Th1: 0.3}, script, testConfig(4))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if rises := result.Metrics["energy_rises"]; rises != 0 {
		t.Errorf("expected no energy rises outside the gesture, got %v", rises)
	}
	if result.Energies[96].Total() <= result.Energies[32].Total() {
		t.Error("expected the sweep to add energy")
	}
}

func TestFinalStateObserved(t *testing.T) {
	sim := New(physics.DefaultParams())
	var last dynamo.State
	sim.AddMetric(&lastStateMetric{last: &last})

	result, err := sim.Run(context.Background(), physics.State{Th1: 0.4}, nil, testConfig(0.5))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got := physics.StateFromVector(last); got != result.Final() {
		t.Errorf("expected metrics to see the final state %+v, got %+v", result.Final(), got)
	}
}

type lastStateMetric struct {
	last *dynamo.State
}

func (l *lastStateMetric) Name() string { return "last" }
func (l *lastStateMetric) Observe(x dynamo.State, u dynamo.Control, t float64) {
	*l.last = x.Clone()
}
func (l *lastStateMetric) Value() float64 { return 0 }
func (l *lastStateMetric) Reset()         {}

func TestSimulatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(physics.DefaultParams()).Run(ctx, physics.State{Th1: 0.1}, nil, testConfig(1))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || len(result.States) != 1 {
		t.Error("expected the partial result with the initial state")
	}
}

func TestSimulatorDivergence(t *testing.T) {
	s0 := physics.State{Th1: math.NaN()}

	result, err := New(physics.DefaultParams()).Run(context.Background(), s0, nil, testConfig(1))
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected *SimulationError, got %T", err)
	}
	if simErr.Step != 0 {
		t.Errorf("expected divergence at step 0, got %d", simErr.Step)
	}
	if result.StepsTaken != 0 || len(result.Errors) != 1 {
		t.Errorf("expected no steps and one recorded error, got %d, %d", result.StepsTaken, len(result.Errors))
	}
}

func TestSimulatorDivergenceKeepsFiniteDrift(t *testing.T) {
	s0 := physics.State{Th1: 0.5, W1: 1e200}

	result, err := New(physics.DefaultParams()).Run(context.Background(), s0, nil, testConfig(0.1))
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if math.IsNaN(result.EnergyDrift) || math.IsInf(result.EnergyDrift, 0) {
		t.Errorf("expected a finite energy drift, got %v", result.EnergyDrift)
	}
}

func TestSimulatorLogsGestures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sim := New(physics.DefaultParams(), WithLogger(zap.New(core)))

	script := Script{
		{Link: 1, Start: 0.25, End: 0.5, Path: Hold{Theta: 0.3}},
		{Link: 2, Start: 0.5, End: 0.75, Path: Hold{Theta: -0.3}},
	}
	if _, err := sim.Run(context.Background(), physics.State{}, script, testConfig(1)); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if n := logs.FilterMessage("grab").Len(); n != 2 {
		t.Errorf("expected 2 grabs, got %d", n)
	}
	if n := logs.FilterMessage("release").Len(); n != 2 {
		t.Errorf("expected 2 releases, got %d", n)
	}
	if logs.FilterMessage("run finished").Len() != 1 {
		t.Error("expected a run finished entry")
	}
}

func TestTrajectories(t *testing.T) {
	tests := []struct {
		name string
		path Trajectory
		tau  float64
		want float64
	}{
		{"hold", Hold{Theta: 0.7}, 3, 0.7},
		{"sweep before", Sweep{From: -1, To: 1, Duration: 2}, -1, -1},
		{"sweep middle", Sweep{From: -1, To: 1, Duration: 2}, 1, 0},
		{"sweep after", Sweep{From: -1, To: 1, Duration: 2}, 5, 1},
		{"sweep instant", Sweep{From: -1, To: 1}, 0, 1},
		{"swing start", Swing{Center: 0.2, Amplitude: 1, Frequency: 0.5}, 0, 0.2},
		{"swing peak", Swing{Center: 0.2, Amplitude: 1, Frequency: 0.5}, 0.5, 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.Angle(tt.tau); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestScriptAt(t *testing.T) {
	script := Script{
		{Link: 1, Start: 0, End: 2, Path: Hold{}},
		{Link: 2, Start: 1, End: 3, Path: Hold{}},
	}

	cases := []struct {
		t    float64
		link int
	}{
		{-0.1, 0}, {0, 1}, {1.5, 1}, {2, 2}, {2.9, 2}, {3, 0},
	}
	for _, c := range cases {
		g, ok := script.At(c.t)
		link := 0
		if ok {
			link = g.Link
		}
		if link != c.link {
			t.Errorf("t=%v: expected link %d, got %d", c.t, c.link, link)
		}
	}
}
