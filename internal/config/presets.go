package config

import (
	"sort"

	"github.com/san-kum/doubleswing/internal/drag"
	"github.com/san-kum/doubleswing/internal/physics"
)

var unitParams = ParamsConfig{L1: 1, L2: 1, M1: 1, M2: 1, Gravity: physics.StandardGravity}

var Presets = map[string]*Config{
	"hanging": {
		Params: unitParams, Drag: drag.DefaultSettings(),
		Run: RunConfig{Dt: DefaultDt, Duration: 10},
	},
	"gentle": {
		Params: unitParams, Drag: drag.DefaultSettings(),
		Run:       RunConfig{Dt: DefaultDt, Duration: 20},
		InitState: InitStateConfig{Theta1: 0.3, Theta2: -0.2},
	},
	"large": {
		Params: unitParams, Drag: drag.DefaultSettings(),
		Run:       RunConfig{Dt: DefaultDt, Duration: 30},
		InitState: InitStateConfig{Theta1: 1.5, Theta2: 1.5},
	},
	"chaos": {
		Params: unitParams, Drag: drag.DefaultSettings(),
		Run:       RunConfig{Dt: DefaultDt, Duration: 60},
		InitState: InitStateConfig{Theta1: 3.0, Theta2: 3.0},
	},
	"damped": {
		Params:    ParamsConfig{L1: 1, L2: 1, M1: 1, M2: 1, Gravity: physics.StandardGravity, Damping: 0.15},
		Drag:      drag.DefaultSettings(),
		Run:       RunConfig{Dt: DefaultDt, Duration: 30},
		InitState: InitStateConfig{Theta1: 2.0, Theta2: -1.0},
	},
	"fling": {
		Params: unitParams, Drag: drag.DefaultSettings(),
		Run: RunConfig{Dt: DefaultDt, Duration: 15},
		Gestures: []GestureConfig{
			{Link: 1, Start: 0.5, End: 2.0, Kind: KindSwing, Amplitude: 1.2, Frequency: 0.8},
		},
	},
	"whip": {
		Params: ParamsConfig{L1: 1, L2: 0.6, M1: 2, M2: 0.5, Gravity: physics.StandardGravity},
		Drag:   drag.DefaultSettings(),
		Run:    RunConfig{Dt: DefaultDt, Duration: 15},
		Gestures: []GestureConfig{
			{Link: 2, Start: 0.5, End: 1.5, Kind: KindSweep, From: 0, To: 2.0},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Name = name
	cfg.Gestures = append([]GestureConfig(nil), p.Gestures...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
