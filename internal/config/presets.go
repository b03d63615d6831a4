package config

var Presets = map[string]map[string]*Config{
	"bounce": {
		"elastic": {
			Scenario: "bounce", Dt: 1.0 / 60, Duration: 20.0,
			Params: map[string]float64{"count": 12, "elasticity": 1.0},
		},
		"lossy": {
			Scenario: "bounce", Dt: 1.0 / 60, Duration: 20.0,
			Params: map[string]float64{"count": 12, "elasticity": 0.6},
		},
		"crowd": {
			Scenario: "bounce", Dt: 1.0 / 120, Duration: 10.0,
			Params: map[string]float64{"count": 40, "elasticity": 0.9},
		},
	},
	"orbit": {
		"binary": {
			Scenario: "orbit", Dt: 0.001, Duration: 30.0,
			Params: map[string]float64{"satellites": 1},
		},
		"system": {
			Scenario: "orbit", Dt: 0.001, Duration: 50.0,
			Params: map[string]float64{"satellites": 4},
		},
	},
	"springs": {
		"chain": {
			Scenario: "springs", Dt: 0.005, Duration: 20.0,
			Params: map[string]float64{"links": 6, "k": 20, "gamma": 0.1},
		},
		"undamped": {
			Scenario: "springs", Dt: 0.005, Duration: 20.0,
			Params: map[string]float64{"links": 6, "k": 20, "gamma": 0},
		},
	},
	"breakout": {
		"classic": {
			Scenario: "breakout", Dt: 1.0 / 60, Duration: 30.0,
			Params: map[string]float64{"rows": 3, "cols": 10},
		},
		"dense": {
			Scenario: "breakout", Dt: 1.0 / 120, Duration: 30.0,
			Params: map[string]float64{"rows": 6, "cols": 12},
		},
	},
	"platformer": {
		"run": {
			Scenario: "platformer", Dt: 1.0 / 60, Duration: 10.0,
			Params: map[string]float64{"coins": 5, "speed": 150},
		},
		"sprint": {
			Scenario: "platformer", Dt: 1.0 / 60, Duration: 10.0, Jitter: 0.2,
			Params: map[string]float64{"coins": 10, "speed": 300},
		},
	},
}

// GetPreset returns a copy of the preset so callers can override fields.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	out := *cfg
	out.Params = make(map[string]float64, len(cfg.Params))
	for k, v := range cfg.Params {
		out.Params[k] = v
	}
	if out.World.Width == 0 {
		out.World.Width = DefaultWidth
	}
	if out.World.Height == 0 {
		out.World.Height = DefaultHeight
	}
	return &out
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	return names
}
