package config

// Presets are named scenario/tuning combinations, keyed by scenario then
// preset name, mirroring how runs are usually launched from the CLI.
var Presets = map[string]map[string]*Config{
	"slalom": {
		"default": {
			Scenario: "slalom", Policy: "chase", Mode: "blended",
			Dt: 0.02, Duration: 90.0,
		},
		"cautious": {
			Scenario: "slalom", Policy: "chase", Mode: "blended",
			Dt: 0.02, Duration: 90.0,
			Fuzzy: FuzzyConfig{
				NearThreshold:         4.5,
				MediumThreshold:       10.0,
				MinThrottleMultiplier: 0.15,
				SteerStrength:         0.9,
				SideSteerWeight:       0.4,
			},
		},
		"fuzzy": {
			Scenario: "slalom", Policy: "cruise", Mode: "fuzzy",
			Dt: 0.02, Duration: 60.0,
		},
	},
	"corridor": {
		"default": {
			Scenario: "corridor", Policy: "chase", Mode: "blended",
			Dt: 0.02, Duration: 60.0,
		},
		"state": {
			Scenario: "corridor", Policy: "cruise", Mode: "state",
			Dt: 0.02, Duration: 60.0,
		},
	},
	"arena": {
		"wander": {
			Scenario: "arena", Policy: "scripted", Mode: "blended",
			Dt: 0.02, Duration: 120.0, Seed: 7,
		},
		"policy": {
			Scenario: "arena", Policy: "chase", Mode: "policy",
			Dt: 0.02, Duration: 60.0,
		},
	},
}

// GetPreset resolves a preset over the defaults: zero-valued sections in
// the preset fall back to the default tuning. Returns nil when unknown.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	p, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Scenario = p.Scenario
	cfg.Policy = p.Policy
	cfg.Mode = p.Mode
	cfg.AllowReverseInBlend = p.AllowReverseInBlend
	cfg.Dt = p.Dt
	cfg.Duration = p.Duration
	cfg.Seed = p.Seed
	if p.Sensor != (SensorConfig{}) {
		cfg.Sensor = p.Sensor
	}
	if p.Fuzzy != (FuzzyConfig{}) {
		cfg.Fuzzy = p.Fuzzy
	}
	if p.State != (StateConfig{}) {
		cfg.State = p.State
	}
	return cfg
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
