package experiment

import (
	"github.com/san-kum/roversim/internal/arbiter"
	"github.com/san-kum/roversim/internal/config"
	"github.com/san-kum/roversim/internal/fuzzy"
	"github.com/san-kum/roversim/internal/sensor"
	"github.com/san-kum/roversim/internal/sim"
	"github.com/san-kum/roversim/internal/statectl"
	"github.com/san-kum/roversim/internal/vehicle"
)

// Build assembles a complete runner from a validated configuration: it
// resolves the scenario and policy, wires the arbitration core around a
// fresh vehicle and returns the runner plus its scenario for rendering.
func Build(cfg *config.Config, reg *Registry) (*sim.Runner, Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Scenario{}, err
	}

	mode, err := arbiter.ParseMode(cfg.Mode)
	if err != nil {
		return nil, Scenario{}, err
	}

	scenario, err := reg.GetScenario(cfg.Scenario)
	if err != nil {
		return nil, Scenario{}, err
	}

	source, err := reg.GetPolicy(cfg.Policy, cfg.Seed)
	if err != nil {
		return nil, Scenario{}, err
	}

	veh := vehicle.New()
	veh.Reset(scenario.Start)

	scanner := sensor.NewScanner(sensor.Config{
		RaysPerSide: cfg.Sensor.RaysPerSide,
		MaxAngle:    cfg.Sensor.RadiansMaxAngle(),
		Length:      cfg.Sensor.ProbeLength,
		Radius:      cfg.Sensor.ProbeRadius,
		MinDistance: cfg.Sensor.MinDistance,
	}, scenario.Field)

	engine := fuzzy.NewEngine(fuzzy.Config{
		NearThreshold:         cfg.Fuzzy.NearThreshold,
		MediumThreshold:       cfg.Fuzzy.MediumThreshold,
		MinThrottleMultiplier: cfg.Fuzzy.MinThrottleMultiplier,
		SteerStrength:         cfg.Fuzzy.SteerStrength,
		SideSteerWeight:       cfg.Fuzzy.SideSteerWeight,
	})

	controller := statectl.New(statectl.Config{
		AvoidDistance:       cfg.State.AvoidDistance,
		CollisionDistance:   cfg.State.CollisionDistance,
		StuckSpeedThreshold: cfg.State.StuckSpeedThreshold,
		StuckTimeThreshold:  cfg.State.StuckTimeThreshold,
	})

	arb := arbiter.New(mode, cfg.AllowReverseInBlend, veh)

	runner := sim.NewRunner(scanner, engine, controller, arb, veh, scenario.Course, source)
	return runner, scenario, nil
}
