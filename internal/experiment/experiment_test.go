package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/roversim/internal/config"
	"github.com/san-kum/roversim/internal/sim"
)

func TestRegistryLookups(t *testing.T) {
	reg := NewRegistry()

	for _, name := range reg.ListScenarios() {
		sc, err := reg.GetScenario(name)
		if err != nil {
			t.Fatalf("registered scenario %s failed: %v", name, err)
		}
		if sc.Field == nil || sc.Course == nil {
			t.Errorf("scenario %s is incomplete", name)
		}
	}

	for _, name := range reg.ListPolicies() {
		if _, err := reg.GetPolicy(name, 1); err != nil {
			t.Fatalf("registered policy %s failed: %v", name, err)
		}
	}

	if _, err := reg.GetScenario("void"); err == nil {
		t.Error("unknown scenario must error")
	}
	if _, err := reg.GetPolicy("void", 1); err == nil {
		t.Error("unknown policy must error")
	}
}

func TestBuildAndRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Duration = 2.0

	runner, scenario, err := Build(cfg, NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if runner.Vehicle().Pose() != scenario.Start {
		t.Error("vehicle should start at the scenario start pose")
	}

	res, err := runner.Run(context.Background(), sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
	if err != nil {
		t.Fatal(err)
	}
	if res.TicksRun == 0 {
		t.Error("expected the built runner to tick")
	}
}

func TestBuildRejectsBadConfig(t *testing.T) {
	reg := NewRegistry()

	cfg := config.DefaultConfig()
	cfg.Mode = "warp"
	if _, _, err := Build(cfg, reg); err == nil {
		t.Error("unknown mode must fail the build")
	}

	cfg = config.DefaultConfig()
	cfg.Scenario = "void"
	if _, _, err := Build(cfg, reg); err == nil {
		t.Error("unknown scenario must fail the build")
	}

	cfg = config.DefaultConfig()
	cfg.Fuzzy.MediumThreshold = 1
	if _, _, err := Build(cfg, reg); err == nil {
		t.Error("invalid tuning must fail the build")
	}
}
