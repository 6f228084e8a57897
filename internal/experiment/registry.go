package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/roversim/internal/geom"
	"github.com/san-kum/roversim/internal/policy"
	"github.com/san-kum/roversim/internal/track"
	"github.com/san-kum/roversim/internal/world"
)

// Scenario bundles an obstacle field with its checkpoint course and the
// vehicle's start pose.
type Scenario struct {
	Field  *world.Field
	Course *track.Course
	Start  geom.Pose
}

// Registry maps names from config/CLI to scenario and policy builders.
type Registry struct {
	scenarios map[string]func() Scenario
	policies  map[string]func(seed int64) policy.Source
}

func NewRegistry() *Registry {
	r := &Registry{
		scenarios: make(map[string]func() Scenario),
		policies:  make(map[string]func(seed int64) policy.Source),
	}

	r.scenarios["slalom"] = func() Scenario {
		return Scenario{
			Field: world.Slalom(40, 12, 1.2, 5),
			Course: track.NewCourse([]track.Checkpoint{
				{Position: geom.Vec3{Z: 30}, Radius: 3},
			}, false),
			Start: geom.Pose{Position: geom.Vec3{Z: -35}},
		}
	}
	r.scenarios["corridor"] = func() Scenario {
		return Scenario{
			Field: world.Corridor(80, 12),
			Course: track.NewCourse([]track.Checkpoint{
				{Position: geom.Vec3{Z: 75}, Radius: 3},
			}, false),
			Start: geom.Pose{Position: geom.Vec3{Z: 2}},
		}
	}
	r.scenarios["arena"] = func() Scenario {
		f := world.BoxArena(30, 0.5)
		f.AddCircle(world.Circle{Center: geom.Vec3{X: 10, Z: 10}, Radius: 2})
		f.AddCircle(world.Circle{Center: geom.Vec3{X: -12, Z: -8}, Radius: 2})
		f.AddCircle(world.Circle{Center: geom.Vec3{X: 5, Z: -15}, Radius: 1.5})
		return Scenario{
			Field: f,
			Course: track.NewCourse([]track.Checkpoint{
				{Position: geom.Vec3{X: 15, Z: 15}, Radius: 3},
				{Position: geom.Vec3{X: -15, Z: 15}, Radius: 3},
				{Position: geom.Vec3{X: -15, Z: -15}, Radius: 3},
				{Position: geom.Vec3{X: 15, Z: -15}, Radius: 3},
			}, true),
			Start: geom.Pose{},
		}
	}

	r.policies["chase"] = func(int64) policy.Source { return policy.NewChase() }
	r.policies["cruise"] = func(int64) policy.Source { return policy.NewCruise(0.7) }
	r.policies["scripted"] = func(seed int64) policy.Source { return policy.NewScripted(seed, 0.6) }

	return r
}

func (r *Registry) GetScenario(name string) (Scenario, error) {
	fn, ok := r.scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("unknown scenario: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetPolicy(name string, seed int64) (policy.Source, error) {
	fn, ok := r.policies[name]
	if !ok {
		return nil, fmt.Errorf("unknown policy: %s", name)
	}
	return fn(seed), nil
}

func (r *Registry) ListScenarios() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListPolicies() []string {
	names := make([]string, 0, len(r.policies))
	for name := range r.policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
