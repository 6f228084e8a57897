package policy

import (
	"math"
	"math/rand"

	"github.com/san-kum/roversim/internal/geom"
)

// Action is a bounded steer/throttle pair produced once per tick. Values
// outside [-1, 1] are not rejected here; every consumer clamps.
type Action struct {
	Steer    float64
	Throttle float64
}

// Observation is what a policy sees each tick: the vehicle's own motion
// plus the goal tracker's direction/distance to the next checkpoint.
type Observation struct {
	ForwardSpeed    float64
	GoalLocalX      float64 // signed lateral offset of the goal, vehicle frame
	GoalLocalZ      float64 // forward offset of the goal, vehicle frame
	GoalDistance    float64
	NearestDistance float64
}

// Source produces one action per tick from an observation. How a source
// was trained or scripted is opaque to the arbitration core.
type Source interface {
	Act(obs Observation) Action
}

// Chase steers toward the next goal at a cruising throttle. It stands in
// for a trained policy in simulations and tests.
type Chase struct {
	Throttle float64
	Gain     float64
}

func NewChase() *Chase {
	return &Chase{Throttle: 0.8, Gain: 1.5}
}

func (c *Chase) Act(obs Observation) Action {
	if obs.GoalDistance == 0 {
		return Action{}
	}
	// bearing error in [-pi, pi], scaled into a steer command
	bearing := math.Atan2(obs.GoalLocalX, obs.GoalLocalZ)
	return Action{
		Steer:    geom.Clamp(c.Gain*bearing/math.Pi, -1, 1),
		Throttle: c.Throttle,
	}
}

// Cruise holds a constant action regardless of observation.
type Cruise struct {
	Action Action
}

func NewCruise(throttle float64) *Cruise {
	return &Cruise{Action: Action{Throttle: throttle}}
}

func (c *Cruise) Act(Observation) Action {
	return c.Action
}

// Scripted emits a seeded random walk over steer with constant throttle,
// used to exercise fleets deterministically.
type Scripted struct {
	rng      *rand.Rand
	steer    float64
	throttle float64
}

func NewScripted(seed int64, throttle float64) *Scripted {
	return &Scripted{rng: rand.New(rand.NewSource(seed)), throttle: throttle}
}

func (s *Scripted) Act(Observation) Action {
	s.steer = geom.Clamp(s.steer+0.3*(s.rng.Float64()*2-1), -1, 1)
	return Action{Steer: s.steer, Throttle: s.throttle}
}
