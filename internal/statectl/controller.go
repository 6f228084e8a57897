package statectl

import "github.com/san-kum/roversim/internal/geom"

// State is the coarse driving regime.
type State int

const (
	Idle State = iota
	Navigate
	AvoidObstacle
	Recover
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Navigate:
		return "navigate"
	case AvoidObstacle:
		return "avoid"
	case Recover:
		return "recover"
	default:
		return "unknown"
	}
}

// Output is the per-state command shaping: a coarse speed multiplier and a
// steer bias pushing away from the obstacle side.
type Output struct {
	State           State
	SpeedMultiplier float64
	SteerBoost      float64
}

// Config holds the transition thresholds. CollisionDistance must be below
// AvoidDistance; configuration validation enforces that before a controller
// is ever built.
type Config struct {
	AvoidDistance       float64
	CollisionDistance   float64
	StuckSpeedThreshold float64
	StuckTimeThreshold  float64
}

// Controller is the only cross-tick mutable piece of the arbitration core:
// it owns the current state and the stuck timer, one instance per vehicle.
type Controller struct {
	cfg        Config
	state      State
	stuckTimer float64
}

func New(cfg Config) *Controller {
	return &Controller{cfg: cfg, state: Navigate}
}

// Evaluate advances the stuck timer, transitions the state and returns the
// per-state output. Transition order is the tie-break policy: the stuck
// check outranks proximity, collision outranks avoidance.
func (c *Controller) Evaluate(nearestDistance, nearestLocalX, forwardSpeed, dt float64) Output {
	if abs(forwardSpeed) < c.cfg.StuckSpeedThreshold {
		c.stuckTimer += dt
	} else {
		c.stuckTimer = 0
	}

	switch {
	case c.stuckTimer >= c.cfg.StuckTimeThreshold:
		c.state = Recover
	case nearestDistance <= c.cfg.CollisionDistance:
		c.state = Recover
	case nearestDistance <= c.cfg.AvoidDistance:
		c.state = AvoidObstacle
	default:
		c.state = Navigate
	}

	return c.output(nearestLocalX)
}

// output maps the current state to its command shaping. Outputs carry no
// hysteresis; they are a function of state alone.
func (c *Controller) output(nearestLocalX float64) Output {
	out := Output{State: c.state}
	switch c.state {
	case Navigate:
		out.SpeedMultiplier = 1.0
	case AvoidObstacle:
		out.SpeedMultiplier = 0.6
		out.SteerBoost = -geom.Sign(nearestLocalX) * 0.6
	case Recover:
		out.SpeedMultiplier = 0.2
	case Idle:
		// full stop, no steering
	}
	return out
}

// State returns the current regime without evaluating.
func (c *Controller) State() State {
	return c.state
}

// StuckTimer returns the accumulated low-speed time in seconds.
func (c *Controller) StuckTimer() float64 {
	return c.stuckTimer
}

// Reset restores the initial Navigate state and clears the stuck timer.
func (c *Controller) Reset() {
	c.state = Navigate
	c.stuckTimer = 0
}

// ForceIdle parks the controller. Evaluate never transitions into Idle on
// its own; this is the externally forced variant.
func (c *Controller) ForceIdle() {
	c.state = Idle
	c.stuckTimer = 0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
