package arbiter

import (
	"fmt"

	"github.com/san-kum/roversim/internal/fuzzy"
	"github.com/san-kum/roversim/internal/geom"
	"github.com/san-kum/roversim/internal/policy"
	"github.com/san-kum/roversim/internal/statectl"
)

// Mode selects which signal source determines the final command. It is
// static per run; SetMode exists but nothing in the CLI flips it mid-run.
type Mode int

const (
	PolicyOnly Mode = iota
	StateOnly
	FuzzyOnly
	Blended
)

func (m Mode) String() string {
	switch m {
	case PolicyOnly:
		return "policy"
	case StateOnly:
		return "state"
	case FuzzyOnly:
		return "fuzzy"
	case Blended:
		return "blended"
	default:
		return "unknown"
	}
}

// ParseMode maps a config/CLI name to a Mode. Unknown names are rejected
// here, at construction time, so the tick path never sees an invalid mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "policy":
		return PolicyOnly, nil
	case "state":
		return StateOnly, nil
	case "fuzzy":
		return FuzzyOnly, nil
	case "blended":
		return Blended, nil
	default:
		return 0, fmt.Errorf("unknown arbitration mode: %q", name)
	}
}

// Command is the fused throttle/steer pair handed to the actuator. It
// lives for one tick.
type Command struct {
	Throttle float64
	Steer    float64
}

// Actuator is the external collaborator receiving fused commands. It never
// acknowledges; a command either applies or the plant is gone.
type Actuator interface {
	Apply(throttle, steer float64)
	FullStop()
}

// Blending weights for the composite mode. The policy is the dominant
// signal; the deterministic sub-systems layer on additively as safety
// correctives rather than by voting.
const (
	blendFuzzySteerWeight     = 0.6
	blendPolicyThrottleWeight = 0.7
	blendFuzzyThrottleWeight  = 0.2
	blendStateThrottleWeight  = 0.2
)

// Arbiter fuses the policy action with the fuzzy and state-controller
// outputs under the configured mode and forwards the result downstream.
type Arbiter struct {
	mode         Mode
	allowReverse bool
	actuator     Actuator
}

// New builds an arbiter. A nil actuator is allowed for pure fusion use
// (tests, offline evaluation); Tick then skips forwarding.
func New(mode Mode, allowReverseInBlend bool, actuator Actuator) *Arbiter {
	return &Arbiter{mode: mode, allowReverse: allowReverseInBlend, actuator: actuator}
}

func (a *Arbiter) Mode() Mode {
	return a.mode
}

// SetMode swaps the arbitration mode between ticks.
func (a *Arbiter) SetMode(m Mode) {
	a.mode = m
}

// Fuse combines the three signal sources into one command. Out-of-range
// inputs are clamped silently at every consumption point: one bad tick
// must never halt a run.
func (a *Arbiter) Fuse(act policy.Action, fz fuzzy.Output, st statectl.Output) Command {
	switch a.mode {
	case PolicyOnly:
		return Command{
			Throttle: geom.Clamp(act.Throttle, -1, 1),
			Steer:    geom.Clamp(act.Steer, -1, 1),
		}
	case StateOnly:
		return Command{
			Throttle: geom.Clamp01(st.SpeedMultiplier),
			Steer:    geom.Clamp(st.SteerBoost, -1, 1),
		}
	case FuzzyOnly:
		return Command{
			Throttle: geom.Clamp01(fz.ThrottleMultiplier),
			Steer:    geom.Clamp(fz.SteerCorrection, -1, 1),
		}
	case Blended:
		low := 0.0
		if a.allowReverse {
			low = -1.0
		}
		steer := act.Steer + st.SteerBoost + blendFuzzySteerWeight*fz.SteerCorrection
		throttle := blendPolicyThrottleWeight*act.Throttle +
			blendFuzzyThrottleWeight*fz.ThrottleMultiplier +
			blendStateThrottleWeight*st.SpeedMultiplier
		return Command{
			Throttle: geom.Clamp(throttle, low, 1),
			Steer:    geom.Clamp(steer, -1, 1),
		}
	default:
		panic(fmt.Sprintf("arbiter: invalid mode %d", int(a.mode)))
	}
}

// Tick fuses one tick's signals and forwards the command to the actuator.
func (a *Arbiter) Tick(act policy.Action, fz fuzzy.Output, st statectl.Output) Command {
	cmd := a.Fuse(act, fz, st)
	if a.actuator != nil {
		a.actuator.Apply(cmd.Throttle, cmd.Steer)
	}
	return cmd
}

// Halt issues an immediate full stop to the actuator.
func (a *Arbiter) Halt() {
	if a.actuator != nil {
		a.actuator.FullStop()
	}
}
