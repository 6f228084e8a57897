package metrics

import (
	"math"

	"github.com/san-kum/roversim/internal/sim"
)

// ControlEffort is the mean absolute fused command magnitude, a proxy for
// how hard the arbiter is working the actuator.
type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (c *ControlEffort) Name() string {
	return "control_effort"
}

func (c *ControlEffort) Observe(s sim.Sample) {
	c.sum += math.Abs(s.Command.Throttle) + math.Abs(s.Command.Steer)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
