package metrics

import (
	"github.com/san-kum/roversim/internal/geom"
	"github.com/san-kum/roversim/internal/sim"
)

// Distance integrates path length over a run.
type Distance struct {
	total float64
	prev  geom.Vec3
	first bool
}

func NewDistance() *Distance {
	return &Distance{first: true}
}

func (d *Distance) Name() string {
	return "distance"
}

func (d *Distance) Observe(s sim.Sample) {
	if d.first {
		d.prev = s.Pose.Position
		d.first = false
		return
	}
	d.total += s.Pose.Position.Sub(d.prev).Norm()
	d.prev = s.Pose.Position
}

func (d *Distance) Value() float64 {
	return d.total
}

func (d *Distance) Reset() {
	d.total = 0
	d.first = true
}

// Default is the metric set attached to every CLI run.
func Default() []sim.Metric {
	return []sim.Metric{
		NewControlEffort(),
		NewMinClearance(),
		NewRecoverFraction(),
		NewDistance(),
	}
}
