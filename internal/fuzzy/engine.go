package fuzzy

import (
	"github.com/san-kum/roversim/internal/geom"
	"github.com/san-kum/roversim/internal/sensor"
)

// Output is the defuzzified correction pair. ThrottleMultiplier scales the
// commanded throttle down near obstacles; SteerCorrection pushes away from
// the obstacle's side.
type Output struct {
	ThrottleMultiplier float64
	SteerCorrection    float64
}

// Config holds the membership thresholds and defuzzification weights.
// Validity (MediumThreshold > NearThreshold > 0) is enforced at
// configuration load time, not here.
type Config struct {
	NearThreshold         float64
	MediumThreshold       float64
	MinThrottleMultiplier float64
	SteerStrength         float64
	SideSteerWeight       float64
}

// Relative contributions of the two distance categories. Near obstacles
// dominate; medium adds a lesser correction on top, additively rather than
// max-combined, so a borderline near+medium situation compounds caution.
const (
	nearThrottleWeight   = 1.0
	mediumThrottleWeight = 0.45
	nearSteerWeight      = 1.0
	mediumSteerWeight    = 0.4
)

// Engine turns a proximity reading into a throttle/steer correction. Each
// Compute is pure given its inputs; only the cached last output mutates.
type Engine struct {
	cfg  Config
	last Output
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg, last: Output{ThrottleMultiplier: 1}}
}

// Compute runs one inference pass. An empty reading (the +Inf sentinel)
// short-circuits to {1, 0}: no obstacle means no correction.
func (e *Engine) Compute(reading sensor.ProximityReading, localX float64) Output {
	if reading.NoObstacle() {
		e.last = Output{ThrottleMultiplier: 1, SteerCorrection: 0}
		return e.last
	}

	d := reading.NearestDistance
	near := shoulder(d, e.cfg.NearThreshold)
	medium := triangular(d,
		0.8*e.cfg.NearThreshold,
		(e.cfg.NearThreshold+e.cfg.MediumThreshold)/2,
		1.05*e.cfg.MediumThreshold,
	)

	reduction := geom.Clamp01(nearThrottleWeight*near + mediumThrottleWeight*medium)
	throttle := geom.Lerp(1.0, e.cfg.MinThrottleMultiplier, reduction)

	baseStrength := geom.Clamp01(nearSteerWeight*near + mediumSteerWeight*medium)
	angleWeight := geom.Lerp(e.cfg.SideSteerWeight, 1.0, reading.ForwardAlignment)
	strength := baseStrength * angleWeight

	steer := -geom.Sign(localX) * strength * e.cfg.SteerStrength

	e.last = Output{ThrottleMultiplier: throttle, SteerCorrection: steer}
	return e.last
}

// Last returns the output of the most recent Compute.
func (e *Engine) Last() Output {
	return e.last
}

// shoulder is the "near" membership: full below 0.6·threshold, falling
// linearly to zero at 1.6·threshold.
func shoulder(d, threshold float64) float64 {
	lo := 0.6 * threshold
	hi := 1.6 * threshold
	switch {
	case d <= lo:
		return 1
	case d >= hi:
		return 0
	default:
		return (hi - d) / (hi - lo)
	}
}

// triangular is the "medium" membership: zero outside [a, c], rising
// linearly a→b and falling b→c with peak 1 at b.
func triangular(d, a, b, c float64) float64 {
	switch {
	case d <= a || d >= c:
		return 0
	case d < b:
		return (d - a) / (b - a)
	default:
		return (c - d) / (c - b)
	}
}
