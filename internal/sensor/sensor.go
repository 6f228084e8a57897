package sensor

import (
	"math"

	"github.com/san-kum/roversim/internal/geom"
	"github.com/san-kum/roversim/internal/world"
)

// ProximityReading is the reduced output of one probe scan. NearestDistance
// is +Inf when no probe registered a hit, and consumers special-case that
// sentinel rather than treating it as an error.
type ProximityReading struct {
	NearestDistance  float64
	NearestPoint     geom.Vec3
	ForwardAlignment float64
}

// NoObstacle reports whether the scan found nothing within probe range.
func (r ProximityReading) NoObstacle() bool {
	return math.IsInf(r.NearestDistance, 1)
}

// Config describes the probe fan geometry. RaysPerSide probes are cast on
// each side of the forward axis plus one straight ahead, evenly spaced in
// [-MaxAngle, +MaxAngle].
type Config struct {
	RaysPerSide int
	MaxAngle    float64 // radians
	Length      float64
	Radius      float64
	MinDistance float64 // hits closer than this are self-intersection noise
	Mask        world.Layer
}

// Scanner casts the probe fan against an environment. It holds no state
// beyond the last reading, kept for external readout.
type Scanner struct {
	cfg  Config
	env  world.Raycaster
	last ProximityReading
}

func NewScanner(cfg Config, env world.Raycaster) *Scanner {
	if cfg.Mask == 0 {
		cfg.Mask = world.LayerAll
	}
	return &Scanner{cfg: cfg, env: env, last: emptyReading()}
}

func emptyReading() ProximityReading {
	return ProximityReading{NearestDistance: math.Inf(1)}
}

// Scan casts 2k+1 probes from the pose and reduces them to the nearest
// qualifying hit. Pure with respect to the environment; only the cached
// last reading mutates.
func (s *Scanner) Scan(pose geom.Pose) ProximityReading {
	reading := emptyReading()

	count := 2*s.cfg.RaysPerSide + 1
	forward := pose.Forward()

	for i := 0; i < count; i++ {
		angle := 0.0
		if count > 1 {
			angle = -s.cfg.MaxAngle + 2*s.cfg.MaxAngle*float64(i)/float64(count-1)
		}
		dir := forward.RotateY(angle)

		hit, ok := s.env.SweepSphere(pose.Position, dir, s.cfg.Length, s.cfg.Radius, s.cfg.Mask)
		if !ok || hit.Distance <= s.cfg.MinDistance {
			continue
		}
		if hit.Distance < reading.NearestDistance {
			reading.NearestDistance = hit.Distance
			reading.NearestPoint = hit.Point
		}
	}

	if !reading.NoObstacle() {
		toHit := reading.NearestPoint.Sub(pose.Position).Normalize()
		reading.ForwardAlignment = geom.Clamp01(forward.Dot(toHit))
	}

	s.last = reading
	return reading
}

// Last returns the most recent reading without re-scanning.
func (s *Scanner) Last() ProximityReading {
	return s.last
}
