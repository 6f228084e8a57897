package world

import (
	"math"

	"github.com/san-kum/roversim/internal/geom"
)

// SweepSphere casts a probe of the given radius along dir from origin and
// returns the nearest contact within length, honoring the layer mask. The
// direction is normalized internally; Y components are ignored since all
// geometry lives on the ground plane.
func (f *Field) SweepSphere(origin, dir geom.Vec3, length, radius float64, mask Layer) (Hit, bool) {
	d := geom.Vec3{X: dir.X, Z: dir.Z}.Normalize()
	if d.Norm() == 0 || length <= 0 {
		return Hit{}, false
	}

	best := math.Inf(1)
	for _, c := range f.circles {
		if c.Layer&mask == 0 {
			continue
		}
		if t, ok := rayCircle(origin, d, c.Center, c.Radius+radius); ok && t <= length && t < best {
			best = t
		}
	}
	for _, w := range f.walls {
		if w.Layer&mask == 0 {
			continue
		}
		if t, ok := rayCapsule(origin, d, w.A, w.B, w.Thickness+radius); ok && t <= length && t < best {
			best = t
		}
	}

	if math.IsInf(best, 1) {
		return Hit{}, false
	}
	return Hit{Distance: best, Point: origin.Add(d.Scale(best))}, true
}

// rayCircle solves |o + t·d - c| = r for the smallest t ≥ 0.
func rayCircle(o, d, c geom.Vec3, r float64) (float64, bool) {
	oc := o.Sub(c)
	b := oc.Dot(d)
	q := oc.Dot(oc) - r*r
	disc := b*b - q
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// rayCapsule intersects the ray with a capsule of the given radius around
// segment AB: the two end caps plus the two offset side lines.
func rayCapsule(o, d, a, b geom.Vec3, r float64) (float64, bool) {
	best := math.Inf(1)

	if t, ok := rayCircle(o, d, a, r); ok && t < best {
		best = t
	}
	if t, ok := rayCircle(o, d, b, r); ok && t < best {
		best = t
	}

	ab := b.Sub(a)
	segLen := ab.Norm()
	if segLen > 0 {
		u := ab.Scale(1 / segLen)
		n := geom.Vec3{X: u.Z, Z: -u.X} // plane normal of the segment
		denom := d.Dot(n)
		if math.Abs(denom) > 1e-12 {
			for _, side := range [2]float64{r, -r} {
				t := (side - o.Sub(a).Dot(n)) / denom
				if t < 0 || t >= best {
					continue
				}
				// contact must fall within the segment span
				s := o.Add(d.Scale(t)).Sub(a).Dot(u)
				if s >= 0 && s <= segLen {
					best = t
				}
			}
		}
	}

	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}
