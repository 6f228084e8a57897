package world

import "github.com/san-kum/roversim/internal/geom"

// BoxArena builds a square field walled on all four sides, centered on the
// origin, with half-extent half on each axis.
func BoxArena(half, thickness float64) *Field {
	f := NewField()
	corners := [4]geom.Vec3{
		{X: -half, Z: -half},
		{X: half, Z: -half},
		{X: half, Z: half},
		{X: -half, Z: half},
	}
	for i := range corners {
		f.AddWall(Wall{A: corners[i], B: corners[(i+1)%4], Thickness: thickness})
	}
	return f
}

// Slalom builds a box arena with a line of alternating pillars down the
// middle, spaced gap apart along +Z.
func Slalom(half, gap, pillarRadius float64, count int) *Field {
	f := BoxArena(half, 0.5)
	for i := 0; i < count; i++ {
		side := 3.0
		if i%2 == 1 {
			side = -side
		}
		f.AddCircle(Circle{
			Center: geom.Vec3{X: side, Z: -half + gap*float64(i+1)},
			Radius: pillarRadius,
		})
	}
	return f
}

// Corridor builds two long parallel walls along +Z with a single pillar
// choke point halfway down.
func Corridor(length, width float64) *Field {
	f := NewField()
	halfW := width / 2
	f.AddWall(Wall{A: geom.Vec3{X: -halfW}, B: geom.Vec3{X: -halfW, Z: length}, Thickness: 0.5})
	f.AddWall(Wall{A: geom.Vec3{X: halfW}, B: geom.Vec3{X: halfW, Z: length}, Thickness: 0.5})
	f.AddCircle(Circle{Center: geom.Vec3{X: halfW / 2, Z: length / 2}, Radius: 1.0})
	return f
}
