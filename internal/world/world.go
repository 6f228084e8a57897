package world

import (
	"github.com/san-kum/roversim/internal/geom"
)

// Layer is a bitmask filtering which obstacle categories a query can see.
type Layer uint32

const (
	LayerObstacle Layer = 1 << iota
	LayerWall

	LayerAll = ^Layer(0)
)

// Hit is the result of a sweep query: distance along the probe axis and
// the world-space point where that distance was reached.
type Hit struct {
	Distance float64
	Point    geom.Vec3
}

// Raycaster answers thick-ray queries against scene geometry. The sensor
// depends on this interface only, never on the concrete field.
type Raycaster interface {
	SweepSphere(origin, dir geom.Vec3, length, radius float64, mask Layer) (Hit, bool)
}

// Circle is a round obstacle on the ground plane.
type Circle struct {
	Center geom.Vec3
	Radius float64
	Layer  Layer
}

// Wall is a thick line segment on the ground plane.
type Wall struct {
	A, B      geom.Vec3
	Thickness float64
	Layer     Layer
}

// Field is the static obstacle set a simulation runs against.
type Field struct {
	circles []Circle
	walls   []Wall
}

func NewField() *Field {
	return &Field{}
}

func (f *Field) AddCircle(c Circle) {
	if c.Layer == 0 {
		c.Layer = LayerObstacle
	}
	f.circles = append(f.circles, c)
}

func (f *Field) AddWall(w Wall) {
	if w.Layer == 0 {
		w.Layer = LayerWall
	}
	f.walls = append(f.walls, w)
}

func (f *Field) Circles() []Circle { return f.circles }
func (f *Field) Walls() []Wall     { return f.walls }
