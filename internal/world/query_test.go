package world

import (
	"math"
	"testing"

	"github.com/san-kum/roversim/internal/geom"
)

func TestSweepSphereCircle(t *testing.T) {
	f := NewField()
	f.AddCircle(Circle{Center: geom.Vec3{Z: 10}, Radius: 1})

	hit, ok := f.SweepSphere(geom.Vec3{}, geom.Vec3{Z: 1}, 20, 0.5, LayerAll)
	if !ok {
		t.Fatal("expected a hit straight ahead")
	}
	// contact when probe center is circle radius + probe radius away
	if math.Abs(hit.Distance-8.5) > 1e-9 {
		t.Errorf("expected distance 8.5, got %f", hit.Distance)
	}
	if math.Abs(hit.Point.Z-8.5) > 1e-9 {
		t.Errorf("expected hit point on the probe axis, got %+v", hit.Point)
	}
}

func TestSweepSphereMiss(t *testing.T) {
	f := NewField()
	f.AddCircle(Circle{Center: geom.Vec3{Z: 100}, Radius: 1})

	if _, ok := f.SweepSphere(geom.Vec3{}, geom.Vec3{Z: 1}, 20, 0.5, LayerAll); ok {
		t.Error("obstacle beyond probe length should not register")
	}
	if _, ok := f.SweepSphere(geom.Vec3{}, geom.Vec3{X: 1}, 200, 0.5, LayerAll); ok {
		t.Error("obstacle off the probe axis should not register")
	}
}

func TestSweepSphereLayerMask(t *testing.T) {
	f := NewField()
	f.AddCircle(Circle{Center: geom.Vec3{Z: 5}, Radius: 1, Layer: LayerObstacle})

	if _, ok := f.SweepSphere(geom.Vec3{}, geom.Vec3{Z: 1}, 20, 0.5, LayerWall); ok {
		t.Error("mask excluding the obstacle layer should see nothing")
	}
	if _, ok := f.SweepSphere(geom.Vec3{}, geom.Vec3{Z: 1}, 20, 0.5, LayerObstacle); !ok {
		t.Error("matching mask should see the obstacle")
	}
}

func TestSweepSphereWall(t *testing.T) {
	f := NewField()
	f.AddWall(Wall{A: geom.Vec3{X: -5, Z: 10}, B: geom.Vec3{X: 5, Z: 10}, Thickness: 0.5})

	hit, ok := f.SweepSphere(geom.Vec3{}, geom.Vec3{Z: 1}, 20, 0.5, LayerAll)
	if !ok {
		t.Fatal("expected a hit on the wall")
	}
	if math.Abs(hit.Distance-9.0) > 1e-9 {
		t.Errorf("expected distance 9.0, got %f", hit.Distance)
	}

	// a probe aimed past the wall's end should miss
	if _, ok := f.SweepSphere(geom.Vec3{X: 20}, geom.Vec3{Z: 1}, 20, 0.5, LayerAll); ok {
		t.Error("probe beyond segment span should miss")
	}
}

func TestSweepSphereNearest(t *testing.T) {
	f := NewField()
	f.AddCircle(Circle{Center: geom.Vec3{Z: 15}, Radius: 1})
	f.AddCircle(Circle{Center: geom.Vec3{Z: 6}, Radius: 1})

	hit, ok := f.SweepSphere(geom.Vec3{}, geom.Vec3{Z: 1}, 30, 0.5, LayerAll)
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(hit.Distance-4.5) > 1e-9 {
		t.Errorf("expected nearest obstacle to win, got distance %f", hit.Distance)
	}
}

func TestBoxArenaEncloses(t *testing.T) {
	f := BoxArena(20, 0.5)

	for _, dir := range []geom.Vec3{{Z: 1}, {Z: -1}, {X: 1}, {X: -1}} {
		if _, ok := f.SweepSphere(geom.Vec3{}, dir, 50, 0.5, LayerAll); !ok {
			t.Errorf("arena wall should be hit in direction %+v", dir)
		}
	}
}
