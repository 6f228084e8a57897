package sensor

import (
	"math"
	"testing"

	"github.com/san-kum/roversim/internal/geom"
	"github.com/san-kum/roversim/internal/world"
)

func testConfig() Config {
	return Config{
		RaysPerSide: 3,
		MaxAngle:    math.Pi / 3,
		Length:      20,
		Radius:      0.5,
		MinDistance: 0.2,
	}
}

func TestScanNoObstacle(t *testing.T) {
	s := NewScanner(testConfig(), world.NewField())

	r := s.Scan(geom.Pose{})
	if !r.NoObstacle() {
		t.Fatal("empty field should produce the +Inf sentinel")
	}
	if r.ForwardAlignment != 0 {
		t.Errorf("no obstacle should leave alignment zero, got %f", r.ForwardAlignment)
	}
}

func TestScanHeadOn(t *testing.T) {
	f := world.NewField()
	f.AddCircle(world.Circle{Center: geom.Vec3{Z: 10}, Radius: 1})

	s := NewScanner(testConfig(), f)
	r := s.Scan(geom.Pose{})

	if r.NoObstacle() {
		t.Fatal("expected a hit straight ahead")
	}
	if math.Abs(r.NearestDistance-8.5) > 1e-9 {
		t.Errorf("expected center probe distance 8.5, got %f", r.NearestDistance)
	}
	if math.Abs(r.ForwardAlignment-1.0) > 1e-9 {
		t.Errorf("head-on obstacle should have alignment 1, got %f", r.ForwardAlignment)
	}
}

func TestScanSideAlignmentDegrades(t *testing.T) {
	f := world.NewField()
	f.AddCircle(world.Circle{Center: geom.Vec3{X: 6, Z: 6}, Radius: 1})

	s := NewScanner(testConfig(), f)
	r := s.Scan(geom.Pose{})

	if r.NoObstacle() {
		t.Fatal("expected the fan to catch a diagonal obstacle")
	}
	if r.ForwardAlignment <= 0 || r.ForwardAlignment >= 1 {
		t.Errorf("diagonal obstacle should have alignment in (0,1), got %f", r.ForwardAlignment)
	}
}

func TestScanRejectsSelfIntersection(t *testing.T) {
	f := world.NewField()
	f.AddCircle(world.Circle{Center: geom.Vec3{Z: 0.5}, Radius: 0.3})

	cfg := testConfig()
	cfg.MinDistance = 1.0
	s := NewScanner(cfg, f)

	if r := s.Scan(geom.Pose{}); !r.NoObstacle() {
		t.Errorf("hit inside min distance must be rejected, got %f", r.NearestDistance)
	}
}

func TestScanNearestWins(t *testing.T) {
	f := world.NewField()
	f.AddCircle(world.Circle{Center: geom.Vec3{Z: 12}, Radius: 1})
	f.AddCircle(world.Circle{Center: geom.Vec3{X: -4, Z: 4}, Radius: 1})

	s := NewScanner(testConfig(), f)
	r := s.Scan(geom.Pose{})

	if r.NoObstacle() {
		t.Fatal("expected hits")
	}
	if r.NearestPoint.X >= 0 {
		t.Errorf("nearest obstacle is on the left, got point %+v", r.NearestPoint)
	}
}

func TestScanCachesLast(t *testing.T) {
	f := world.NewField()
	f.AddCircle(world.Circle{Center: geom.Vec3{Z: 10}, Radius: 1})

	s := NewScanner(testConfig(), f)
	r := s.Scan(geom.Pose{})

	if s.Last() != r {
		t.Error("Last should return the reading from the latest scan")
	}
}

func TestScanRespectsHeading(t *testing.T) {
	f := world.NewField()
	f.AddCircle(world.Circle{Center: geom.Vec3{X: 10}, Radius: 1})

	s := NewScanner(testConfig(), f)

	// facing +Z the obstacle at +X is outside the fan
	if r := s.Scan(geom.Pose{}); !r.NoObstacle() {
		t.Errorf("obstacle at 90 degrees should be outside a 60 degree fan, got %f", r.NearestDistance)
	}

	// after turning to face +X it is dead ahead
	r := s.Scan(geom.Pose{Yaw: math.Pi / 2})
	if r.NoObstacle() {
		t.Fatal("expected a hit after turning toward the obstacle")
	}
	if math.Abs(r.ForwardAlignment-1.0) > 1e-9 {
		t.Errorf("expected alignment 1 facing the obstacle, got %f", r.ForwardAlignment)
	}
}
