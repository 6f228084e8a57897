package geom

import (
	"math"
	"testing"
)

func TestRotateY(t *testing.T) {
	forward := Vec3{Z: 1}

	right := forward.RotateY(math.Pi / 2)
	if math.Abs(right.X-1) > 1e-12 || math.Abs(right.Z) > 1e-12 {
		t.Errorf("quarter turn should face +X, got %+v", right)
	}

	back := forward.RotateY(math.Pi)
	if math.Abs(back.Z+1) > 1e-12 {
		t.Errorf("half turn should face -Z, got %+v", back)
	}
}

func TestNormalizeZero(t *testing.T) {
	v := Vec3{}.Normalize()
	if v != (Vec3{}) {
		t.Errorf("normalizing zero vector should stay zero, got %+v", v)
	}
}

func TestPoseFrames(t *testing.T) {
	p := Pose{Position: Vec3{X: 1, Z: 2}, Yaw: 0}

	if x := p.LocalX(Vec3{X: 4, Z: 2}); math.Abs(x-3) > 1e-12 {
		t.Errorf("point to the right should have localX 3, got %f", x)
	}
	if z := p.LocalZ(Vec3{X: 1, Z: 7}); math.Abs(z-5) > 1e-12 {
		t.Errorf("point ahead should have localZ 5, got %f", z)
	}

	// After a quarter right turn the forward axis is +X.
	p.Yaw = math.Pi / 2
	f := p.Forward()
	if math.Abs(f.X-1) > 1e-12 || math.Abs(f.Z) > 1e-12 {
		t.Errorf("expected forward +X after quarter turn, got %+v", f)
	}
}

func TestSign(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{3.5, 1}, {-0.2, -1}, {0, 0},
	}
	for _, c := range cases {
		if got := Sign(c.in); got != c.want {
			t.Errorf("Sign(%f) = %f, want %f", c.in, got, c.want)
		}
	}
}

func TestClampLerp(t *testing.T) {
	if got := Clamp(1.5, -1, 1); got != 1 {
		t.Errorf("Clamp high: got %f", got)
	}
	if got := Clamp(-1.5, -1, 1); got != -1 {
		t.Errorf("Clamp low: got %f", got)
	}
	if got := Lerp(1.0, 0.2, 0.5); math.Abs(got-0.6) > 1e-12 {
		t.Errorf("Lerp midpoint: got %f", got)
	}
}
