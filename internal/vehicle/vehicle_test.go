package vehicle

import (
	"math"
	"testing"

	"github.com/san-kum/roversim/internal/geom"
)

func TestAccelerateForward(t *testing.T) {
	v := New()
	v.Apply(1.0, 0)

	for i := 0; i < 100; i++ {
		v.Step(0.02)
	}

	if v.Speed() <= 0 {
		t.Fatalf("full throttle should build forward speed, got %f", v.Speed())
	}
	if v.Pose().Position.Z <= 0 {
		t.Errorf("vehicle should advance along +Z, got %+v", v.Pose().Position)
	}
	if v.Speed() > v.MaxSpeed {
		t.Errorf("speed exceeds the limit: %f", v.Speed())
	}
}

func TestDragSettlesBelowMax(t *testing.T) {
	v := New()
	v.Apply(1.0, 0)

	for i := 0; i < 5000; i++ {
		v.Step(0.02)
	}

	terminal := v.MaxAccel / v.Drag
	want := math.Min(terminal, v.MaxSpeed)
	if math.Abs(v.Speed()-want) > 0.1 {
		t.Errorf("expected terminal speed near %f, got %f", want, v.Speed())
	}
}

func TestSteerTurns(t *testing.T) {
	v := New()
	v.Apply(1.0, 1.0)

	for i := 0; i < 200; i++ {
		v.Step(0.02)
	}

	if v.Pose().Yaw <= 0 {
		t.Errorf("positive steer should increase yaw, got %f", v.Pose().Yaw)
	}
}

func TestNoSpinAtStandstill(t *testing.T) {
	v := New()
	v.Apply(0, 1.0)

	v.Step(0.02)
	if v.Pose().Yaw != 0 {
		t.Errorf("steering at zero speed should not rotate, got yaw %f", v.Pose().Yaw)
	}
}

func TestApplyClamps(t *testing.T) {
	v := New()
	v.Apply(7, -9)
	throttle, steer := v.Command()
	if throttle != 1 || steer != -1 {
		t.Errorf("apply should clamp commands, got (%f, %f)", throttle, steer)
	}
}

func TestFullStop(t *testing.T) {
	v := New()
	v.Apply(1, 0.5)
	for i := 0; i < 50; i++ {
		v.Step(0.02)
	}

	v.FullStop()
	if v.Speed() != 0 {
		t.Errorf("full stop should kill motion, got speed %f", v.Speed())
	}

	pos := v.Pose().Position
	v.Step(0.02)
	if v.Pose().Position != pos {
		t.Error("a stopped vehicle with no command should not move")
	}
}

func TestReset(t *testing.T) {
	v := New()
	v.Apply(1, 1)
	for i := 0; i < 50; i++ {
		v.Step(0.02)
	}

	start := geom.Pose{Position: geom.Vec3{X: 3, Z: -2}, Yaw: 1.2}
	v.Reset(start)

	if v.Pose() != start || v.Speed() != 0 {
		t.Errorf("reset should restore the pose at rest, got %+v speed %f", v.Pose(), v.Speed())
	}
}
