package track

import (
	"testing"

	"github.com/san-kum/roversim/internal/geom"
)

func TestNextGoalAndCapture(t *testing.T) {
	c := Line(3, 10, 2)

	goal, ok := c.NextGoal(geom.Pose{})
	if !ok || goal.Z != 10 {
		t.Fatalf("first goal should be at z=10, got %+v ok=%v", goal, ok)
	}

	// outside the radius: nothing captured
	c.Advance(geom.Pose{Position: geom.Vec3{Z: 5}}, 1.0)
	if c.Reached() != 0 {
		t.Error("checkpoint captured from outside its radius")
	}

	// inside the radius: capture and advance
	c.Advance(geom.Pose{Position: geom.Vec3{Z: 9}}, 2.0)
	if c.Reached() != 1 {
		t.Fatal("expected capture inside the radius")
	}

	goal, _ = c.NextGoal(geom.Pose{})
	if goal.Z != 20 {
		t.Errorf("target should advance to z=20, got %+v", goal)
	}
}

func TestEventsArePolled(t *testing.T) {
	c := Line(2, 10, 2)

	c.Advance(geom.Pose{Position: geom.Vec3{Z: 10}}, 3.5)

	ev := c.DrainEvents()
	if len(ev) != 1 || ev[0].Index != 0 || ev[0].Time != 3.5 {
		t.Fatalf("expected one capture event at t=3.5, got %+v", ev)
	}

	if again := c.DrainEvents(); len(again) != 0 {
		t.Error("drain should clear the queue")
	}
}

func TestCourseDone(t *testing.T) {
	c := Line(1, 5, 2)

	if c.Done() {
		t.Fatal("fresh course should not be done")
	}
	c.Advance(geom.Pose{Position: geom.Vec3{Z: 5}}, 1)
	if !c.Done() {
		t.Error("course should be done after the last capture")
	}
	if _, ok := c.NextGoal(geom.Pose{}); ok {
		t.Error("a finished course has no next goal")
	}
}

func TestLoopingCourseWraps(t *testing.T) {
	c := NewCourse([]Checkpoint{
		{Position: geom.Vec3{Z: 5}, Radius: 2},
		{Position: geom.Vec3{Z: 10}, Radius: 2},
	}, true)

	c.Advance(geom.Pose{Position: geom.Vec3{Z: 5}}, 1)
	c.Advance(geom.Pose{Position: geom.Vec3{Z: 10}}, 2)

	if c.Done() {
		t.Error("looping course never finishes")
	}
	goal, ok := c.NextGoal(geom.Pose{})
	if !ok || goal.Z != 5 {
		t.Errorf("looping course should wrap to the first checkpoint, got %+v", goal)
	}
}

func TestReset(t *testing.T) {
	c := Line(2, 10, 2)
	c.Advance(geom.Pose{Position: geom.Vec3{Z: 10}}, 1)

	c.Reset()
	if c.Reached() != 0 || c.NextIndex() != 0 {
		t.Error("reset should restore the course start")
	}
	if len(c.DrainEvents()) != 0 {
		t.Error("reset should drop pending events")
	}
}
