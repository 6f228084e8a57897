package policy

import (
	"testing"
)

func TestChaseSteersTowardGoal(t *testing.T) {
	p := NewChase()

	right := p.Act(Observation{GoalLocalX: 5, GoalLocalZ: 5, GoalDistance: 7})
	if right.Steer <= 0 {
		t.Errorf("goal to the right should steer right, got %f", right.Steer)
	}

	left := p.Act(Observation{GoalLocalX: -5, GoalLocalZ: 5, GoalDistance: 7})
	if left.Steer >= 0 {
		t.Errorf("goal to the left should steer left, got %f", left.Steer)
	}

	ahead := p.Act(Observation{GoalLocalX: 0, GoalLocalZ: 10, GoalDistance: 10})
	if ahead.Steer != 0 {
		t.Errorf("goal dead ahead should steer straight, got %f", ahead.Steer)
	}
}

func TestChaseNoGoal(t *testing.T) {
	p := NewChase()
	if got := p.Act(Observation{}); got != (Action{}) {
		t.Errorf("no goal should coast, got %+v", got)
	}
}

func TestChaseBounded(t *testing.T) {
	p := NewChase()
	// goal directly behind produces the largest bearing error
	a := p.Act(Observation{GoalLocalX: 0.01, GoalLocalZ: -10, GoalDistance: 10})
	if a.Steer < -1 || a.Steer > 1 {
		t.Errorf("steer must stay in [-1,1], got %f", a.Steer)
	}
}

func TestScriptedDeterministic(t *testing.T) {
	a := NewScripted(42, 0.5)
	b := NewScripted(42, 0.5)

	for i := 0; i < 50; i++ {
		if a.Act(Observation{}) != b.Act(Observation{}) {
			t.Fatal("same seed must produce the same action stream")
		}
	}
}

func TestScriptedBounded(t *testing.T) {
	s := NewScripted(7, 0.5)
	for i := 0; i < 500; i++ {
		a := s.Act(Observation{})
		if a.Steer < -1 || a.Steer > 1 {
			t.Fatalf("steer out of range at step %d: %f", i, a.Steer)
		}
	}
}
