package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/roversim/internal/arbiter"
	"github.com/san-kum/roversim/internal/fuzzy"
	"github.com/san-kum/roversim/internal/geom"
	"github.com/san-kum/roversim/internal/policy"
	"github.com/san-kum/roversim/internal/sensor"
	"github.com/san-kum/roversim/internal/statectl"
	"github.com/san-kum/roversim/internal/track"
	"github.com/san-kum/roversim/internal/vehicle"
)

// Runner owns one vehicle's arbitration pass and drives it tick by tick:
// sensor → {fuzzy, state} → arbiter → actuator, in that order, every tick.
// Runners are not safe for concurrent use; run one per goroutine.
type Runner struct {
	scanner    *sensor.Scanner
	engine     *fuzzy.Engine
	controller *statectl.Controller
	arb        *arbiter.Arbiter
	veh        *vehicle.Vehicle
	course     *track.Course
	source     policy.Source

	metrics   []Metric
	observers []Observer
}

func NewRunner(
	scanner *sensor.Scanner,
	engine *fuzzy.Engine,
	controller *statectl.Controller,
	arb *arbiter.Arbiter,
	veh *vehicle.Vehicle,
	course *track.Course,
	source policy.Source,
) *Runner {
	return &Runner{
		scanner:    scanner,
		engine:     engine,
		controller: controller,
		arb:        arb,
		veh:        veh,
		course:     course,
		source:     source,
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Vehicle exposes the plant for visualization.
func (r *Runner) Vehicle() *vehicle.Vehicle { return r.veh }

// Course exposes the goal tracker for visualization.
func (r *Runner) Course() *track.Course { return r.course }

// Tick runs one full arbitration pass at time t and advances the plant by
// dt. A tick either completes fully or does not run at all; there are no
// suspension points inside it.
func (r *Runner) Tick(t, dt float64) Sample {
	pose := r.veh.Pose()
	speed := r.veh.Speed()

	reading := r.scanner.Scan(pose)

	localX := 0.0
	if !reading.NoObstacle() {
		localX = pose.LocalX(reading.NearestPoint)
	}

	fz := r.engine.Compute(reading, localX)
	st := r.controller.Evaluate(reading.NearestDistance, localX, speed, dt)

	act := r.source.Act(r.observation(pose, reading))

	cmd := r.arb.Tick(act, fz, st)

	r.veh.Step(dt)
	r.course.Advance(r.veh.Pose(), t+dt)

	// The sample describes the tick's inputs: pose and speed as the
	// controllers saw them, before the plant stepped.
	return Sample{
		Time:       t,
		Pose:       pose,
		Speed:      speed,
		Reading:    reading,
		Fuzzy:      fz,
		State:      st.State,
		StuckTimer: r.controller.StuckTimer(),
		Action:     act,
		Command:    cmd,
	}
}

// observation assembles what the policy sees. The goal direction comes
// from the tracker in the vehicle's local frame.
func (r *Runner) observation(pose geom.Pose, reading sensor.ProximityReading) policy.Observation {
	obs := policy.Observation{
		ForwardSpeed:    r.veh.Speed(),
		NearestDistance: reading.NearestDistance,
	}
	if goal, ok := r.course.NextGoal(pose); ok {
		obs.GoalLocalX = pose.LocalX(goal)
		obs.GoalLocalZ = pose.LocalZ(goal)
		obs.GoalDistance = goal.Sub(pose.Position).Norm()
	}
	return obs
}

// Run executes a complete simulation. Cancellation is only observed
// between ticks, never inside one.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Samples: make([]Sample, 0, steps),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("run stopped at tick %d (t=%.3fs): %w", i, t, ctx.Err())
		default:
		}

		s := r.Tick(t, cfg.Dt)
		t += cfg.Dt

		for _, m := range r.metrics {
			m.Observe(s)
		}
		for _, o := range r.observers {
			o.OnTick(s)
		}

		result.Samples = append(result.Samples, s)
		result.Checkpoints = append(result.Checkpoints, r.course.DrainEvents()...)
		result.TicksRun++

		if cfg.StopWhenDone && r.course.Done() {
			result.Completed = true
			break
		}
	}

	r.arb.Halt()

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// Reset restores the runner for a fresh run from the given start pose.
func (r *Runner) Reset(start geom.Pose) {
	r.veh.Reset(start)
	r.controller.Reset()
	r.course.Reset()
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
