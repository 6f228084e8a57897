package sim

import (
	"github.com/san-kum/roversim/internal/arbiter"
	"github.com/san-kum/roversim/internal/fuzzy"
	"github.com/san-kum/roversim/internal/geom"
	"github.com/san-kum/roversim/internal/policy"
	"github.com/san-kum/roversim/internal/sensor"
	"github.com/san-kum/roversim/internal/statectl"
	"github.com/san-kum/roversim/internal/track"
)

// Sample is one tick of telemetry: everything the arbitration pass saw
// and decided, plus the resulting vehicle motion.
type Sample struct {
	Time       float64
	Pose       geom.Pose
	Speed      float64
	Reading    sensor.ProximityReading
	Fuzzy      fuzzy.Output
	State      statectl.State
	StuckTimer float64
	Action     policy.Action
	Command    arbiter.Command
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Observer is notified after every completed tick (live views, loggers).
type Observer interface {
	OnTick(s Sample)
}

// Config controls a run's time base.
type Config struct {
	Dt       float64
	Duration float64
	Seed     int64

	// StopWhenDone ends the run early once the course is complete.
	StopWhenDone bool
}

func DefaultConfig() Config {
	return Config{Dt: 0.02, Duration: 60.0, StopWhenDone: true}
}

// Result is the recorded outcome of one run.
type Result struct {
	Samples     []Sample
	Metrics     map[string]float64
	Checkpoints []track.Event
	TicksRun    int
	Completed   bool
}
