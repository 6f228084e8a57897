package metrics

import (
	"math"

	"github.com/san-kum/roversim/internal/sim"
)

// MinClearance tracks the closest the vehicle ever came to an obstacle.
// Runs that never saw an obstacle report +Inf.
type MinClearance struct {
	min float64
}

func NewMinClearance() *MinClearance {
	return &MinClearance{min: math.Inf(1)}
}

func (m *MinClearance) Name() string {
	return "min_clearance"
}

func (m *MinClearance) Observe(s sim.Sample) {
	if s.Reading.NearestDistance < m.min {
		m.min = s.Reading.NearestDistance
	}
}

func (m *MinClearance) Value() float64 {
	return m.min
}

func (m *MinClearance) Reset() {
	m.min = math.Inf(1)
}
