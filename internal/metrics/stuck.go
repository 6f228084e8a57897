package metrics

import (
	"github.com/san-kum/roversim/internal/sim"
	"github.com/san-kum/roversim/internal/statectl"
)

// RecoverFraction is the share of ticks spent in the recover regime.
// High values mean the vehicle kept wedging itself against geometry.
type RecoverFraction struct {
	recovering int
	samples    int
}

func NewRecoverFraction() *RecoverFraction {
	return &RecoverFraction{}
}

func (r *RecoverFraction) Name() string {
	return "recover_fraction"
}

func (r *RecoverFraction) Observe(s sim.Sample) {
	r.samples++
	if s.State == statectl.Recover {
		r.recovering++
	}
}

func (r *RecoverFraction) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return float64(r.recovering) / float64(r.samples)
}

func (r *RecoverFraction) Reset() {
	r.recovering = 0
	r.samples = 0
}
