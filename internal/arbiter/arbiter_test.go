package arbiter_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/roversim/internal/arbiter"
	"github.com/san-kum/roversim/internal/fuzzy"
	"github.com/san-kum/roversim/internal/policy"
	"github.com/san-kum/roversim/internal/statectl"
)

type recordingActuator struct {
	throttle, steer float64
	applied         int
	stopped         bool
}

func (r *recordingActuator) Apply(throttle, steer float64) {
	r.throttle, r.steer = throttle, steer
	r.applied++
}

func (r *recordingActuator) FullStop() { r.stopped = true }

var _ = Describe("Arbiter", func() {
	var (
		act policy.Action
		fz  fuzzy.Output
		st  statectl.Output
	)

	BeforeEach(func() {
		act = policy.Action{Steer: 0.5, Throttle: 0.8}
		fz = fuzzy.Output{ThrottleMultiplier: 0.5, SteerCorrection: -0.3}
		st = statectl.Output{State: statectl.AvoidObstacle, SpeedMultiplier: 0.6, SteerBoost: -0.6}
	})

	Describe("policy mode", func() {
		It("passes the policy action through", func() {
			a := arbiter.New(arbiter.PolicyOnly, false, nil)
			cmd := a.Fuse(act, fz, st)
			Expect(cmd.Steer).To(Equal(0.5))
			Expect(cmd.Throttle).To(Equal(0.8))
		})

		It("clamps out-of-range actions instead of rejecting them", func() {
			a := arbiter.New(arbiter.PolicyOnly, false, nil)
			cmd := a.Fuse(policy.Action{Steer: 4.2, Throttle: -9}, fz, st)
			Expect(cmd.Steer).To(Equal(1.0))
			Expect(cmd.Throttle).To(Equal(-1.0))
		})
	})

	Describe("state mode", func() {
		It("uses the state controller output only", func() {
			a := arbiter.New(arbiter.StateOnly, false, nil)
			cmd := a.Fuse(act, fz, st)
			Expect(cmd.Throttle).To(Equal(0.6))
			Expect(cmd.Steer).To(Equal(-0.6))
		})

		It("never commands reverse", func() {
			a := arbiter.New(arbiter.StateOnly, false, nil)
			cmd := a.Fuse(act, fz, statectl.Output{SpeedMultiplier: -0.5})
			Expect(cmd.Throttle).To(Equal(0.0))
		})
	})

	Describe("fuzzy mode", func() {
		It("uses the fuzzy output only", func() {
			a := arbiter.New(arbiter.FuzzyOnly, false, nil)
			cmd := a.Fuse(act, fz, st)
			Expect(cmd.Throttle).To(Equal(0.5))
			Expect(cmd.Steer).To(Equal(-0.3))
		})
	})

	Describe("blended mode", func() {
		It("layers the correctives over the policy action", func() {
			a := arbiter.New(arbiter.Blended, false, nil)
			cmd := a.Fuse(act, fz, st)
			// steer = 0.5 + (-0.6) + 0.6·(-0.3) = -0.28
			Expect(cmd.Steer).To(BeNumerically("~", -0.28, 1e-9))
			// throttle = 0.7·0.8 + 0.2·0.5 + 0.2·0.6 = 0.78
			Expect(cmd.Throttle).To(BeNumerically("~", 0.78, 1e-9))
		})

		It("forbids reverse throttle by default", func() {
			a := arbiter.New(arbiter.Blended, false, nil)
			cmd := a.Fuse(policy.Action{Throttle: -1}, fuzzy.Output{}, statectl.Output{})
			Expect(cmd.Throttle).To(Equal(0.0))
		})

		It("permits reverse throttle when configured", func() {
			a := arbiter.New(arbiter.Blended, true, nil)
			cmd := a.Fuse(policy.Action{Throttle: -1}, fuzzy.Output{}, statectl.Output{})
			Expect(cmd.Throttle).To(BeNumerically("~", -0.7, 1e-9))
		})

		It("clamps the fused steer to [-1, 1]", func() {
			a := arbiter.New(arbiter.Blended, false, nil)
			cmd := a.Fuse(policy.Action{Steer: 1}, fuzzy.Output{SteerCorrection: 1}, statectl.Output{SteerBoost: 0.6})
			Expect(cmd.Steer).To(Equal(1.0))
		})
	})

	Describe("actuator forwarding", func() {
		It("applies each fused command downstream", func() {
			rec := &recordingActuator{}
			a := arbiter.New(arbiter.PolicyOnly, false, rec)

			cmd := a.Tick(act, fz, st)
			Expect(rec.applied).To(Equal(1))
			Expect(rec.throttle).To(Equal(cmd.Throttle))
			Expect(rec.steer).To(Equal(cmd.Steer))
		})

		It("halts with a full stop command", func() {
			rec := &recordingActuator{}
			a := arbiter.New(arbiter.PolicyOnly, false, rec)

			a.Halt()
			Expect(rec.stopped).To(BeTrue())
		})
	})

	Describe("mode parsing", func() {
		It("maps names to modes", func() {
			for name, want := range map[string]arbiter.Mode{
				"policy":  arbiter.PolicyOnly,
				"state":   arbiter.StateOnly,
				"fuzzy":   arbiter.FuzzyOnly,
				"blended": arbiter.Blended,
			} {
				m, err := arbiter.ParseMode(name)
				Expect(err).NotTo(HaveOccurred())
				Expect(m).To(Equal(want))
			}
		})

		It("rejects unknown names instead of defaulting", func() {
			_, err := arbiter.ParseMode("hybrid")
			Expect(err).To(HaveOccurred())
			_, err = arbiter.ParseMode("")
			Expect(err).To(HaveOccurred())
		})
	})
})
