package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/models"
	"github.com/san-kum/sirsim/internal/sim"
)

func ptr(v float64) *float64 { return &v }

var _ = Describe("Plan", func() {
	defaultRate := (models.DefaultBeta + models.DefaultGamma) * models.DefaultS0

	It("derives step and sampling interval from the default scenario", func() {
		plan, err := sim.NewPlan(defaultRate, models.DefaultMaxTime)
		Expect(err).NotTo(HaveOccurred())

		Expect(plan.Step).To(BeNumerically("~", 0.01*defaultRate, 1e-15))
		Expect(plan.Every).To(Equal(1.0))
		Expect(plan.MaxTime).To(Equal(70.0))
	})

	It("raises the power of the truncated log for slow rates", func() {
		// log10(1/0.002) = 2.69..., floor 2, 2^10
		plan, err := sim.NewPlan(0.002, 70)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Every).To(Equal(1024.0))
	})

	It("scales the sampling interval until at most 10000 samples fit", func() {
		plan, err := sim.NewPlan(defaultRate, 1e6)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Every).To(Equal(100.0))

		plan, err = sim.NewPlan(defaultRate, 1e4)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Every).To(Equal(1.0))
	})

	DescribeTable("rejects degenerate configurations",
		func(rate, maxTime float64) {
			_, err := sim.NewPlan(rate, maxTime)
			Expect(err).To(MatchError(dynamo.ErrDegenerateConfiguration))
		},
		Entry("zero rate", 0.0, 70.0),
		Entry("negative rate", -1.0, 70.0),
		Entry("NaN rate", math.NaN(), 70.0),
		Entry("infinite rate", math.Inf(1), 70.0),
		Entry("rate where the truncated log is zero", 0.5, 70.0),
		Entry("rate of exactly one", 1.0, 70.0),
		Entry("zero horizon", defaultRate, 0.0),
		Entry("negative horizon", defaultRate, -5.0),
		Entry("infinite horizon", defaultRate, math.Inf(1)),
	)

	Describe("WithOverrides", func() {
		It("keeps derived values when nothing is overridden", func() {
			plan, err := sim.NewPlan(defaultRate, 70)
			Expect(err).NotTo(HaveOccurred())

			same, err := plan.WithOverrides(nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(same).To(Equal(plan))
		})

		It("re-scales an explicit sampling interval", func() {
			plan := sim.Plan{Step: 0.1, Every: 0.5, MaxTime: 70}
			plan, err := plan.WithOverrides(nil, ptr(0.001))
			Expect(err).NotTo(HaveOccurred())
			Expect(plan.Every).To(BeNumerically("~", 0.01, 1e-12))
		})

		It("rejects a negative step", func() {
			plan := sim.Plan{Step: 0.1, Every: 1, MaxTime: 70}
			_, err := plan.WithOverrides(ptr(-0.1), nil)
			Expect(err).To(MatchError(dynamo.ErrDegenerateConfiguration))
		})

		It("rejects an explicit zero instead of keeping the derived value", func() {
			plan, err := sim.NewPlan(defaultRate, 70)
			Expect(err).NotTo(HaveOccurred())

			_, err = plan.WithOverrides(ptr(0), nil)
			Expect(err).To(MatchError(dynamo.ErrDegenerateConfiguration))
			_, err = plan.WithOverrides(nil, ptr(0))
			Expect(err).To(MatchError(dynamo.ErrDegenerateConfiguration))
		})
	})

	It("counts the integration steps", func() {
		plan := sim.Plan{Step: 0.25, Every: 1, MaxTime: 10}
		Expect(plan.Steps()).To(Equal(40))
	})
})

var _ = Describe("DerivePlan", func() {
	It("leaves degenerate intervals for overrides to replace", func() {
		raw := sim.DerivePlan(0.5, 70)
		Expect(raw.Every).To(BeZero())
		Expect(raw.Validate()).To(MatchError(dynamo.ErrDegenerateConfiguration))

		plan, err := raw.WithOverrides(nil, ptr(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Step).To(Equal(0.005))
		Expect(plan.Every).To(Equal(1.0))
	})

	It("cannot be rescued when the rate is zero and only the step is set", func() {
		_, err := sim.DerivePlan(0, 70).WithOverrides(ptr(0.01), nil)
		Expect(err).To(MatchError(dynamo.ErrDegenerateConfiguration))
	})
})
